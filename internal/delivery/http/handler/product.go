package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/sneakpeak/storefront/internal/delivery/http/request"
	"github.com/sneakpeak/storefront/internal/delivery/http/response"
	"github.com/sneakpeak/storefront/internal/domain"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
	"github.com/sneakpeak/storefront/internal/usecase/product"
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service *product.Service
	logger  *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *product.Service, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  log,
	}
}

// ImagePayload is one base64-encoded image in a product request
type ImagePayload struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	Data        []byte `json:"data" validate:"required"`
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name        string         `json:"name" validate:"required,min=1,max=255"`
	Description *string        `json:"description,omitempty"`
	Price       float64        `json:"price" validate:"gte=0"`
	Stock       int            `json:"stock" validate:"gte=0"`
	CategoryID  *uuid.UUID     `json:"category_id,omitempty"`
	Images      []ImagePayload `json:"images" validate:"required,min=1"`
}

// UpdateProductRequest represents the request body for updating a product
type UpdateProductRequest struct {
	Name        string         `json:"name" validate:"required,min=1,max=255"`
	Description *string        `json:"description,omitempty"`
	Price       float64        `json:"price" validate:"gte=0"`
	Stock       int            `json:"stock" validate:"gte=0"`
	CategoryID  *uuid.UUID     `json:"category_id,omitempty"`
	Images      []ImagePayload `json:"images,omitempty"`
}

// List handles GET /api/v1/products
// @Summary List catalog products
// @Description Get one catalog page narrowed by keyword search, attribute filters and a price range
// @Tags Products
// @Accept json
// @Produce json
// @Param keyword query string false "Case-insensitive name search"
// @Param page query int false "Page number (1-based)" default(1)
// @Param category query string false "Category filter"
// @Param price[gte] query number false "Minimum price"
// @Param price[lte] query number false "Maximum price"
// @Success 200 {object} map[string]interface{} "One catalog page with counts"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), r.URL.Query())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, page)
}

// ListAll handles GET /api/v1/admin/products
// @Summary List all products
// @Description Get every product without filters or pagination (admin)
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "All products"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/products [get]
func (h *ProductHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListAll(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, products)
}

// GetByID handles GET /api/v1/products/:id
// @Summary Get a product by ID
// @Description Get detailed information about a product including review aggregates
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Success 200 {object} map[string]interface{} "Product details"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, product)
}

// Create handles POST /api/v1/admin/products
// @Summary Create a new product
// @Description Create a product with at least one image (admin)
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body CreateProductRequest true "Product details"
// @Success 201 {object} map[string]interface{} "Product created successfully"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	}

	if err := h.service.Create(r.Context(), p, toImageUploads(req.Images)); err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, p)
}

// Update handles PUT /api/v1/admin/products/:id
// @Summary Update a product
// @Description Update product details; new images replace the existing set (admin)
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID (UUID)"
// @Param product body UpdateProductRequest true "Updated product details"
// @Success 200 {object} map[string]interface{} "Product updated successfully"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p := &domain.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	}

	if err := h.service.Update(r.Context(), p, toImageUploads(req.Images)); err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, p)
}

// Delete handles DELETE /api/v1/admin/products/:id
// @Summary Delete a product
// @Description Soft delete a product (admin)
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID (UUID)"
// @Success 204 "Product deleted successfully"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

func toImageUploads(payloads []ImagePayload) []product.ImageUpload {
	uploads := make([]product.ImageUpload, 0, len(payloads))
	for _, p := range payloads {
		uploads = append(uploads, product.ImageUpload{
			Filename:    p.Filename,
			ContentType: p.ContentType,
			Data:        p.Data,
		})
	}
	return uploads
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *ProductHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("Internal error in product handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
