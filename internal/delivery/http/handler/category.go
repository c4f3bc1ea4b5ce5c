package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/sneakpeak/storefront/internal/delivery/http/middleware"
	"github.com/sneakpeak/storefront/internal/delivery/http/request"
	"github.com/sneakpeak/storefront/internal/delivery/http/response"
	"github.com/sneakpeak/storefront/internal/domain"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
	"github.com/sneakpeak/storefront/internal/usecase/category"
)

// CategoryHandler handles HTTP requests for categories
type CategoryHandler struct {
	service *category.Service
	logger  *logger.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(service *category.Service, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  log,
	}
}

// CategoryRequest represents the request body for creating or updating a category
type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=50"`
	Description *string `json:"description,omitempty"`
}

// List handles GET /api/v1/categories
// @Summary List active categories
// @Description Get one page of active categories, name-sorted, with product counts
// @Tags Categories
// @Accept json
// @Produce json
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Items per page (max 100)" default(12)
// @Param search query string false "Match against name and description"
// @Success 200 {object} map[string]interface{} "Paginated list of categories"
// @Failure 400 {object} map[string]string "Page out of range"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := request.GetPageParams(r)

	f := domain.CategoryFilter{
		Search: r.URL.Query().Get("search"),
		Page:   page,
		Limit:  limit,
	}

	categories, total, err := h.service.List(r.Context(), f)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Paginated(w, categories, total, f.Page, f.Limit)
}

// AdminList handles GET /api/v1/admin/categories
// @Summary List all categories
// @Description Get categories including inactive ones (admin)
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Items per page (max 100)" default(20)
// @Param search query string false "Match against name and description"
// @Param include_inactive query bool false "Include soft-deleted categories" default(false)
// @Success 200 {object} map[string]interface{} "Paginated list of categories"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/categories [get]
func (h *CategoryHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	page, limit := request.GetPageParams(r)

	f := domain.CategoryFilter{
		Search:          r.URL.Query().Get("search"),
		IncludeInactive: r.URL.Query().Get("include_inactive") == "true",
		Page:            page,
		Limit:           limit,
	}

	categories, total, err := h.service.AdminList(r.Context(), f)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Paginated(w, categories, total, f.Page, f.Limit)
}

// GetByID handles GET /api/v1/categories/:id
// @Summary Get a category by ID
// @Description Get an active category with its product count
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID (UUID)"
// @Success 200 {object} map[string]interface{} "Category details"
// @Failure 400 {object} map[string]string "Invalid category ID"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	cat, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, cat)
}

// Create handles POST /api/v1/admin/categories
// @Summary Create a new category
// @Description Create a category with a case-insensitively unique name (admin)
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body CategoryRequest true "Category details"
// @Success 201 {object} map[string]interface{} "Category created successfully"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 409 {object} map[string]string "Category name already in use"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cat := &domain.Category{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}

	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		cat.CreatedBy = &claims.UserID
	}

	if err := h.service.Create(r.Context(), cat); err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, cat)
}

// Update handles PUT /api/v1/admin/categories/:id
// @Summary Update a category
// @Description Update a category's name and description (admin)
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID (UUID)"
// @Param category body CategoryRequest true "Updated category details"
// @Success 200 {object} map[string]interface{} "Category updated successfully"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 409 {object} map[string]string "Category name already in use"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/categories/{id} [put]
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var req CategoryRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cat := &domain.Category{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	}

	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		cat.UpdatedBy = &claims.UserID
	}

	if err := h.service.Update(r.Context(), cat); err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, cat)
}

// Delete handles DELETE /api/v1/admin/categories/:id
// @Summary Delete a category
// @Description Soft delete a category; blocked while products are still linked (admin)
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID (UUID)"
// @Success 204 "Category deleted successfully"
// @Failure 400 {object} map[string]string "Invalid category ID"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 409 {object} map[string]string "Category still has linked products"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// Restore handles POST /api/v1/admin/categories/:id/restore
// @Summary Restore a category
// @Description Re-activate a soft-deleted category (admin)
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID (UUID)"
// @Success 200 {object} map[string]interface{} "Category restored successfully"
// @Failure 400 {object} map[string]string "Invalid category ID"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/categories/{id}/restore [post]
func (h *CategoryHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var updatedBy *uuid.UUID
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		updatedBy = &claims.UserID
	}

	if err := h.service.Restore(r.Context(), id, updatedBy); err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": "restored"})
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *CategoryHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Category not found")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, domain.ErrAlreadyExists):
		response.Error(w, http.StatusConflict, "Category name already in use")
	case errors.Is(err, domain.ErrCategoryInUse):
		response.Error(w, http.StatusConflict, "Category still has linked products")
	default:
		h.logger.Error("Internal error in category handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
