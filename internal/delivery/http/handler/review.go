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
	"github.com/sneakpeak/storefront/internal/usecase/review"
	"github.com/sneakpeak/storefront/internal/usecase/user"
)

// ReviewHandler handles HTTP requests for reviews
type ReviewHandler struct {
	service *review.Service
	users   *user.Service
	logger  *logger.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service *review.Service, users *user.Service, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		users:   users,
		logger:  log,
	}
}

// SubmitReviewRequest represents the request body for submitting a review
type SubmitReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" validate:"max=5000"`
}

// Submit handles PUT /api/v1/reviews
// @Summary Submit a product review
// @Description Create the caller's review of a product, or overwrite it if one exists. Returns the product's updated rating aggregates.
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param review body SubmitReviewRequest true "Review details"
// @Success 200 {object} map[string]interface{} "Updated rating aggregates"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reviews [put]
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req SubmitReviewRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// The stored reviewer name is a snapshot of the account name
	caller, err := h.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	rev := &domain.Review{
		ProductID: req.ProductID,
		UserID:    claims.UserID,
		UserName:  caller.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	summary, err := h.service.AddOrUpdate(r.Context(), rev)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, summary)
}

// GetByProductID handles GET /api/v1/products/:id/reviews
// @Summary List reviews for a product
// @Description Get all reviews for a product
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Success 200 {object} map[string]interface{} "List of reviews"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{id}/reviews [get]
func (h *ReviewHandler) GetByProductID(w http.ResponseWriter, r *http.Request) {
	productID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	reviews, err := h.service.ListByProduct(r.Context(), productID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, reviews)
}

// Delete handles DELETE /api/v1/products/:id/reviews/:reviewId
// @Summary Delete a review
// @Description Delete a review and recompute the product's rating aggregates (admin)
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID (UUID)"
// @Param reviewId path string true "Review ID (UUID)"
// @Success 200 {object} map[string]interface{} "Updated rating aggregates"
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Review not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/products/{id}/reviews/{reviewId} [delete]
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	reviewID, err := request.GetUUIDParam(r, "reviewId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	summary, err := h.service.Delete(r.Context(), productID, reviewID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, summary)
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *ReviewHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("Internal error in review handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
