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
	"github.com/sneakpeak/storefront/internal/usecase/order"
)

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	service *order.Service
	logger  *logger.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service *order.Service, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  log,
	}
}

// OrderItemRequest is one line item in an order request
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Price     float64   `json:"price" validate:"gte=0"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"order_items" validate:"required,min=1,dive"`
	ItemsPrice    float64            `json:"items_price" validate:"gte=0"`
	TaxPrice      float64            `json:"tax_price" validate:"gte=0"`
	ShippingPrice float64            `json:"shipping_price" validate:"gte=0"`
	TotalPrice    float64            `json:"total_price" validate:"gte=0"`
	PaymentID     string             `json:"payment_id"`
	PaymentStatus string             `json:"payment_status"`
}

// UpdateOrderStatusRequest represents the request body for a status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Create handles POST /api/v1/orders
// @Summary Create a new order
// @Description Place an order with its line items and price breakdown
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order body CreateOrderRequest true "Order details"
// @Success 201 {object} map[string]interface{} "Order created successfully"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /orders [post]
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req CreateOrderRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	items := make([]*domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, &domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	o := &domain.Order{
		UserID:        claims.UserID,
		Items:         items,
		ItemsPrice:    req.ItemsPrice,
		TaxPrice:      req.TaxPrice,
		ShippingPrice: req.ShippingPrice,
		TotalPrice:    req.TotalPrice,
		PaymentID:     req.PaymentID,
		PaymentStatus: req.PaymentStatus,
	}

	if err := h.service.Create(r.Context(), o); err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, o)
}

// GetByID handles GET /api/v1/orders/:id
// @Summary Get an order by ID
// @Description Get an order with its line items. Callers see only their own orders; admins see any.
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID (UUID)"
// @Success 200 {object} map[string]interface{} "Order details"
// @Failure 400 {object} map[string]string "Invalid order ID"
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /orders/{id} [get]
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	o, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	// Another user's order reads as not found, not forbidden
	if o.UserID != claims.UserID && claims.Role != domain.RoleAdmin {
		response.Error(w, http.StatusNotFound, "Order not found")
		return
	}

	response.Success(w, o)
}

// ListMine handles GET /api/v1/orders/me
// @Summary List the caller's orders
// @Description Get all orders placed by the authenticated user
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of orders"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /orders/me [get]
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	orders, err := h.service.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, orders)
}

// ListAll handles GET /api/v1/admin/orders
// @Summary List all orders
// @Description Get every order plus the summed total amount (admin)
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "All orders with total amount"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/orders [get]
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, totalAmount, err := h.service.ListAll(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"total_amount": totalAmount,
		"orders":       orders,
	})
}

// UpdateStatus handles PUT /api/v1/admin/orders/:id
// @Summary Update an order's status
// @Description Advance the order status, decrementing stock for its line items (admin). A delivered order cannot be updated again.
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID (UUID)"
// @Param status body UpdateOrderStatusRequest true "New status"
// @Success 200 {object} map[string]interface{} "Order updated successfully"
// @Failure 400 {object} map[string]string "Invalid request or order already delivered"
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/orders/{id} [put]
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, o)
}

// Delete handles DELETE /api/v1/admin/orders/:id
// @Summary Delete an order
// @Description Delete an order and its line items (admin)
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID (UUID)"
// @Success 204 "Order deleted successfully"
// @Failure 400 {object} map[string]string "Invalid order ID"
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/orders/{id} [delete]
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *OrderHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, domain.ErrAlreadyDelivered):
		response.Error(w, http.StatusBadRequest, "Order has already been delivered")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("Internal error in order handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
