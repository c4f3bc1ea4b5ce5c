package handler

import (
	"net/http"

	"github.com/sneakpeak/storefront/internal/delivery/http/response"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
	"github.com/sneakpeak/storefront/internal/usecase/sales"
)

// SalesHandler handles HTTP requests for the admin sales reports
type SalesHandler struct {
	service *sales.Service
	logger  *logger.Logger
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(service *sales.Service, log *logger.Logger) *SalesHandler {
	return &SalesHandler{
		service: service,
		logger:  log,
	}
}

// ProductSales handles GET /api/v1/admin/sales/products
// @Summary Per-product revenue report
// @Description Get each product's revenue and percent share of the items grand total, highest revenue first (admin)
// @Tags Sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Product sales report"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/sales/products [get]
func (h *SalesHandler) ProductSales(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.ProductSales(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, report)
}

// CustomerSales handles GET /api/v1/admin/sales/customers
// @Summary Per-customer revenue report
// @Description Get each customer's summed order totals, biggest spender first (admin)
// @Tags Sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Customer sales report"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/sales/customers [get]
func (h *SalesHandler) CustomerSales(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.CustomerSales(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, rows)
}

// SalesPerMonth handles GET /api/v1/admin/sales/monthly
// @Summary Monthly revenue report
// @Description Get revenue bucketed by payment year and month (admin)
// @Tags Sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Monthly sales report"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/sales/monthly [get]
func (h *SalesHandler) SalesPerMonth(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.SalesPerMonth(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, rows)
}

// Totals handles GET /api/v1/admin/sales/totals
// @Summary Order count and summed sales
// @Description Get the total number of orders and the summed order totals (admin)
// @Tags Sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Sales totals"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/sales/totals [get]
func (h *SalesHandler) Totals(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.TotalOrders(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	total, err := h.service.TotalSales(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"total_orders": count,
		"total_sales":  total,
	})
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *SalesHandler) handleError(w http.ResponseWriter, err error) {
	h.logger.Error("Internal error in sales handler", err)
	response.Error(w, http.StatusInternalServerError, "Internal server error")
}
