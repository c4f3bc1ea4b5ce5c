package handler

import (
	"errors"
	"net/http"

	"github.com/sneakpeak/storefront/internal/delivery/http/middleware"
	"github.com/sneakpeak/storefront/internal/delivery/http/request"
	"github.com/sneakpeak/storefront/internal/delivery/http/response"
	"github.com/sneakpeak/storefront/internal/domain"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
	"github.com/sneakpeak/storefront/internal/usecase/user"
)

// UserHandler handles HTTP requests for accounts and authentication
type UserHandler struct {
	service *user.Service
	logger  *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(service *user.Service, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  log,
	}
}

// RegisterRequest represents the request body for account registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/v1/auth/register
// @Summary Register an account
// @Description Create an account and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param account body RegisterRequest true "Account details"
// @Success 201 {object} map[string]interface{} "Account created with token"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 409 {object} map[string]string "Email already in use"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u := &domain.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  domain.RoleUser,
	}

	token, err := h.service.Register(r.Context(), u, req.Password)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"user":  u,
		"token": token,
	})
}

// Login handles POST /api/v1/auth/login
// @Summary Log in
// @Description Verify credentials and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{} "User with token"
// @Failure 400 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"user":  u,
		"token": token,
	})
}

// Me handles GET /api/v1/users/me
// @Summary Get the caller's profile
// @Description Get the authenticated user's account
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "User profile"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	u, err := h.service.GetByID(r.Context(), claims.UserID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, u)
}

// List handles GET /api/v1/admin/users
// @Summary List all users
// @Description Get every account (admin)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "All users"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, users)
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *UserHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "User not found")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid email or password")
	case errors.Is(err, domain.ErrAlreadyExists):
		response.Error(w, http.StatusConflict, "Email already in use")
	default:
		h.logger.Error("Internal error in user handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
