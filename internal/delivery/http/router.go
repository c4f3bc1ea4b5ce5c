package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sneakpeak/storefront/internal/config"
	"github.com/sneakpeak/storefront/internal/delivery/http/handler"
	"github.com/sneakpeak/storefront/internal/delivery/http/middleware"
	"github.com/sneakpeak/storefront/internal/delivery/http/response"
	"github.com/sneakpeak/storefront/internal/pkg/auth"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
)

// Router holds HTTP handlers and router configuration
type Router struct {
	productHandler  *handler.ProductHandler
	reviewHandler   *handler.ReviewHandler
	orderHandler    *handler.OrderHandler
	salesHandler    *handler.SalesHandler
	categoryHandler *handler.CategoryHandler
	userHandler     *handler.UserHandler
	tokens          *auth.TokenManager
	logger          *logger.Logger
	cfg             *config.Config
}

// NewRouter creates a new HTTP router
func NewRouter(
	productHandler *handler.ProductHandler,
	reviewHandler *handler.ReviewHandler,
	orderHandler *handler.OrderHandler,
	salesHandler *handler.SalesHandler,
	categoryHandler *handler.CategoryHandler,
	userHandler *handler.UserHandler,
	tokens *auth.TokenManager,
	cfg *config.Config,
	log *logger.Logger,
) *Router {
	return &Router{
		productHandler:  productHandler,
		reviewHandler:   reviewHandler,
		orderHandler:    orderHandler,
		salesHandler:    salesHandler,
		categoryHandler: categoryHandler,
		userHandler:     userHandler,
		tokens:          tokens,
		logger:          log,
		cfg:             cfg,
	}
}

// Setup configures and returns the HTTP router
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.healthCheck)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	authenticate := middleware.Authenticate(rt.tokens)
	requireAdmin := middleware.RequireAdmin()

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.userHandler.Register)
			r.Post("/login", rt.userHandler.Login)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", rt.productHandler.List)
			r.Get("/{id}", rt.productHandler.GetByID)
			r.Get("/{id}/reviews", rt.reviewHandler.GetByProductID)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", rt.categoryHandler.List)
			r.Get("/{id}", rt.categoryHandler.GetByID)
		})

		// Authenticated customer routes
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Put("/reviews", rt.reviewHandler.Submit)
			r.Get("/users/me", rt.userHandler.Me)

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", rt.orderHandler.Create)
				r.Get("/me", rt.orderHandler.ListMine)
				r.Get("/{id}", rt.orderHandler.GetByID)
			})
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requireAdmin)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", rt.productHandler.ListAll)
				r.Post("/", rt.productHandler.Create)
				r.Put("/{id}", rt.productHandler.Update)
				r.Delete("/{id}", rt.productHandler.Delete)
				r.Delete("/{id}/reviews/{reviewId}", rt.reviewHandler.Delete)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", rt.orderHandler.ListAll)
				r.Put("/{id}", rt.orderHandler.UpdateStatus)
				r.Delete("/{id}", rt.orderHandler.Delete)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", rt.categoryHandler.AdminList)
				r.Post("/", rt.categoryHandler.Create)
				r.Put("/{id}", rt.categoryHandler.Update)
				r.Delete("/{id}", rt.categoryHandler.Delete)
				r.Post("/{id}/restore", rt.categoryHandler.Restore)
			})

			r.Route("/sales", func(r chi.Router) {
				r.Get("/products", rt.salesHandler.ProductSales)
				r.Get("/customers", rt.salesHandler.CustomerSales)
				r.Get("/monthly", rt.salesHandler.SalesPerMonth)
				r.Get("/totals", rt.salesHandler.Totals)
			})

			r.Get("/users", rt.userHandler.List)
		})
	})

	return r
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
