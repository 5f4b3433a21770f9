package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/milletcart/api/internal/catalog"
	"github.com/milletcart/api/internal/config"
	"github.com/milletcart/api/internal/handler"
	mw "github.com/milletcart/api/internal/middleware"
	"github.com/milletcart/api/internal/storage"
	"github.com/milletcart/api/internal/ws"
)

// New creates a Chi router with all storefront routes wired up. Cart and
// checkout endpoints sit behind authentication; catalog and auth are public.
func New(cfg *config.Config, store storage.Store, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(store, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// Catalog routes (public; browsing needs no account)
	catalogHandler := handler.NewCatalogHandler(catalog.NewProvider())
	r.Route("/catalog", catalogHandler.RegisterRoutes)

	// WebSocket order feed (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	sessions := handler.NewCartSessions(store)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		userHandler := handler.NewUserHandler(store)
		userHandler.RegisterRoutes(r)

		cartHandler := handler.NewCartHandler(sessions)
		r.Route("/cart", cartHandler.RegisterRoutes)

		checkoutHandler := handler.NewCheckoutHandler(sessions, hub)
		r.Route("/checkout", checkoutHandler.RegisterRoutes)
	})

	return r
}
