// Package routes wires the HTTP surface onto a chi router.
package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/SamuelNetzer/Netzer-SingleSign/app"
	"github.com/SamuelNetzer/Netzer-SingleSign/handlers"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	var healthDB handlers.HealthChecker
	if deps.DB != nil {
		healthDB = deps.DB
	}
	healthHandler := handlers.NewHealthHandler(healthDB, deps.Logger)
	protectedHandler := handlers.NewProtectedHandler(deps.Logger)
	adminHandler := handlers.NewAdminHandler(deps.Users, deps.Audit, deps.Logger)

	// Health check endpoints
	r.Get("/healthz", healthHandler.HandleHealth)
	r.Get("/readyz", healthHandler.HandleReadiness)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.With(deps.AuthMiddleware.RequireAuth).
			Handle("/protected-data", http.HandlerFunc(protectedHandler.HandleProtectedData))

		r.With(deps.AuthMiddleware.RequireAdmin).
			Handle("/admin/dashboard", http.HandlerFunc(adminHandler.HandleDashboard))
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
