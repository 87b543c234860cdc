package server

import (
	"net/http"
	"time"

	"cotizadorapp/internal/domain"

	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all application routes
func (s *Server) setupRoutes() {
	r := s.router

	// Health check endpoint
	r.Get("/health", s.handleHealth)

	// Public quoting API
	r.Route("/api", func(r chi.Router) {
		r.Get("/vehicles", s.handleSearchVehicles)
		r.Get("/vehicles/{id}", s.handleGetVehicle)

		r.Post("/tier", s.handleUnlockTier)
		r.Post("/refresh", s.handleRefresh)

		// Quote computation honors the unlocked tier when present
		r.Group(func(r chi.Router) {
			r.Use(s.tierMiddleware)
			r.Post("/vehicles/{id}/quote", s.handleQuote)
			r.Post("/vehicles/{id}/quote/share", s.handleQuoteShare)
			r.Post("/vehicles/{id}/quote/share.png", s.handleQuoteSharePNG)
		})

		// Admin API
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", s.handleAdminLogin)

			// Vehicle and catalog management
			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware)
				r.Use(s.roleMiddleware(domain.RoleEditor))

				r.Get("/vehicles", s.handleAdminListVehicles)
				r.Post("/vehicles", s.handleAdminCreateVehicle)
				r.Get("/vehicles/{id}", s.handleAdminGetVehicle)
				r.Put("/vehicles/{id}", s.handleAdminUpdateVehicle)
				r.Delete("/vehicles/{id}", s.handleAdminDeleteVehicle)

				r.Get("/products", s.handleAdminSearchProducts)
				r.Post("/products/import", s.handleAdminImportProducts)

				r.Get("/combos", s.handleAdminListCombos)
				r.Post("/vehicles/{id}/combos/{code}", s.handleAdminAssignCombo)
				r.Delete("/vehicles/{id}/combos/{code}", s.handleAdminUnassignCombo)
			})

			// Admin-only management
			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware)
				r.Use(s.roleMiddleware(domain.RoleAdmin))

				r.Get("/audit", s.handleAdminListAudit)

				r.Get("/users", s.handleAdminListUsers)
				r.Post("/users", s.handleAdminCreateUser)
				r.Delete("/users/{id}", s.handleAdminDeleteUser)

				r.Put("/settings/{key}", s.handleAdminUpdateSetting)
			})
		})
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}
