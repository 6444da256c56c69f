// Package home provides the dashboard shown after login.
package home

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/contratos/internal/ui/features/common"
)

// SetupRoutes configures routes for the home feature. The router must
// already require a session.
func SetupRoutes(router chi.Router, deps common.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/inicio", handlers.HomePage)
	router.Get("/inicio/updates", handlers.HomePageUpdates)

	return nil
}
