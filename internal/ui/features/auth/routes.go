// Package auth provides login, registration and logout.
package auth

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/contratos/internal/ui/features/common"
)

// SetupRoutes configures routes for the auth feature.
func SetupRoutes(router chi.Router, deps common.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/", handlers.Root)
	router.Get("/login", handlers.LoginPage)
	router.Post("/login", handlers.Login)
	router.Get("/cadastrar", handlers.RegisterPage)
	router.Post("/cadastrar", handlers.Register)
	router.Post("/logout", handlers.Logout)

	return nil
}
