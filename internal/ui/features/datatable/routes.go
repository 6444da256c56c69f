// Package datatable serves the remote data table pages: one page per
// resource, an SSE stream re-rendering it and the actions that drive its
// controller and editor.
package datatable

import (
	"fmt"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/contratos/internal/table"
	"github.com/leapstack-labs/contratos/internal/ui/features/common"
)

// SetupRoutes configures the routes of one table below cfg.Path. The
// router must already require a session.
func SetupRoutes[T any, F table.Form](router chi.Router, cfg Config[T, F], deps common.Deps) error {
	if cfg.Path == "" || cfg.Binding == nil {
		return fmt.Errorf("datatable %q: path and binding are required", cfg.Title)
	}
	handlers := NewHandlers(cfg, deps)

	router.Route(cfg.Path, func(r chi.Router) {
		r.Get("/", handlers.TablePage)
		r.Get("/updates", handlers.TablePageUpdates)
		r.Post("/search", handlers.Search)
		r.Post("/sort/{field}", handlers.Sort)
		r.Post("/page", handlers.Navigate)
		r.Post("/editor/new", handlers.OpenCreate)
		r.Post("/editor/save", handlers.Save)
		r.Post("/editor/cancel", handlers.Cancel)
		r.Post("/editor/input", handlers.Input)
		r.Post("/editor/{id}", handlers.OpenEdit)
	})

	return nil
}
