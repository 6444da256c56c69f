// Package router sets up HTTP routes for the UI server.
package router

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	authFeature "github.com/leapstack-labs/contratos/internal/ui/features/auth"
	"github.com/leapstack-labs/contratos/internal/ui/features/common"
	datatableFeature "github.com/leapstack-labs/contratos/internal/ui/features/datatable"
	homeFeature "github.com/leapstack-labs/contratos/internal/ui/features/home"
	"github.com/leapstack-labs/contratos/internal/ui/resources"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps common.Deps) error {
	// Hot reload endpoint for dev mode
	if deps.IsDev {
		setupReload(router)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Public routes
	if err := authFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	// Everything else needs a session
	private := router.With(common.RequireSession(deps.Sessions, deps.Registry, deps.Logger))

	if err := homeFeature.SetupRoutes(private, deps); err != nil {
		return err
	}

	if err := datatableFeature.SetupRoutes(private, datatableFeature.Contracts, deps); err != nil {
		return err
	}

	if err := datatableFeature.SetupRoutes(private, datatableFeature.Companies, deps); err != nil {
		return err
	}

	if err := datatableFeature.SetupRoutes(private, datatableFeature.Users, deps); err != nil {
		return err
	}

	return nil
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
