// Package common provides shared types and utilities for UI features.
package common

import (
	"log/slog"

	"github.com/leapstack-labs/contratos/internal/api"
	"github.com/leapstack-labs/contratos/internal/session"
	"github.com/leapstack-labs/contratos/internal/ui/views"
	"github.com/leapstack-labs/contratos/internal/ui/workspace"
)

// Shell builds the page shell for a logged-in workspace.
func Shell(ws *workspace.Workspace, title, currentPath string, isDev bool) views.Shell {
	return views.Shell{
		Title:       title,
		CurrentPath: currentPath,
		UserName:    ws.Session.DisplayName(),
		IsDev:       isDev,
	}
}

// Deps are the collaborators shared by every feature.
type Deps struct {
	Client       *api.Client
	Sessions     *session.Manager
	Registry     *workspace.Registry
	Logger       *slog.Logger
	RegisterPath string
	IsDev        bool
}
