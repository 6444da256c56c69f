package common

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/contratos/internal/session"
	"github.com/leapstack-labs/contratos/internal/ui/workspace"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

type workspaceKey struct{}

// WithWorkspace returns a context carrying ws.
func WithWorkspace(ctx context.Context, ws *workspace.Workspace) context.Context {
	return context.WithValue(ctx, workspaceKey{}, ws)
}

// WorkspaceFrom returns the workspace stored by RequireSession.
func WorkspaceFrom(ctx context.Context) (*workspace.Workspace, bool) {
	ws, ok := ctx.Value(workspaceKey{}).(*workspace.Workspace)
	return ws, ok
}

// IsDatastar reports whether r was issued by the datastar client.
func IsDatastar(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true"
}

// Redirect sends the browser to url, over SSE for datastar requests.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsDatastar(r) {
		sse := datastar.NewSSE(w, r)
		_ = sse.Redirect(url)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// Patch answers r with a single element patch.
func Patch(w http.ResponseWriter, r *http.Request, c templ.Component) {
	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(c); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// RequireSession only lets requests with a live session through. The
// session's workspace is opened when needed and stored in the context.
func RequireSession(sessions *session.Manager, registry *workspace.Registry, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Current(r)
			switch {
			case errors.Is(err, session.ErrExpired), errors.Is(err, session.ErrNoSession):
				// the cookie may outlive its record; drop both and the workspace
				if id, endErr := sessions.End(w, r); endErr == nil && id != "" {
					registry.Close(id)
				}
				Redirect(w, r, LoginPath)
				return
			case err != nil:
				logger.Error("failed to load session", "error", err)
				Redirect(w, r, LoginPath)
				return
			}
			ws := registry.Open(sess)
			next.ServeHTTP(w, r.WithContext(WithWorkspace(r.Context(), ws)))
		})
	}
}
