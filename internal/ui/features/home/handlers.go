package home

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/starfederation/datastar-go/datastar"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/contratos/internal/api"
	"github.com/leapstack-labs/contratos/internal/ui/features/common"
	"github.com/leapstack-labs/contratos/internal/ui/views"
	"github.com/leapstack-labs/contratos/internal/ui/workspace"
)

// settleDelay is how long the dashboard waits for table changes to stop
// before reloading its totals.
const settleDelay = 100 * time.Millisecond

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	logger *slog.Logger
	isDev  bool
	settle time.Duration
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps common.Deps) *Handlers {
	return &Handlers{
		logger: deps.Logger,
		isDev:  deps.IsDev,
		settle: settleDelay,
	}
}

// HomePage renders the dashboard with the current totals.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	ws, ok := common.WorkspaceFrom(r.Context())
	if !ok {
		common.Redirect(w, r, common.LoginPath)
		return
	}

	data := views.HomeData{
		Shell:     common.Shell(ws, "Início", "/inicio", h.isDev),
		Dashboard: h.buildDashboard(r.Context(), ws.Client),
	}
	if err := views.HomePage(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HomePageUpdates is the long-lived SSE endpoint for the dashboard. Totals
// are reloaded once the session's tables have settled: a burst of changes
// yields one reload, and nothing is fetched while a table is still loading.
// Nothing is sent up front: HomePage already rendered the totals.
func (h *Handlers) HomePageUpdates(w http.ResponseWriter, r *http.Request) {
	ws, ok := common.WorkspaceFrom(r.Context())
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	sse := datastar.NewSSE(w, r)

	contracts := ws.Contracts.Notifier.Subscribe()
	defer ws.Contracts.Notifier.Unsubscribe(contracts)
	companies := ws.Companies.Notifier.Subscribe()
	defer ws.Companies.Notifier.Unsubscribe(companies)
	users := ws.Users.Notifier.Subscribe()
	defer ws.Users.Notifier.Unsubscribe(users)

	settled := time.NewTimer(h.settle)
	settled.Stop()
	defer settled.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ws.Contracts.Notifier.Done():
			_ = sse.Redirect(common.LoginPath)
			return
		case <-contracts:
			settled.Reset(h.settle)
			continue
		case <-companies:
			settled.Reset(h.settle)
			continue
		case <-users:
			settled.Reset(h.settle)
			continue
		case <-settled.C:
		}
		// the table pings again when its fetch resolves
		if loading(ws) {
			continue
		}
		if err := sse.PatchElementTempl(views.Dashboard(h.buildDashboard(ctx, ws.Client))); err != nil {
			_ = sse.ConsoleError(err)
		}
	}
}

func loading(ws *workspace.Workspace) bool {
	return ws.Contracts.Table.View().Loading ||
		ws.Companies.Table.View().Loading ||
		ws.Users.Table.View().Loading
}

// buildDashboard loads every total in parallel. A failed total is shown
// on its own card.
func (h *Handlers) buildDashboard(ctx context.Context, client *api.Client) views.DashboardData {
	cards := make([]views.Card, len(counters))
	var eg errgroup.Group
	for i, c := range counters {
		cards[i] = views.Card{Label: c.label, Href: c.href}
		eg.Go(func() error {
			total, err := c.total(ctx, client)
			if err != nil {
				h.logger.Error("failed to load total", "collection", c.label, "error", err)
				cards[i].Err = api.UserMessage(err, c.fetchErr)
				return nil
			}
			cards[i].Total = total
			return nil
		})
	}
	_ = eg.Wait()
	return views.DashboardData{Cards: cards}
}
