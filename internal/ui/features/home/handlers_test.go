package home

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/contratos/internal/ui/features"
	"github.com/leapstack-labs/contratos/internal/ui/features/common"
	"github.com/leapstack-labs/contratos/internal/ui/workspace"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture, *workspace.Workspace) {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	fixture.SetContracts(map[string]any{"id": 1, "numero": "CT-1"}, map[string]any{"id": 2, "numero": "CT-2"})
	fixture.SetCompanies(map[string]any{"id": 1, "nome": "ACME"})
	ws := fixture.Workspace(t)

	handlers := NewHandlers(common.Deps{Logger: fixture.Logger, IsDev: true})
	return handlers, fixture, ws
}

func settle(t *testing.T, ws *workspace.Workspace) {
	t.Helper()
	require.Eventually(t, func() bool { return !loading(ws) }, time.Second, 5*time.Millisecond)
}

// =============================================================================
// HomePage Tests
// =============================================================================

func TestHomePage(t *testing.T) {
	h, fixture, ws := setupTestHandlers(t)
	before := fixture.Backend.Count(http.MethodGet, "/contracts")

	rec := httptest.NewRecorder()
	h.HomePage(rec, features.Request(ws, http.MethodGet, "/inicio", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"<!doctype html>",
		"<title>Início - Contratos</title>",
		"data-init",
		"/inicio/updates",
		"Olá, Ana",
		`id="dashboard"`,
	} {
		assert.Contains(t, body, want, "response should contain %q", want)
	}
	assert.Contains(t, body, `<span class="card-total">2</span>`)
	assert.Contains(t, body, `<span class="card-total">1</span>`)
	assert.Contains(t, body, `<span class="card-total">0</span>`)

	req, ok := fixture.Backend.Last(http.MethodGet, "/contracts")
	assert.True(t, ok)
	assert.Equal(t, "1", req.Query.Get("size"), "totals are read from one-row pages")
	assert.Equal(t, before+1, fixture.Backend.Count(http.MethodGet, "/contracts"))
}

func TestHomePage_FailedTotal(t *testing.T) {
	h, fixture, ws := setupTestHandlers(t)
	fixture.FailList("/persons", http.StatusInternalServerError)

	rec := httptest.NewRecorder()
	h.HomePage(rec, features.Request(ws, http.MethodGet, "/inicio", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Falha ao carregar usuários.")
	assert.Contains(t, body, `<span class="card-total">2</span>`, "other totals still load")
}

func TestHomePage_NoWorkspace(t *testing.T) {
	h, _, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.HomePage(rec, httptest.NewRequest(http.MethodGet, "/inicio", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, common.LoginPath, rec.Header().Get("Location"))
}

// =============================================================================
// HomePageUpdates Tests
// =============================================================================

func TestHomePageUpdates_SendsUpdateOnTableChange(t *testing.T) {
	h, fixture, ws := setupTestHandlers(t)

	body := features.ServeStream(t, h.HomePageUpdates, features.Request(ws, http.MethodGet, "/inicio/updates", ""),
		300*time.Millisecond, func() {
			fixture.SetContracts(map[string]any{"id": 1}, map[string]any{"id": 2}, map[string]any{"id": 3})
			ws.Contracts.Notifier.Broadcast()
		})

	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1)
	assert.Contains(t, body, "dashboard")
	assert.Contains(t, body, `<span class="card-total">3</span>`)
}

func TestHomePageUpdates_CoalescesBursts(t *testing.T) {
	h, fixture, ws := setupTestHandlers(t)
	settle(t, ws)
	before := fixture.Backend.Count(http.MethodGet, "/persons")

	body := features.ServeStream(t, h.HomePageUpdates, features.Request(ws, http.MethodGet, "/inicio/updates", ""),
		400*time.Millisecond, func() {
			for range 10 {
				ws.Contracts.Notifier.Broadcast()
				ws.Companies.Notifier.Broadcast()
			}
		})

	assert.Equal(t, 1, strings.Count(body, "event:"), "a burst of changes should reload once")
	assert.Equal(t, before+1, fixture.Backend.Count(http.MethodGet, "/persons"))
}

func TestHomePageUpdates_ReloadsOnceTableResolves(t *testing.T) {
	h, fixture, ws := setupTestHandlers(t)
	settle(t, ws)
	before := fixture.Backend.Count(http.MethodGet, "/persons")

	body := features.ServeStream(t, h.HomePageUpdates, features.Request(ws, http.MethodGet, "/inicio/updates", ""),
		400*time.Millisecond, func() {
			fixture.SetContracts(map[string]any{"id": 1}, map[string]any{"id": 2}, map[string]any{"id": 3})
			ws.Contracts.Table.Refresh()
		})

	assert.Equal(t, 1, strings.Count(body, "event:"))
	assert.Contains(t, body, `<span class="card-total">3</span>`)
	assert.Equal(t, before+1, fixture.Backend.Count(http.MethodGet, "/persons"), "loading and resolving should not reload twice")
}

func TestHomePageUpdates_NoInitialState(t *testing.T) {
	h, _, ws := setupTestHandlers(t)

	body := features.ServeStream(t, h.HomePageUpdates, features.Request(ws, http.MethodGet, "/inicio/updates", ""),
		80*time.Millisecond, nil)

	assert.Equal(t, 0, strings.Count(body, "event:"), "should have no SSE events without a change")
}

func TestHomePageUpdates_EndsOnLogout(t *testing.T) {
	h, fixture, ws := setupTestHandlers(t)

	body := features.ServeStream(t, h.HomePageUpdates, features.Request(ws, http.MethodGet, "/inicio/updates", ""),
		2*time.Second, func() {
			fixture.Registry.Close(ws.Session.ID)
		})

	assert.Contains(t, body, common.LoginPath)
}
