// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/contratos/internal/api"
	"github.com/leapstack-labs/contratos/internal/session"
	"github.com/leapstack-labs/contratos/internal/table"
	"github.com/leapstack-labs/contratos/internal/testutil"
	"github.com/leapstack-labs/contratos/internal/ui/features/common"
	"github.com/leapstack-labs/contratos/internal/ui/workspace"
)

// TestSecret signs session cookies in tests.
const TestSecret = "test-secret-key-32-bytes-long!!!"

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Backend  *testutil.Backend
	Client   *api.Client
	Store    *session.Store
	Sessions *session.Manager
	Registry *workspace.Registry
	Logger   *slog.Logger

	mu        sync.Mutex
	contracts []map[string]any
	companies []map[string]any
	users     []map[string]any
	failures  map[string]int
}

// SetupTestFixture starts a fake backend serving the three collections,
// an in-memory session store and a workspace registry.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	f := &TestFixture{
		Backend:  testutil.NewBackend(t),
		Logger:   logger,
		failures: make(map[string]int),
	}
	f.Backend.Handle("GET /contracts", f.serveList("/contracts", &f.contracts))
	f.Backend.Handle("GET /suppliers", f.serveList("/suppliers", &f.companies))
	f.Backend.Handle("GET /persons", f.serveList("/persons", &f.users))

	f.Client = api.NewClient(f.Backend.URL, api.WithLogger(logger))

	store, err := session.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f.Store = store
	f.Sessions = session.NewManager(store, TestSecret, time.Hour, logger)
	f.Registry = workspace.NewRegistry(f.Client, logger, table.WithDebounce(10*time.Millisecond))
	t.Cleanup(f.Registry.CloseAll)

	return f
}

// SetContracts replaces the contracts served by the backend.
func (f *TestFixture) SetContracts(rows ...map[string]any) { f.set(&f.contracts, rows) }

// SetCompanies replaces the suppliers served by the backend.
func (f *TestFixture) SetCompanies(rows ...map[string]any) { f.set(&f.companies, rows) }

// SetUsers replaces the users served by the backend.
func (f *TestFixture) SetUsers(rows ...map[string]any) { f.set(&f.users, rows) }

func (f *TestFixture) set(dst *[]map[string]any, rows []map[string]any) {
	f.mu.Lock()
	*dst = rows
	f.mu.Unlock()
}

// FailList makes the list at path answer with status until called again
// with status 0.
func (f *TestFixture) FailList(path string, status int) {
	f.mu.Lock()
	f.failures[path] = status
	f.mu.Unlock()
}

func (f *TestFixture) serveList(path string, src *[]map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		status := f.failures[path]
		rows := append([]map[string]any{}, *src...)
		f.mu.Unlock()
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		writeJSON(w, map[string]any{"items": rows, "total": len(rows)})
	}
}

// Login starts a session for Ana and returns its cookies.
func (f *TestFixture) Login(t *testing.T) (*session.Session, []*http.Cookie) {
	t.Helper()
	rec := httptest.NewRecorder()
	sess, err := f.Sessions.Begin(rec, httptest.NewRequest(http.MethodPost, "/login", nil),
		api.Auth{AccessToken: "test-token", Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	return sess, rec.Result().Cookies()
}

// Workspace logs in and opens the session's workspace, waiting for its
// first pages to load.
func (f *TestFixture) Workspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	sess, _ := f.Login(t)
	ws := f.Registry.Open(sess)
	ws.Contracts.Table.Wait()
	ws.Companies.Table.Wait()
	ws.Users.Table.Wait()
	return ws
}

// Request builds a request carrying ws the way RequireSession does. A
// non-empty body is sent as datastar signals.
func Request(ws *workspace.Workspace, method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Datastar-Request", "true")
	return req.WithContext(common.WithWorkspace(req.Context(), ws))
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context timeout that is
// released when the test ends.
func RequestWithTimeout(t *testing.T, r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	t.Cleanup(cancel)
	return r.WithContext(ctx)
}

// ServeStream runs an SSE handler until the request times out, calling
// during once the stream is subscribed. It returns the response body.
func ServeStream(t *testing.T, h http.HandlerFunc, r *http.Request, timeout time.Duration, during func()) string {
	t.Helper()
	r = RequestWithTimeout(t, r, timeout)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h(rec, r)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if during != nil {
		during()
	}
	<-done
	return rec.Body.String()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
