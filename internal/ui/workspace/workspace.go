// Package workspace keeps the live tables of each logged-in session. A
// workspace is opened on login, closed on logout, and owns one controller,
// editor and notifier per resource.
package workspace

import (
	"log/slog"
	"sync"

	"github.com/leapstack-labs/contratos/internal/api"
	"github.com/leapstack-labs/contratos/internal/resource"
	"github.com/leapstack-labs/contratos/internal/session"
	"github.com/leapstack-labs/contratos/internal/table"
	"github.com/leapstack-labs/contratos/internal/ui/notifier"
)

// Binding is one resource's table, its editor (nil when read-only) and the
// notifier that wakes the streams rendering them.
type Binding[T any, F table.Form] struct {
	Table    *table.Controller[T]
	Editor   *table.Editor[T, F]
	Notifier *notifier.Notifier
}

func bind[T any, F table.Form](t *table.Controller[T], e *table.Editor[T, F]) Binding[T, F] {
	n := notifier.New()
	t.OnChange(n.Broadcast)
	if e != nil {
		e.OnChange(n.Broadcast)
	}
	return Binding[T, F]{Table: t, Editor: e, Notifier: n}
}

func (b Binding[T, F]) close() {
	b.Table.Close()
	b.Notifier.Close()
	b.Table.Wait()
}

// Workspace is the state of one session.
type Workspace struct {
	Session   *session.Session
	Client    *api.Client
	Contracts Binding[resource.Contract, *resource.ContractForm]
	Companies Binding[resource.Company, *resource.CompanyForm]
	Users     Binding[resource.User, table.Form]
}

func (w *Workspace) close() {
	w.Contracts.close()
	w.Companies.close()
	w.Users.close()
}

// Registry maps session ids to workspaces.
type Registry struct {
	client *api.Client
	opts   []table.Option
	logger *slog.Logger

	mu     sync.Mutex
	spaces map[string]*Workspace
}

// NewRegistry creates a registry whose workspaces talk to the backend
// through client and build tables with opts.
func NewRegistry(client *api.Client, logger *slog.Logger, opts ...table.Option) *Registry {
	return &Registry{
		client: client,
		opts:   opts,
		logger: logger,
		spaces: make(map[string]*Workspace),
	}
}

// Open returns the workspace of sess, creating it and loading its first
// pages when it does not exist yet.
func (r *Registry) Open(sess *session.Session) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ws, ok := r.spaces[sess.ID]; ok {
		return ws
	}

	client := r.client.As(sess)
	opts := append([]table.Option{table.WithLogger(r.logger.With("session", sess.ID))}, r.opts...)

	contracts := resource.NewContractTable(client, opts...)
	companies := resource.NewCompanyTable(client, opts...)
	users := resource.NewUserTable(client, opts...)

	ws := &Workspace{
		Session:   sess,
		Client:    client,
		Contracts: bind(contracts, resource.NewContractEditor(contracts, client)),
		Companies: bind(companies, resource.NewCompanyEditor(companies, client)),
		Users:     bind[resource.User, table.Form](users, nil),
	}
	r.spaces[sess.ID] = ws

	contracts.Refresh()
	companies.Refresh()
	users.Refresh()

	r.logger.Debug("workspace opened", "session", sess.ID)
	return ws
}

// Get returns the workspace of a session id, if open.
func (r *Registry) Get(id string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.spaces[id]
	return ws, ok
}

// Close tears down the workspace of a session id. Its tables stop
// fetching and its streams end.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	ws, ok := r.spaces[id]
	delete(r.spaces, id)
	r.mu.Unlock()

	if ok {
		ws.close()
		r.logger.Debug("workspace closed", "session", id)
	}
}

// CloseAll tears down every workspace.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	spaces := r.spaces
	r.spaces = make(map[string]*Workspace)
	r.mu.Unlock()

	for _, ws := range spaces {
		ws.close()
	}
}

// Len returns the number of open workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spaces)
}
