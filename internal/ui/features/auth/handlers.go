package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/contratos/internal/api"
	"github.com/leapstack-labs/contratos/internal/session"
	"github.com/leapstack-labs/contratos/internal/ui/features/common"
	"github.com/leapstack-labs/contratos/internal/ui/views"
	"github.com/leapstack-labs/contratos/internal/ui/workspace"
)

// Handlers provides HTTP handlers for the auth feature.
type Handlers struct {
	client       *api.Client
	sessions     *session.Manager
	registry     *workspace.Registry
	registerPath string
	logger       *slog.Logger
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps common.Deps) *Handlers {
	return &Handlers{
		client:       deps.Client,
		sessions:     deps.Sessions,
		registry:     deps.Registry,
		registerPath: deps.RegisterPath,
		logger:       deps.Logger,
		isDev:        deps.IsDev,
	}
}

func (h *Handlers) loggedIn(r *http.Request) bool {
	_, err := h.sessions.Current(r)
	return err == nil
}

// Root sends the browser to the dashboard or to the login page.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	if h.loggedIn(r) {
		http.Redirect(w, r, HomePath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, common.LoginPath, http.StatusSeeOther)
}

// LoginPage renders the login page.
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.loggedIn(r) {
		http.Redirect(w, r, HomePath, http.StatusSeeOther)
		return
	}
	data := views.LoginData{Shell: views.Shell{Title: "Entrar", IsDev: h.isDev}}
	if err := views.LoginPage(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Login checks the form, authenticates against the backend and starts a
// session whose workspace is opened right away.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var signals LoginSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data := views.LoginData{Email: strings.TrimSpace(signals.Email)}
	if errs := signals.validate(); len(errs) > 0 {
		data.Errors = errs
		common.Patch(w, r, views.LoginForm(data))
		return
	}

	auth, err := h.client.Login(r.Context(), signals.Email, signals.Password)
	if err != nil {
		h.logger.Warn("login failed", "email", data.Email, "error", err)
		data.Alert = loginMessage(err)
		common.Patch(w, r, views.LoginForm(data))
		return
	}

	sess, err := h.sessions.Begin(w, r, *auth)
	if err != nil {
		h.logger.Error("failed to start session", "email", data.Email, "error", err)
		data.Alert = msgOperationFailed
		common.Patch(w, r, views.LoginForm(data))
		return
	}
	h.registry.Open(sess)

	sse := datastar.NewSSE(w, r)
	_ = sse.Redirect(HomePath)
}

// RegisterPage renders the registration page.
func (h *Handlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	data := views.RegisterData{Shell: views.Shell{Title: "Cadastrar", IsDev: h.isDev}}
	if err := views.RegisterPage(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Register creates an account. On success the form is cleared and the
// server's message shown.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var signals RegisterSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data := views.RegisterData{
		Nome:  strings.TrimSpace(signals.Nome),
		Email: strings.TrimSpace(signals.Email),
	}
	if errs := signals.validate(); len(errs) > 0 {
		data.Errors = errs
		common.Patch(w, r, views.RegisterForm(data))
		return
	}

	msg, err := h.client.Register(r.Context(), h.registerPath, api.Registration{
		Name:     data.Nome,
		Email:    data.Email,
		Password: signals.Senha,
	})
	if err != nil {
		h.logger.Warn("registration failed", "email", data.Email, "error", err)
		data.Alert = registerMessage(err)
		common.Patch(w, r, views.RegisterForm(data))
		return
	}

	h.logger.Info("account created", "email", data.Email)
	if msg == "" {
		msg = msgRegistered
	}
	common.Patch(w, r, views.RegisterForm(views.RegisterData{Notice: msg}))
}

// Logout ends the session and closes its workspace.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	id, err := h.sessions.End(w, r)
	if err != nil {
		h.logger.Error("failed to end session", "error", err)
	}
	if id != "" {
		h.registry.Close(id)
	}
	common.Redirect(w, r, common.LoginPath)
}
