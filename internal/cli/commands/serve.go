package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/contratos/internal/session"
	"github.com/leapstack-labs/contratos/internal/ui"
	"github.com/leapstack-labs/contratos/internal/ui/workspace"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Dev       bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the web console",
		Long: `Start a local web server with the administration console.

The console provides:
- Login and registration
- Dashboard with contract, company and user totals
- Searchable, sortable, paginated tables
- Create and edit forms for contracts and companies`,
		Example: `  # Start on the default port
  contratos serve

  # Start on a custom port
  contratos serve --port 3000

  # Start without auto-opening browser
  contratos serve --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: ui.port)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Serve the live-reload endpoint")
	_ = cmd.Flags().MarkHidden("dev")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContext(cmd)

	server, cleanup, err := newServer(cmdCtx, opts)
	if err != nil {
		return err
	}
	defer cleanup()

	autoOpen := cmdCtx.Cfg.UI.AutoOpen && !opts.NoBrowser
	if autoOpen {
		go openBrowser(server.URL())
	}

	cmdCtx.Renderer.Printf("Starting UI server on %s\n", server.URL())
	cmdCtx.Renderer.Println("Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}

// newServer wires the session store, the workspace registry and the UI
// server from the configuration. cleanup closes the store.
func newServer(cmdCtx *CommandContext, opts *ServeOptions) (*ui.Server, func(), error) {
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger

	// CLI flags override config file
	port := cfg.UI.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	secret := cfg.UI.SessionSecret
	if secret == "" {
		var err error
		if secret, err = generateSessionSecret(); err != nil {
			return nil, nil, err
		}
		logger.Warn("ui.session_secret not set; sessions will not survive a restart")
	}

	if dir := filepath.Dir(cfg.UI.SessionDB); cfg.UI.SessionDB != ":memory:" && dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create session directory: %w", err)
		}
	}
	store, err := session.Open(cfg.UI.SessionDB)
	if err != nil {
		return nil, nil, err
	}

	client := cmdCtx.NewClient()
	sessions := session.NewManager(store, secret, cfg.UI.SessionTTL, logger)
	registry := workspace.NewRegistry(client, logger, cfg.TableOptions(logger)...)

	server := ui.NewServer(ui.Config{
		Client:       client,
		Sessions:     sessions,
		Workspaces:   registry,
		Port:         port,
		RegisterPath: cfg.API.RegisterPath,
		Dev:          opts.Dev,
		Logger:       logger,
	})

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close session store", "error", err)
		}
	}
	return server, cleanup, nil
}

// generateSessionSecret returns a random secret for this process.
func generateSessionSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
