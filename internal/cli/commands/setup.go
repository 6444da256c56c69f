package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leapstack-labs/contratos/internal/api"
	"github.com/leapstack-labs/contratos/internal/cli/config"
	"github.com/leapstack-labs/contratos/internal/cli/output"
	"github.com/leapstack-labs/contratos/internal/session"
)

// PasswordEnv supplies the password for --email logins.
const PasswordEnv = "CONTRATOS_PASSWORD"

// LoginError is a rejected --email login. Its message is the one the
// backend gave the user; the request error stays reachable with errors.As.
type LoginError struct {
	Err error
}

func (e *LoginError) Error() string {
	return "login failed: " + api.UserMessage(e.Err, "Operação não pode ser realizada")
}

func (e *LoginError) Unwrap() error { return e.Err }

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// NewClient creates an unauthenticated backend client.
func (c *CommandContext) NewClient() *api.Client {
	return api.NewClient(c.Cfg.API.BaseURL,
		api.WithTimeout(c.Cfg.API.Timeout),
		api.WithLogger(c.Logger),
	)
}

// getConfig returns the current configuration, or the defaults when no
// configuration was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// CredentialOptions are the login flags of commands that read the backend.
type CredentialOptions struct {
	Email    string
	Password string
}

// AddFlags registers the credential flags on cmd.
func (o *CredentialOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Email, "email", "", "Log in with this e-mail instead of api.token")
	cmd.Flags().StringVar(&o.Password, "password", "", "Password for --email (default: $"+PasswordEnv+" or prompt)")
}

// Authenticate returns a client carrying credentials: the configured token,
// or a fresh login when --email is set. Without either the client sends no
// Authorization header. The password comes from --password,
// then CONTRATOS_PASSWORD, then a terminal prompt on stdin.
func (c *CommandContext) Authenticate(ctx context.Context, opts CredentialOptions, stdin io.Reader, prompt io.Writer) (*api.Client, error) {
	client := c.NewClient()

	if opts.Email == "" {
		if c.Cfg.API.Token == "" {
			// the backend decides what an anonymous caller may read
			c.Logger.Warn("no credentials; sending requests without a token",
				"hint", "set api.token (CONTRATOS_API_TOKEN) or pass --email")
			return client, nil
		}
		return client.As(&session.Session{Token: c.Cfg.API.Token}), nil
	}

	password := opts.Password
	if password == "" {
		password = os.Getenv(PasswordEnv)
	}
	if password == "" {
		var err error
		password, err = readPassword(stdin, prompt)
		if err != nil {
			return nil, err
		}
	}

	auth, err := client.Login(ctx, opts.Email, password)
	if err != nil {
		return nil, &LoginError{Err: err}
	}
	c.Logger.Debug("logged in", "email", auth.Email, "name", auth.Name)

	return client.As(session.New(*auth, time.Now(), c.Cfg.UI.SessionTTL)), nil
}

func readPassword(stdin io.Reader, prompt io.Writer) (string, error) {
	f, ok := stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", fmt.Errorf("password required: use --password or %s", PasswordEnv)
	}
	_, _ = fmt.Fprint(prompt, "Senha: ")
	b, err := term.ReadPassword(int(f.Fd()))
	_, _ = fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
