package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/contratos/internal/cli/config"
	"github.com/leapstack-labs/contratos/internal/cli/output"
)

func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		cfg := config.Default()
		cfg.Log.Format = "json"
		buf := new(bytes.Buffer)

		NewLogger(buf, cfg).Info("hello", "n", 1)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "hello", line["msg"])
	})

	t.Run("text hides debug by default", func(t *testing.T) {
		buf := new(bytes.Buffer)
		logger := NewLogger(buf, config.Default())

		logger.Debug("quiet")
		logger.Info("loud")

		assert.NotContains(t, buf.String(), "quiet")
		assert.Contains(t, buf.String(), "msg=loud")
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		cfg := config.Default()
		cfg.Verbose = true
		buf := new(bytes.Buffer)

		NewLogger(buf, cfg).Debug("detail")
		assert.Contains(t, buf.String(), "detail")
	})
}

func TestRootPersistentFlags(t *testing.T) {
	cmd := NewRootCmd()
	for _, flag := range []string{"config", "api-url", "token", "log-level", "log-format", "verbose", "output"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}

	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"version", "serve", "list", "browse", "completion"})
}

func TestPersistentPreRunStoresContext(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONTRATOS_UI_PORT", "9000")

	root := NewRootCmd()
	var got *cobra.Command
	root.AddCommand(&cobra.Command{
		Use: "echo",
		RunE: func(cmd *cobra.Command, _ []string) error {
			got = cmd
			return nil
		},
	})
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"echo", "--api-url", "https://api.example.com", "-o", "markdown"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	require.NotNil(t, got)

	cfg := GetConfig(got.Context())
	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, 9000, cfg.UI.Port)
	assert.Equal(t, output.ModeMarkdown, GetRenderer(got.Context()).EffectiveMode())
	assert.IsType(t, &slog.Logger{}, config.GetLogger(got.Context()))
}

func TestGetConfigDefaults(t *testing.T) {
	cfg := GetConfig(context.Background())
	assert.Equal(t, config.DefaultBaseURL, cfg.API.BaseURL)
	assert.NotNil(t, GetRenderer(context.Background()))
}
