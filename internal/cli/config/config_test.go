package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contratos.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.API.Timeout)
	assert.Equal(t, "/auth/register", cfg.API.RegisterPath)
	assert.Equal(t, DefaultPort, cfg.UI.Port)
	assert.True(t, cfg.UI.AutoOpen)
	assert.Equal(t, DefaultSessionTTL, cfg.UI.SessionTTL)
	assert.Equal(t, 400*time.Millisecond, cfg.Table.Debounce)
	assert.Equal(t, 10, cfg.Table.PageSize)
	assert.Equal(t, []int{10, 20, 50}, cfg.Table.PageSizes)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, `api:
  base_url: https://api.example.com
  timeout: 5s
  register_path: /persons
ui:
  port: 9000
  auto_open: false
  session_ttl: 2h
table:
  debounce: 250ms
  page_size: 25
  page_sizes: [25, 50]
log:
  level: debug
  format: json
output: json
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "/persons", cfg.API.RegisterPath)
	assert.Equal(t, 9000, cfg.UI.Port)
	assert.False(t, cfg.UI.AutoOpen)
	assert.Equal(t, 2*time.Hour, cfg.UI.SessionTTL)
	assert.Equal(t, 250*time.Millisecond, cfg.Table.Debounce)
	assert.Equal(t, 25, cfg.Table.PageSize)
	assert.Equal(t, []int{25, 50}, cfg.Table.PageSizes)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoadConfig_FindsFileUpward(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "contratos.yml"), []byte("ui:\n  port: 7000\n"), 0600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.UI.Port)
	assert.Equal(t, "contratos.yml", filepath.Base(GetConfigFileUsed()))
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Env(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("CONTRATOS_API_BASE_URL", "http://backend:3000")
	t.Setenv("CONTRATOS_API_TIMEOUT", "10s")
	t.Setenv("CONTRATOS_TABLE_PAGE_SIZES", "5,10")
	t.Setenv("CONTRATOS_TABLE_PAGE_SIZE", "5")
	t.Setenv("CONTRATOS_UI_PORT", "8123")
	t.Setenv("CONTRATOS_OUTPUT", "markdown")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "http://backend:3000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, []int{5, 10}, cfg.Table.PageSizes)
	assert.Equal(t, 5, cfg.Table.PageSize)
	assert.Equal(t, 8123, cfg.UI.Port)
	assert.Equal(t, "markdown", cfg.OutputFormat)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeConfig(t, "api:\n  base_url: http://from-file\n")

	t.Run("env overrides file", func(t *testing.T) {
		ResetConfig()
		t.Setenv("CONTRATOS_API_BASE_URL", "http://from-env")

		cfg, err := LoadConfig(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "http://from-env", cfg.API.BaseURL)
	})

	t.Run("flag overrides env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("CONTRATOS_API_BASE_URL", "http://from-env")
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("api-url", "", "backend URL")
		require.NoError(t, flags.Set("api-url", "http://from-flag"))

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "http://from-flag", cfg.API.BaseURL)
	})

	t.Run("unset flag keeps env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("CONTRATOS_API_BASE_URL", "http://from-env")
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("api-url", "", "backend URL")

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "http://from-env", cfg.API.BaseURL)
	})
}

func TestLoadConfig_FlagKeys(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "", "")
	flags.String("token", "", "")
	flags.BoolP("verbose", "v", false, "")
	require.NoError(t, flags.Set("log-level", "warn"))
	require.NoError(t, flags.Set("token", "abc"))
	require.NoError(t, flags.Set("verbose", "true"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "abc", cfg.API.Token)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel(), "verbose forces debug")
}

func TestLoadConfig_ExpandsSecrets(t *testing.T) {
	ResetConfig()
	t.Setenv("BACKEND_TOKEN", "tok-123")
	path := writeConfig(t, "api:\n  token: ${BACKEND_TOKEN}\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", cfg.API.Token)
}

func TestLoadConfig_Invalid(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "table:\n  page_size: 15\n")

	_, err := LoadConfig(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table.page_size 15 is not one of")
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"CONTRATOS_API_BASE_URL":      "api.base_url",
		"CONTRATOS_UI_SESSION_SECRET": "ui.session_secret",
		"CONTRATOS_TABLE_PAGE_SIZE":   "table.page_size",
		"CONTRATOS_LOG_LEVEL":         "log.level",
		"CONTRATOS_OUTPUT":            "output",
		"CONTRATOS_VERBOSE":           "verbose",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "missing base url", mutate: func(c *Config) { c.API.BaseURL = "" }, errSubstr: "api.base_url is required"},
		{name: "bad scheme", mutate: func(c *Config) { c.API.BaseURL = "ftp://x" }, errSubstr: "http or https"},
		{name: "no host", mutate: func(c *Config) { c.API.BaseURL = "http://" }, errSubstr: "has no host"},
		{name: "negative timeout", mutate: func(c *Config) { c.API.Timeout = -time.Second }, errSubstr: "api.timeout"},
		{name: "relative register path", mutate: func(c *Config) { c.API.RegisterPath = "persons" }, errSubstr: "register_path"},
		{name: "port out of range", mutate: func(c *Config) { c.UI.Port = 70000 }, errSubstr: "ui.port"},
		{name: "short secret", mutate: func(c *Config) { c.UI.SessionSecret = "short" }, errSubstr: "session_secret"},
		{name: "zero ttl", mutate: func(c *Config) { c.UI.SessionTTL = 0 }, errSubstr: "session_ttl"},
		{name: "empty page sizes", mutate: func(c *Config) { c.Table.PageSizes = nil }, errSubstr: "page_sizes must not be empty"},
		{name: "non-positive page size", mutate: func(c *Config) { c.Table.PageSizes = []int{0, 10} }, errSubstr: "must be positive"},
		{name: "unknown level", mutate: func(c *Config) { c.Log.Level = "trace" }, errSubstr: "log.level"},
		{name: "unknown format", mutate: func(c *Config) { c.Log.Format = "xml" }, errSubstr: "log.format"},
		{name: "unknown output", mutate: func(c *Config) { c.OutputFormat = "csv" }, errSubstr: "output must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")

	assert.Equal(t, "value_one", expandEnvVars("${TEST_VAR_ONE}"))
	assert.Equal(t, "a-value_one-b", expandEnvVars("a-${TEST_VAR_ONE}-b"))
	assert.Equal(t, "${TEST_VAR_MISSING}", expandEnvVars("${TEST_VAR_MISSING}"))
	assert.Equal(t, "plain", expandEnvVars("plain"))
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "falls back to a discard logger")

	l := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), l)
	assert.Same(t, l, GetLogger(ctx))
}

func TestTableOptions(t *testing.T) {
	cfg := Default()
	assert.Len(t, cfg.TableOptions(slog.New(slog.DiscardHandler)), 4)
}
