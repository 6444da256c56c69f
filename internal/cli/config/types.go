// Package config provides configuration management for the contratos CLI.
//
// Values are layered with koanf: defaults, then contratos.yaml, then
// CONTRATOS_ environment variables, then explicitly set flags.
package config

import (
	"log/slog"
	"time"

	"github.com/leapstack-labs/contratos/internal/api"
	"github.com/leapstack-labs/contratos/internal/table"
)

// Config holds all CLI configuration options.
type Config struct {
	API          APIConfig   `koanf:"api"`
	UI           UIConfig    `koanf:"ui"`
	Table        TableConfig `koanf:"table"`
	Log          LogConfig   `koanf:"log"`
	OutputFormat string      `koanf:"output"`
	Verbose      bool        `koanf:"verbose"`
}

// APIConfig locates the backend.
type APIConfig struct {
	BaseURL      string        `koanf:"base_url"`
	Timeout      time.Duration `koanf:"timeout"`
	Token        string        `koanf:"token"`
	RegisterPath string        `koanf:"register_path"`
}

// UIConfig holds configuration for the web console.
type UIConfig struct {
	Port          int           `koanf:"port"`
	AutoOpen      bool          `koanf:"auto_open"`
	SessionSecret string        `koanf:"session_secret"`
	SessionDB     string        `koanf:"session_db"`
	SessionTTL    time.Duration `koanf:"session_ttl"`
}

// TableConfig tunes every data table.
type TableConfig struct {
	Debounce  time.Duration `koanf:"debounce"`
	PageSize  int           `koanf:"page_size"`
	PageSizes []int         `koanf:"page_sizes"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:8080"
	DefaultTimeout    = 30 * time.Second
	DefaultPort       = 8765
	DefaultSessionDB  = ".contratos/sessions.db"
	DefaultSessionTTL = 12 * time.Hour
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultPageSize   = 10

	// MinSecretLength is the shortest accepted session secret.
	MinSecretLength = 16
)

// DefaultPageSizes are the page sizes offered by every table.
var DefaultPageSizes = table.DefaultPageSizes

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      DefaultBaseURL,
			Timeout:      DefaultTimeout,
			RegisterPath: api.DefaultRegisterPath,
		},
		UI: UIConfig{
			Port:       DefaultPort,
			AutoOpen:   true,
			SessionDB:  DefaultSessionDB,
			SessionTTL: DefaultSessionTTL,
		},
		Table: TableConfig{
			Debounce:  table.DefaultDebounce,
			PageSize:  DefaultPageSize,
			PageSizes: append([]int(nil), DefaultPageSizes...),
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		OutputFormat: DefaultOutput,
	}
}

// TableOptions converts the table settings to controller options.
func (c *Config) TableOptions(logger *slog.Logger) []table.Option {
	return []table.Option{
		table.WithDebounce(c.Table.Debounce),
		table.WithPageSizes(c.Table.PageSizes...),
		table.WithPageSize(c.Table.PageSize),
		table.WithLogger(logger),
	}
}

// SlogLevel parses the configured log level. Verbose forces debug.
func (c *Config) SlogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
