package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var (
	logLevels   = []string{"debug", "info", "warn", "error"}
	logFormats  = []string{"text", "json"}
	outputModes = []string{"auto", "text", "markdown", "json"}
)

// Validate checks if the configuration is valid. All problems are reported
// together.
func (c *Config) Validate() error {
	var errs []error

	if err := validateBaseURL(c.API.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must not be negative, got %s", c.API.Timeout))
	}
	if c.API.RegisterPath != "" && !strings.HasPrefix(c.API.RegisterPath, "/") {
		errs = append(errs, fmt.Errorf("api.register_path must start with /, got %q", c.API.RegisterPath))
	}

	if c.UI.Port < 0 || c.UI.Port > 65535 {
		errs = append(errs, fmt.Errorf("ui.port must be between 0 and 65535, got %d", c.UI.Port))
	}
	if c.UI.SessionSecret != "" && len(c.UI.SessionSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("ui.session_secret must have at least %d characters", MinSecretLength))
	}
	if c.UI.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("ui.session_ttl must be positive, got %s", c.UI.SessionTTL))
	}

	if c.Table.Debounce < 0 {
		errs = append(errs, fmt.Errorf("table.debounce must not be negative, got %s", c.Table.Debounce))
	}
	if len(c.Table.PageSizes) == 0 {
		errs = append(errs, errors.New("table.page_sizes must not be empty"))
	}
	for _, n := range c.Table.PageSizes {
		if n <= 0 {
			errs = append(errs, fmt.Errorf("table.page_sizes must be positive, got %d", n))
		}
	}
	if len(c.Table.PageSizes) > 0 && !slices.Contains(c.Table.PageSizes, c.Table.PageSize) {
		errs = append(errs, fmt.Errorf("table.page_size %d is not one of %v", c.Table.PageSize, c.Table.PageSizes))
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level must be one of %s, got %q", strings.Join(logLevels, "|"), c.Log.Level))
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of %s, got %q", strings.Join(logFormats, "|"), c.Log.Format))
	}
	if !slices.Contains(outputModes, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output must be one of %s, got %q", strings.Join(outputModes, "|"), c.OutputFormat))
	}

	return errors.Join(errs...)
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return errors.New("api.base_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("api.base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url has no host: %q", raw)
	}
	return nil
}
