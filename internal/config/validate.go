package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFeed(); err != nil {
		return err
	}
	if err := c.validateAssets(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateFeed() error {
	if c.Feed.URL != "" {
		if err := validateHTTPURL(c.Feed.URL); err != nil {
			return fmt.Errorf("feed.url: %w", err)
		}
	}
	if c.Feed.RequestTimeout <= 0 {
		return errors.New("feed.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateAssets() error {
	if strings.TrimSpace(c.Assets.BaseURL) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/crate/config.toml"
		}
		return fmt.Errorf("assets.base_url is required. Edit %s (create with 'crate config init')", defaultPath)
	}
	if err := validateHTTPURL(c.Assets.BaseURL); err != nil {
		return fmt.Errorf("assets.base_url: %w", err)
	}
	if c.Assets.RequestTimeout <= 0 {
		return errors.New("assets.request_timeout must be positive")
	}
	if c.Assets.PacingMillis < 0 {
		return errors.New("assets.pacing_millis must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func validateHTTPURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("url host must not be empty")
	}
	return nil
}
