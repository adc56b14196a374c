package source

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/mmcdole/hagallery/internal/adapter"
	"github.com/mmcdole/hagallery/internal/adapter/source/homeassistant"
)

// SourceConfig contains the configuration needed to create a runtime client
type SourceConfig struct {
	URL   string
	Token string
}

// NewClient creates a Home Assistant runtime client after validating cfg
func NewClient(cfg *SourceConfig, logger *slog.Logger) (*homeassistant.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("source config is nil")
	}

	if cfg.URL == "" {
		return nil, fmt.Errorf("server URL is required")
	}

	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL: %q", cfg.URL)
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("server token is required")
	}

	return homeassistant.NewClient(cfg.URL, cfg.Token, logger), nil
}

// NewClientFromConfig creates a runtime client from the application config
func NewClientFromConfig(cfg *adapter.Config, logger *slog.Logger) (*homeassistant.Client, error) {
	return NewClient(&SourceConfig{
		URL:   cfg.Server.URL,
		Token: cfg.Server.Token,
	}, logger)
}
