package service

import (
	"github.com/mmcdole/hagallery/internal/adapter"
)

// SessionService manages the stored Home Assistant credentials
type SessionService struct {
	loader *adapter.Loader
}

// NewSessionService creates a new SessionService
func NewSessionService(loader *adapter.Loader) *SessionService {
	return &SessionService{loader: loader}
}

// Login stores server credentials in the config file
func (s *SessionService) Login(cfg *adapter.Config, url, token string) error {
	cfg.Server.URL = url
	cfg.Server.Token = token
	return s.loader.Save(cfg)
}

// Logout clears server credentials and the download history
func (s *SessionService) Logout(cfg *adapter.Config) error {
	cfg.Server = adapter.ServerConfig{}
	if err := s.loader.Save(cfg); err != nil {
		return err
	}

	if err := adapter.ClearCache(cfg.Cache.Dir); err != nil {
		return err
	}

	return nil
}
