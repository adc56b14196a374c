package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/hagallery/internal/adapter"
)

func TestSessionService_LoginLogout(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	cacheDir := filepath.Join(dir, "cache")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		t.Fatal(err)
	}

	loader := adapter.NewLoader(file)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Cache.Dir = cacheDir

	s := NewSessionService(loader)
	if err := s.Login(cfg, "http://ha:8123", "tok"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	cfg, err = adapter.NewLoader(file).Load()
	if err != nil || !cfg.IsConfigured() {
		t.Fatalf("expected stored credentials: %+v, %v", cfg, err)
	}
	cfg.Cache.Dir = cacheDir

	if err := s.Logout(cfg); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := os.Stat(cacheDir); !os.IsNotExist(err) {
		t.Fatal("cache dir not cleared")
	}
	cfg, _ = adapter.NewLoader(file).Load()
	if cfg.IsConfigured() {
		t.Fatal("credentials still stored")
	}
}
