package homeassistant

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/hagallery/internal/adapter"
	"github.com/mmcdole/hagallery/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL+"/", "secret", adapter.NullLogger())
	c.retryDelay = time.Millisecond
	return c
}

func TestCallAPI_AuthAndPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization header: %q", got)
		}
		if r.URL.Path != "/api/media_player/browse_media" {
			t.Errorf("path: %q", r.URL.Path)
		}
		if r.URL.Query().Get("media_content_type") != "directory" {
			t.Errorf("query: %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"children":[]}`))
	})

	body, err := c.CallAPI(context.Background(), http.MethodGet, "/media_player/browse_media?media_content_type=directory")
	if err != nil {
		t.Fatalf("CallAPI: %v", err)
	}
	if string(body) != `{"children":[]}` {
		t.Fatalf("body: %s", body)
	}
}

func TestCallAPI_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.CallAPI(context.Background(), http.MethodGet, "/")
	if !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestCallAPI_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})

	if _, err := c.CallAPI(context.Background(), http.MethodGet, "/"); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
}

func TestCallAPI_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := c.CallAPI(context.Background(), http.MethodGet, "/"); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != maxRetries+1 {
		t.Fatalf("expected %d calls, got %d", maxRetries+1, calls.Load())
	}
}

func TestCallAPI_Offline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, "t", adapter.NullLogger())
	_, err := c.CallAPI(context.Background(), http.MethodGet, "/")
	if !errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("expected ErrServerOffline, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/media_source_proxy/media_content" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xFF, 0xD8, 0xFF})
	})

	body, ct, err := c.Open(context.Background(), "/api/media_source_proxy/media_content?media_content_id=x")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer body.Close()
	data, _ := io.ReadAll(body)
	if ct != "image/jpeg" || len(data) != 3 {
		t.Fatalf("unexpected response: %q, %d bytes", ct, len(data))
	}

	if _, _, err := c.Open(context.Background(), "/api/missing"); err == nil {
		t.Fatal("expected error for 404")
	}
	if _, _, err := c.Open(context.Background(), "http://elsewhere/x.jpg"); err == nil {
		t.Fatal("expected error for absolute url")
	}
}
