package gallery

import (
	"testing"
	"time"
)

func TestResolveOptions_Defaults(t *testing.T) {
	opts := ResolveOptions(nil, nil)
	if opts.Path != DefaultPath {
		t.Fatalf("expected default path, got %q", opts.Path)
	}
	if opts.Limit != 0 || opts.Refresh != 0 {
		t.Fatalf("expected zero limit and refresh, got %d, %v", opts.Limit, opts.Refresh)
	}
}

func TestResolveOptions_Precedence(t *testing.T) {
	attrs := AttributeMap{"path": "media-source://attr", "limit": "7", "refresh": "30"}

	opts := ResolveOptions(map[string]any{"path": "media-source://cfg", "limit": 3}, attrs)
	if opts.Path != "media-source://cfg" {
		t.Errorf("config path should win, got %q", opts.Path)
	}
	if opts.Limit != 3 {
		t.Errorf("config limit should win, got %d", opts.Limit)
	}
	if opts.Refresh != 30*time.Second {
		t.Errorf("attribute refresh should apply, got %v", opts.Refresh)
	}

	opts = ResolveOptions(map[string]any{"path": ""}, attrs)
	if opts.Path != "media-source://attr" {
		t.Errorf("empty config path should fall back to attribute, got %q", opts.Path)
	}
}

func TestResolveOptions_Coercion(t *testing.T) {
	tests := []struct {
		name        string
		cfg         map[string]any
		wantLimit   int
		wantRefresh time.Duration
	}{
		{"numeric strings", map[string]any{"limit": "12", "refresh": "5"}, 12, 5 * time.Second},
		{"floats", map[string]any{"limit": 2.9, "refresh": 1.5}, 2, 1500 * time.Millisecond},
		{"malformed", map[string]any{"limit": "lots", "refresh": "often"}, 0, 0},
		{"negative", map[string]any{"limit": -4, "refresh": "-10"}, 0, 0},
		{"padded", map[string]any{"limit": " 8 "}, 8, 0},
		{"unsupported type", map[string]any{"limit": []int{1}}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := ResolveOptions(tt.cfg, nil)
			if opts.Limit != tt.wantLimit {
				t.Errorf("limit: got %d, want %d", opts.Limit, tt.wantLimit)
			}
			if opts.Refresh != tt.wantRefresh {
				t.Errorf("refresh: got %v, want %v", opts.Refresh, tt.wantRefresh)
			}
		})
	}
}

func TestResolveOptions_ZeroConfigFallsThrough(t *testing.T) {
	opts := ResolveOptions(map[string]any{"limit": 0}, AttributeMap{"limit": "4"})
	if opts.Limit != 4 {
		t.Fatalf("zero config limit should defer to attribute, got %d", opts.Limit)
	}
}
