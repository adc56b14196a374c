package source

import (
	"testing"

	"github.com/mmcdole/hagallery/internal/adapter"
)

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *SourceConfig
		wantErr bool
	}{
		{"nil", nil, true},
		{"no url", &SourceConfig{Token: "t"}, true},
		{"bad scheme", &SourceConfig{URL: "ftp://ha", Token: "t"}, true},
		{"no token", &SourceConfig{URL: "http://ha:8123"}, true},
		{"ok", &SourceConfig{URL: "http://ha:8123/", Token: "t"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.cfg, adapter.NullLogger())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && c.BaseURL() != "http://ha:8123" {
				t.Fatalf("base url: %q", c.BaseURL())
			}
		})
	}
}
