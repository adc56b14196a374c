package gallery

import (
	"net/url"
	"strings"
	"testing"
)

func TestPublicURL(t *testing.T) {
	if got := PublicURL(""); got != "" {
		t.Errorf("empty id: got %q", got)
	}

	direct := "/api/image_proxy/camera.front?token=abc"
	if got := PublicURL(direct); got != direct {
		t.Errorf("api path should be verbatim, got %q", got)
	}

	id := "media-source://media_source/local/detection_shots/a b&c.jpg"
	got := PublicURL(id)
	if !strings.HasPrefix(got, ProxyPath+"?") {
		t.Fatalf("expected proxy url, got %q", got)
	}
	if strings.Contains(got, " ") || strings.Contains(got, "&c") {
		t.Fatalf("id not encoded: %q", got)
	}

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Query().Get("media_content_id") != id {
		t.Fatalf("round trip mismatch: %q", u.Query().Get("media_content_id"))
	}
}

func TestBrowsePath(t *testing.T) {
	got := BrowsePath(DefaultPath)
	want := "/media_player/browse_media?media_content_type=directory&media_content_id=media-source%3A%2F%2Fmedia_source%2Flocal%2Fdetection_shots"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestEncodeURIComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a b", "a%20b"},
		{"it's (1)!*~", "it's%20(1)!*~"},
		{"a+b&c=d/e", "a%2Bb%26c%3Dd%2Fe"},
		{"Ünï", "%C3%9Cn%C3%AF"},
	}
	for _, tt := range tests {
		if got := EncodeURIComponent(tt.in); got != tt.want {
			t.Errorf("EncodeURIComponent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
