package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/mmcdole/hagallery/internal/gallery"
)

func TestLightbox_Actions(t *testing.T) {
	l := NewLightbox()
	if handled, _ := l.HandleKey(keyMsg("d")); handled {
		t.Fatal("hidden lightbox consumed key")
	}

	l.Show(gallery.OpenModal("media-source://a", "a"))
	l.SetSize(80, 30)

	tests := []struct {
		key  string
		want LightboxAction
	}{
		{"d", LightboxDownload},
		{"o", LightboxOpenExternal},
		{"esc", LightboxClose},
		{"q", LightboxClose},
		{"x", LightboxNone},
		{"enter", LightboxDownload}, // focus starts on Download
	}
	for _, tt := range tests {
		handled, got := l.HandleKey(keyMsg(tt.key))
		if !handled || got != tt.want {
			t.Errorf("%s: got %v, %v", tt.key, handled, got)
		}
	}

	l.HandleKey(keyMsg("l"))
	if _, got := l.HandleKey(keyMsg("enter")); got != LightboxClose {
		t.Fatalf("expected Close after moving focus, got %v", got)
	}
}

func TestLightbox_ReplaceAndPreview(t *testing.T) {
	l := NewLightbox()
	l.SetSize(80, 30)
	l.Show(gallery.OpenModal("a", "first"))
	l.Show(gallery.OpenModal("b", "second"))

	if l.Modal().MediaID != "b" {
		t.Fatal("second open should replace the first")
	}

	// Stale preview for the replaced image is ignored
	l.SetPreview("a", "OLD", nil)
	if strings.Contains(l.View(), "OLD") {
		t.Fatal("stale preview shown")
	}

	l.SetPreview("b", "", errors.New("bad image"))
	if !strings.Contains(l.View(), "bad image") {
		t.Fatal("preview error not shown")
	}

	l.Hide()
	if l.IsVisible() || l.View() != "" {
		t.Fatal("lightbox still visible")
	}
}

func TestAlert(t *testing.T) {
	a := NewAlert()
	if a.HandleKey("x") {
		t.Fatal("hidden alert consumed key")
	}
	a.Show("Download failed", "boom")
	if !strings.Contains(a.View(), "boom") {
		t.Fatal("message missing")
	}
	if !a.HandleKey("x") || a.IsVisible() {
		t.Fatal("alert not dismissed")
	}
}
