package homeassistant

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/mmcdole/hagallery/internal/adapter"
	"github.com/mmcdole/hagallery/internal/domain"
)

type stubRuntime struct {
	body []byte
	err  error
	path string
}

func (s *stubRuntime) CallAPI(ctx context.Context, method, path string) ([]byte, error) {
	s.path = path
	return s.body, s.err
}

func (s *stubRuntime) Open(ctx context.Context, rawURL string) (io.ReadCloser, string, error) {
	return nil, "", errors.New("not implemented")
}

func TestBrowseImages_ChildrenShape(t *testing.T) {
	rt := &stubRuntime{body: []byte(`{
		"title": "detection_shots",
		"children": [
			{"title": "a.jpg", "media_content_id": "media-source://x/a.jpg", "media_content_type": "image/jpeg", "media_created": 1700000000000},
			{"name": "b.png", "media_content_id": "media-source://x/b.png", "media_content_type": "image/png", "media_modified": "2024-01-31T15:30:45Z"},
			{"title": "clip.mp4", "media_content_id": "media-source://x/clip.mp4", "media_content_type": "video/mp4"},
			{"title": "image.jpg", "media_content_id": "media-source://x/sub", "media_content_type": "directory"},
			"garbage"
		]
	}`)}

	items, err := NewBrowser(adapter.NullLogger()).BrowseImages(context.Background(), rt, "media-source://x")
	if err != nil {
		t.Fatalf("BrowseImages: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 images, got %d", len(items))
	}
	if items[0].Name != "a.jpg" || items[0].CreatedAt != 1700000000000 {
		t.Errorf("first item: %+v", items[0])
	}
	want := time.Date(2024, 1, 31, 15, 30, 45, 0, time.UTC).UnixMilli()
	if items[1].Name != "b.png" || items[1].CreatedAt != want {
		t.Errorf("second item: %+v", items[1])
	}
	if len(items[0].Raw) == 0 {
		t.Error("raw record not retained")
	}
	if rt.path != "/media_player/browse_media?media_content_type=directory&media_content_id=media-source%3A%2F%2Fx" {
		t.Errorf("browse path: %q", rt.path)
	}
}

func TestBrowseImages_MediaContentChildrenShape(t *testing.T) {
	rt := &stubRuntime{body: []byte(`{"media_content_children": [
		{"title": "a.jpg", "media_content_id": "id-a", "media_content_type": "image"}
	]}`)}

	items, err := NewBrowser(nil).BrowseImages(context.Background(), rt, "p")
	if err != nil {
		t.Fatalf("BrowseImages: %v", err)
	}
	if len(items) != 1 || items[0].ID != "id-a" || items[0].CreatedAt != 0 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestBrowseImages_Failures(t *testing.T) {
	tests := []struct {
		name string
		rt   *stubRuntime
	}{
		{"transport", &stubRuntime{err: domain.ErrServerOffline}},
		{"not json", &stubRuntime{body: []byte(`<html>`)}},
		{"array payload", &stubRuntime{body: []byte(`[]`)}},
		{"no collection", &stubRuntime{body: []byte(`{"title":"x"}`)}},
		{"null collection", &stubRuntime{body: []byte(`{"children":null}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := NewBrowser(nil).BrowseImages(context.Background(), tt.rt, "p")
			if !errors.Is(err, domain.ErrListFetch) {
				t.Fatalf("expected ErrListFetch, got %v", err)
			}
			if len(items) != 0 {
				t.Fatalf("expected no items, got %d", len(items))
			}
		})
	}
}

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := map[string]int64{
		`1700000000000`:   1700000000000,
		`"1700000000000"`: 1700000000000,
		`null`:            0,
		`-5`:              0,
		`"yesterday"`:     0,
		`{}`:              0,
	}
	for in, want := range tests {
		var ts Timestamp
		if err := ts.UnmarshalJSON([]byte(in)); err != nil {
			t.Errorf("%s: unexpected error %v", in, err)
		}
		if int64(ts) != want {
			t.Errorf("%s: got %d, want %d", in, ts, want)
		}
	}
}
