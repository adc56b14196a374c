package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/hagallery/internal/adapter"
	"github.com/mmcdole/hagallery/internal/domain"
	"github.com/mmcdole/hagallery/internal/gallery"
	"github.com/mmcdole/hagallery/internal/service"
	"github.com/mmcdole/hagallery/internal/store"
)

type stubBrowser struct {
	items []domain.MediaItem
}

func (b stubBrowser) BrowseImages(context.Context, domain.Runtime, string) ([]domain.MediaItem, error) {
	return append([]domain.MediaItem(nil), b.items...), nil
}

// fakeRuntime serves image bytes for known URLs
type fakeRuntime struct {
	files map[string]string
}

func (f fakeRuntime) CallAPI(context.Context, string, string) ([]byte, error) { return nil, nil }

func (f fakeRuntime) Open(ctx context.Context, rawURL string) (io.ReadCloser, string, error) {
	body, ok := f.files[rawURL]
	if !ok {
		return nil, "", errors.New("404 Not Found")
	}
	return io.NopCloser(strings.NewReader(body)), "image/jpeg", nil
}

func newTestServer(t *testing.T, items []domain.MediaItem, rt domain.Runtime) (*Server, *service.DownloadService) {
	t.Helper()
	card := service.NewCard(stubBrowser{items: items}, adapter.NullLogger(), service.WithLocation(time.UTC))
	t.Cleanup(card.Dispose)
	if rt != nil {
		if err := card.SetRuntime(context.Background(), rt); err != nil {
			t.Fatalf("SetRuntime: %v", err)
		}
	}
	st, _ := store.NewDownloadStore("", "")
	dl := service.NewDownloadService(st, adapter.NullLogger())
	return NewServer(card, dl, adapter.NullLogger()), dl
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", target, nil))
	return rr
}

func TestPage_LoadingPlaceholder(t *testing.T) {
	s, _ := newTestServer(t, nil, nil)
	rr := get(t, s, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Loading gallery…") {
		t.Fatalf("missing placeholder: %s", rr.Body.String())
	}
}

func TestGrid_EmptyPlaceholder(t *testing.T) {
	s, _ := newTestServer(t, nil, fakeRuntime{})
	body := get(t, s, "/fragment/grid").Body.String()
	if !strings.Contains(body, `<div class="empty">No images found.</div>`) {
		t.Fatalf("unexpected grid: %s", body)
	}
}

func TestGrid_EscapesNames(t *testing.T) {
	items := []domain.MediaItem{{
		Name:      `<img src=x onerror="alert(1)">`,
		ID:        `media-source://a"b`,
		CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).UnixMilli(),
	}}
	s, _ := newTestServer(t, items, fakeRuntime{})

	body := get(t, s, "/fragment/grid").Body.String()
	if strings.Contains(body, "<img src=x") {
		t.Fatalf("unescaped name: %s", body)
	}
	for _, want := range []string{
		`title="&lt;img src=x onerror=&quot;alert(1)&quot;&gt;"`,
		`data-id="media-source://a&quot;b"`,
		`<div class="overlay">2024-01-02</div>`,
		`src="/api/media_source_proxy/media_content?media_content_id=media-source%3A%2F%2Fa%22b"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %s in %s", want, body)
		}
	}
}

func TestGrid_Filter(t *testing.T) {
	items := []domain.MediaItem{
		{Name: "front_door.jpg", ID: "a", CreatedAt: 2},
		{Name: "backyard.jpg", ID: "b", CreatedAt: 1},
	}
	s, _ := newTestServer(t, items, fakeRuntime{})

	body := get(t, s, "/fragment/grid?q=back").Body.String()
	if strings.Contains(body, "front_door") || !strings.Contains(body, "backyard") {
		t.Fatalf("unexpected filter result: %s", body)
	}
}

func TestModal_URLResolution(t *testing.T) {
	s, _ := newTestServer(t, nil, fakeRuntime{})

	body := get(t, s, "/fragment/modal?id=/api/camera_proxy/camera.front&title=cam").Body.String()
	if !strings.Contains(body, `<img src="/api/camera_proxy/camera.front" alt="cam" />`) {
		t.Fatalf("verbatim url not kept: %s", body)
	}

	body = get(t, s, "/fragment/modal?id=media-source://x/y%20z.jpg&title=y%20z").Body.String()
	if !strings.Contains(body, `src="/api/media_source_proxy/media_content?media_content_id=media-source%3A%2F%2Fx%2Fy%20z.jpg"`) {
		t.Fatalf("proxy url not built: %s", body)
	}
	if !strings.Contains(body, `data-filename="y_z.jpg"`) {
		t.Fatalf("filename not sanitized: %s", body)
	}

	if rr := get(t, s, "/fragment/modal"); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestPage_OpenRendersModal(t *testing.T) {
	items := []domain.MediaItem{{Name: "a.jpg", ID: "media-source://a.jpg", CreatedAt: 1}}
	s, _ := newTestServer(t, items, fakeRuntime{})

	body := get(t, s, "/?open=media-source://a.jpg").Body.String()
	if !strings.Contains(body, `id="downloadBtn"`) || !strings.Contains(body, `alt="a.jpg"`) {
		t.Fatalf("modal not rendered: %s", body)
	}
}

func TestDownload(t *testing.T) {
	m := gallery.OpenModal("media-source://media_source/local/a.jpg", "front door")
	rt := fakeRuntime{files: map[string]string{m.ImageURL: "JPEG"}}
	s, dl := newTestServer(t, nil, rt)

	rr := get(t, s, "/download?id=media-source://media_source/local/a.jpg&title=front%20door")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="front_door.jpg"` {
		t.Fatalf("disposition: %q", got)
	}
	if rr.Body.String() != "JPEG" {
		t.Fatalf("body: %q", rr.Body.String())
	}
	if !dl.Downloaded(m.MediaID) {
		t.Fatal("download not recorded")
	}

	rr = get(t, s, "/downloads")
	var recs []domain.DownloadRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(recs) != 1 || recs[0].MediaID != m.MediaID || recs[0].Filename != "front_door.jpg" {
		t.Fatalf("history: %+v", recs)
	}

	rr = get(t, s, "/download?id=media-source://missing")
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
}

func TestDownload_APIIdsRestricted(t *testing.T) {
	items := []domain.MediaItem{{Name: "cam", ID: "/api/camera_proxy/camera.front", CreatedAt: 1}}
	rt := fakeRuntime{files: map[string]string{
		"/api/camera_proxy/camera.front": "CAM",
		"/api/states":                    "secret",
	}}
	s, dl := newTestServer(t, items, rt)

	rr := get(t, s, "/download?id=/api/states")
	if rr.Code != http.StatusNotFound || strings.Contains(rr.Body.String(), "secret") {
		t.Fatalf("unrendered api id: %d %q", rr.Code, rr.Body.String())
	}
	if dl.Downloaded("/api/states") {
		t.Fatal("rejected download was recorded")
	}

	rr = get(t, s, "/download?id=/api/camera_proxy/camera.front&title=cam")
	if rr.Code != http.StatusOK || rr.Body.String() != "CAM" {
		t.Fatalf("rendered api id: %d %q", rr.Code, rr.Body.String())
	}
}

func TestAPIProxy_Restricted(t *testing.T) {
	items := []domain.MediaItem{{Name: "cam", ID: "/api/camera_proxy/camera.front", CreatedAt: 1}}
	proxied := gallery.PublicURL("media-source://a.jpg")
	rt := fakeRuntime{files: map[string]string{
		"/api/camera_proxy/camera.front": "CAM",
		proxied:                          "IMG",
		"/api/states":                    "secret",
	}}
	s, _ := newTestServer(t, items, rt)

	if rr := get(t, s, proxied); rr.Code != http.StatusOK || rr.Body.String() != "IMG" {
		t.Fatalf("proxy path: %d %q", rr.Code, rr.Body.String())
	}
	if rr := get(t, s, "/api/camera_proxy/camera.front"); rr.Body.String() != "CAM" {
		t.Fatalf("rendered id: %d %q", rr.Code, rr.Body.String())
	}
	if rr := get(t, s, "/api/states"); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unrelated api path, got %d", rr.Code)
	}
}

func TestRefreshAndHealth(t *testing.T) {
	s, _ := newTestServer(t, nil, nil)

	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest("POST", "/refresh", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before runtime, got %d", rr.Code)
	}

	body := get(t, s, "/healthz").Body.String()
	if !strings.Contains(body, `"card":"uninitialized"`) {
		t.Fatalf("health: %s", body)
	}
}
