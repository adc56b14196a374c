package homeassistant

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mmcdole/hagallery/internal/domain"
	"github.com/mmcdole/hagallery/internal/gallery"
)

// Browser lists image entries through a runtime's browse_media endpoint
type Browser struct {
	logger *slog.Logger
}

// NewBrowser creates a media browser
func NewBrowser(logger *slog.Logger) *Browser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{logger: logger}
}

// BrowseImages implements domain.MediaBrowser. Every failure is reported as
// domain.ErrListFetch so callers can recover uniformly.
func (b *Browser) BrowseImages(ctx context.Context, rt domain.Runtime, path string) ([]domain.MediaItem, error) {
	if rt == nil {
		return nil, fmt.Errorf("%w: no runtime", domain.ErrListFetch)
	}

	body, err := rt.CallAPI(ctx, http.MethodGet, gallery.BrowsePath(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrListFetch, err)
	}

	children, err := decodeBrowse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrListFetch, err)
	}

	items := MapImages(children)
	b.logger.Debug("browsed media directory", "path", path, "children", len(children), "images", len(items))
	return items, nil
}
