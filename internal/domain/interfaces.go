package domain

import (
	"context"
	"io"
)

// Runtime is the data-access capability a host assigns to the gallery card.
// Paths are relative to the host API root ("/media_player/browse_media?...").
type Runtime interface {
	// CallAPI performs a request and returns the raw response body
	CallAPI(ctx context.Context, method, path string) ([]byte, error)

	// Open streams a host URL ("/api/...") and reports its content type.
	// The caller closes the returned reader.
	Open(ctx context.Context, rawURL string) (io.ReadCloser, string, error)
}

// MediaBrowser lists image entries in a media-source directory
type MediaBrowser interface {
	BrowseImages(ctx context.Context, rt Runtime, path string) ([]MediaItem, error)
}

// DownloadStore remembers which images have been downloaded
type DownloadStore interface {
	RecordDownload(rec DownloadRecord) error
	GetDownload(mediaID string) (DownloadRecord, bool)
	ListDownloads() ([]DownloadRecord, error)
	Close() error
}
