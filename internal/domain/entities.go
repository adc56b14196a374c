package domain

import (
	"encoding/json"
	"time"
)

// MediaItem is a single image entry from a media-source directory
type MediaItem struct {
	Name      string          // Display title
	ID        string          // Media-source locator (media_content_id)
	CreatedAt int64           // Epoch milliseconds, 0 when unknown
	Raw       json.RawMessage // Unmodified host record
}

// DownloadRecord describes an image that has been saved or served as a download
type DownloadRecord struct {
	MediaID  string    `json:"media_id"`
	Filename string    `json:"filename"`
	Path     string    `json:"path,omitempty"` // Empty for browser downloads
	Bytes    int64     `json:"bytes"`
	At       time.Time `json:"at"`
}
