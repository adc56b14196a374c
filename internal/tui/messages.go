package tui

import (
	"github.com/mmcdole/hagallery/internal/gallery"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ViewUpdatedMsg carries a render published by the card
type ViewUpdatedMsg struct {
	View gallery.View
}

// RefreshDoneMsg signals that a manual refresh finished
type RefreshDoneMsg struct {
	Err error
}

// PreviewLoadedMsg carries the rendered lightbox image
type PreviewLoadedMsg struct {
	MediaID string
	Preview string
	Err     error
}

// DownloadDoneMsg signals that a download finished
type DownloadDoneMsg struct {
	MediaID string
	Path    string
	Err     error
}

// ExternalOpenedMsg signals that an image was handed to an external viewer
type ExternalOpenedMsg struct {
	Path string
	Err  error
}

// ClearStatusMsg clears the footer status after a delay
type ClearStatusMsg struct {
	Seq int
}
