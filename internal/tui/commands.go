package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/hagallery/internal/domain"
	"github.com/mmcdole/hagallery/internal/gallery"
	"github.com/mmcdole/hagallery/internal/preview"
	"github.com/mmcdole/hagallery/internal/service"
)

// Command factories for async operations

// Viewer opens a saved image in an external program
type Viewer interface {
	Launch(path string) error
}

// ActivateCmd assigns the runtime to the card, which renders and starts
// auto-refresh
func ActivateCmd(card *service.Card, rt domain.Runtime) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := card.SetRuntime(ctx, rt); err != nil {
			return ErrMsg{Err: err, Context: "connecting"}
		}
		return nil
	}
}

// WaitForViewCmd blocks until the card publishes a view
func WaitForViewCmd(ch <-chan gallery.View) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return ViewUpdatedMsg{View: v}
	}
}

// RefreshCmd re-runs fetch-and-render
func RefreshCmd(card *service.Card) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return RefreshDoneMsg{Err: card.Refresh(ctx)}
	}
}

// LoadPreviewCmd fetches the full-size image and renders it for the lightbox
func LoadPreviewCmd(svc *service.DownloadService, rt domain.Runtime, m gallery.Modal, cols, rows int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		body, _, err := svc.Open(ctx, rt, m)
		if err != nil {
			return PreviewLoadedMsg{MediaID: m.MediaID, Err: err}
		}
		defer body.Close()

		img, err := preview.Decode(body)
		if err != nil {
			return PreviewLoadedMsg{MediaID: m.MediaID, Err: err}
		}
		return PreviewLoadedMsg{MediaID: m.MediaID, Preview: preview.Render(img, cols, rows)}
	}
}

// SaveImageCmd downloads the lightbox image into dir
func SaveImageCmd(svc *service.DownloadService, rt domain.Runtime, m gallery.Modal, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		path, err := svc.Save(ctx, rt, m, dir)
		return DownloadDoneMsg{MediaID: m.MediaID, Path: path, Err: err}
	}
}

// OpenExternalCmd saves the image, unless already saved, and opens it in the
// external viewer
func OpenExternalCmd(svc *service.DownloadService, viewer Viewer, rt domain.Runtime, m gallery.Modal, dir string) tea.Cmd {
	return func() tea.Msg {
		path, ok := svc.SavedPath(m.MediaID)
		if !ok {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			var err error
			if path, err = svc.Save(ctx, rt, m, dir); err != nil {
				return ExternalOpenedMsg{Err: err}
			}
		}
		return ExternalOpenedMsg{Path: path, Err: viewer.Launch(path)}
	}
}

// ClearStatusCmd clears the footer status after d
func ClearStatusCmd(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
