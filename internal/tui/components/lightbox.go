package components

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/hagallery/internal/gallery"
	"github.com/mmcdole/hagallery/internal/tui/styles"
)

// LightboxAction is what the user chose in the lightbox
type LightboxAction int

const (
	LightboxNone LightboxAction = iota
	LightboxDownload
	LightboxClose
	LightboxOpenExternal
)

// lightbox buttons in focus order
var lightboxButtons = []struct {
	label  string
	action LightboxAction
}{
	{"Download", LightboxDownload},
	{"Close", LightboxClose},
}

// Lightbox is the full-size image overlay. Opening another image replaces
// the current one.
type Lightbox struct {
	visible bool
	modal   gallery.Modal
	preview string // Rendered half-block image; empty while loading
	err     string
	focus   int // Index into lightboxButtons
	width   int
	height  int
}

// NewLightbox creates a hidden lightbox
func NewLightbox() Lightbox {
	return Lightbox{}
}

// Show opens the lightbox for m, discarding any previous image
func (l *Lightbox) Show(m gallery.Modal) {
	l.visible = true
	l.modal = m
	l.preview = ""
	l.err = ""
	l.focus = 0
}

// Hide closes the lightbox
func (l *Lightbox) Hide() {
	l.visible = false
	l.preview = ""
}

// IsVisible returns whether the lightbox is shown
func (l Lightbox) IsVisible() bool {
	return l.visible
}

// Modal returns the open image descriptor
func (l Lightbox) Modal() gallery.Modal {
	return l.modal
}

// SetPreview installs the rendered image for mediaID. Stale previews for a
// replaced image are ignored.
func (l *Lightbox) SetPreview(mediaID, preview string, err error) {
	if !l.visible || mediaID != l.modal.MediaID {
		return
	}
	l.preview = preview
	l.err = ""
	if err != nil {
		l.err = err.Error()
	}
}

// SetSize sets the space available to the overlay
func (l *Lightbox) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// PreviewSize returns the cell area the image may occupy
func (l Lightbox) PreviewSize() (cols, rows int) {
	// border + padding, title, spacer, buttons
	cols = l.width - 8
	rows = l.height - 10
	return max(cols, 1), max(rows, 1)
}

// HandleKey processes a key press and reports the chosen action. All keys
// are consumed while the lightbox is visible.
func (l *Lightbox) HandleKey(msg tea.KeyMsg) (handled bool, action LightboxAction) {
	if !l.visible {
		return false, LightboxNone
	}

	switch {
	case key.Matches(msg, LightboxKeys.Next):
		l.focus = (l.focus + 1) % len(lightboxButtons)
	case key.Matches(msg, LightboxKeys.Prev):
		l.focus = (l.focus + len(lightboxButtons) - 1) % len(lightboxButtons)
	case key.Matches(msg, LightboxKeys.Press):
		return true, lightboxButtons[l.focus].action
	case key.Matches(msg, LightboxKeys.Download):
		return true, LightboxDownload
	case key.Matches(msg, LightboxKeys.Open):
		return true, LightboxOpenExternal
	case key.Matches(msg, LightboxKeys.Close):
		return true, LightboxClose
	}
	return true, LightboxNone
}

// View renders the lightbox
func (l Lightbox) View() string {
	if !l.visible {
		return ""
	}

	cols, rows := l.PreviewSize()
	var body string
	switch {
	case l.err != "":
		body = styles.ErrorStyle.Render("Preview unavailable: " + l.err)
	case l.preview == "":
		body = styles.DimStyle.Render("Loading image…")
	default:
		body = l.preview
	}
	body = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, body)

	buttons := make([]string, len(lightboxButtons))
	for i, b := range lightboxButtons {
		style := styles.SecondaryButtonStyle
		if i == l.focus {
			style = styles.ButtonStyle
		}
		buttons[i] = style.Render(b.label)
	}
	actions := lipgloss.JoinHorizontal(lipgloss.Top, buttons[0], " ", buttons[1]) +
		styles.DimStyle.Render("   o open externally")

	title := styles.ModalTitleStyle.Render(styles.Truncate(l.modal.Title, cols))
	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, body, "", actions))
}
