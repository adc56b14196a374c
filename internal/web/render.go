package web

import (
	"net/url"
	"strings"

	"github.com/mmcdole/hagallery/internal/gallery"
)

// Fragments are assembled by hand so every interpolated value passes through
// gallery.EscapeHTML exactly once.

func renderGrid(v gallery.View, tiles []gallery.Tile) string {
	var sb strings.Builder
	if v.Loading {
		sb.WriteString(`<div class="placeholder">`)
		sb.WriteString(gallery.EscapeHTML(gallery.LoadingText))
		sb.WriteString(`</div>`)
		return sb.String()
	}

	sb.WriteString(`<div class="grid">`)
	if len(tiles) == 0 {
		sb.WriteString(`<div class="empty">`)
		sb.WriteString(gallery.EscapeHTML(gallery.EmptyText))
		sb.WriteString(`</div>`)
	}
	for _, t := range tiles {
		sb.WriteString(`<div class="tile" data-id="`)
		sb.WriteString(gallery.EscapeHTML(t.ID))
		sb.WriteString(`" title="`)
		sb.WriteString(gallery.EscapeHTML(t.Title))
		sb.WriteString(`"><img src="`)
		sb.WriteString(gallery.EscapeHTML(t.ThumbURL))
		sb.WriteString(`" loading="lazy" /><div class="overlay">`)
		sb.WriteString(gallery.EscapeHTML(t.DateLabel))
		sb.WriteString(`</div></div>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func renderModal(m *gallery.Modal) string {
	if m == nil {
		return ""
	}
	q := url.Values{}
	q.Set("id", m.MediaID)
	q.Set("title", m.Title)
	downloadURL := "/download?" + q.Encode()

	var sb strings.Builder
	sb.WriteString(`<div class="modal" id="modal"><div class="modal-content"><img src="`)
	sb.WriteString(gallery.EscapeHTML(m.ImageURL))
	sb.WriteString(`" alt="`)
	sb.WriteString(gallery.EscapeHTML(m.Title))
	sb.WriteString(`" /><div class="actions"><button class="btn" id="downloadBtn" data-url="`)
	sb.WriteString(gallery.EscapeHTML(downloadURL))
	sb.WriteString(`" data-filename="`)
	sb.WriteString(gallery.EscapeHTML(m.DownloadName))
	sb.WriteString(`">Download</button><button class="btn secondary" id="closeBtn">Close</button></div></div></div>`)
	return sb.String()
}
