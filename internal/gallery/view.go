package gallery

import (
	"time"

	"github.com/mmcdole/hagallery/internal/domain"
)

// Placeholder texts shared by every front end
const (
	LoadingText = "Loading gallery…"
	EmptyText   = "No images found."
)

// Tile describes one thumbnail cell. Fields hold raw, unescaped text;
// renderers apply their own encoding step.
type Tile struct {
	ID        string
	Title     string
	ThumbURL  string
	DateLabel string
	CreatedAt int64
}

// Modal describes an open lightbox
type Modal struct {
	MediaID      string
	Title        string
	ImageURL     string
	DownloadName string
}

// View is the render state of a gallery card
type View struct {
	Loading bool   // Nothing fetched yet
	Tiles   []Tile // Sorted newest first, already limited
	Modal   *Modal // Nil when closed
	Version uint64 // Incremented on every completed render
}

// Empty reports whether the view should show the "no images" placeholder
func (v View) Empty() bool {
	return !v.Loading && len(v.Tiles) == 0
}

// Tile returns the tile with the given id
func (v View) Tile(id string) (Tile, bool) {
	for _, t := range v.Tiles {
		if t.ID == id {
			return t, true
		}
	}
	return Tile{}, false
}

// BuildTiles maps arranged items to tile descriptors
func BuildTiles(items []domain.MediaItem, loc *time.Location) []Tile {
	tiles := make([]Tile, 0, len(items))
	for _, it := range items {
		tiles = append(tiles, Tile{
			ID:        it.ID,
			Title:     it.Name,
			ThumbURL:  PublicURL(it.ID),
			DateLabel: FormatDateShort(it.CreatedAt, loc),
			CreatedAt: it.CreatedAt,
		})
	}
	return tiles
}

// OpenModal returns the lightbox descriptor for an item
func OpenModal(mediaID, title string) Modal {
	base := title
	if base == "" {
		base = "image"
	}
	return Modal{
		MediaID:      mediaID,
		Title:        title,
		ImageURL:     PublicURL(mediaID),
		DownloadName: DownloadFilename(base),
	}
}
