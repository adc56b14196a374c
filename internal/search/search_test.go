package search

import (
	"testing"

	"github.com/mmcdole/hagallery/internal/gallery"
)

func tiles(titles ...string) []gallery.Tile {
	out := make([]gallery.Tile, len(titles))
	for i, t := range titles {
		out[i] = gallery.Tile{ID: t, Title: t}
	}
	return out
}

func titles(ts []gallery.Tile) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Title
	}
	return out
}

func TestFilterTiles(t *testing.T) {
	in := tiles(
		"front_door_20240102_080000.jpg",
		"backyard_20240101_120000.jpg",
		"Front Porch 2023-12-31.png",
	)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query keeps all", "", titles(in)},
		{"whitespace query keeps all", "   ", titles(in)},
		{"single token", "front", []string{in[0].Title, in[2].Title}},
		{"order independent", "door front", []string{in[0].Title}},
		{"case insensitive", "BACKYARD", []string{in[1].Title}},
		{"subsequence", "bkyd", []string{in[1].Title}},
		{"no match", "garage", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(FilterTiles(tt.query, in))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
