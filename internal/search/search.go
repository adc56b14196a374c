// Package search filters gallery tiles by name.
package search

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/hagallery/internal/gallery"
)

// FilterTiles returns the tiles whose title matches query, in their original
// order. Every query token must match (AND semantics) and word order does not
// matter, so "door front" matches "front_door_20240101_120000".
//
// An empty query returns tiles unchanged.
func FilterTiles(query string, tiles []gallery.Tile) []gallery.Tile {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return tiles
	}

	out := make([]gallery.Tile, 0, len(tiles))
	for _, t := range tiles {
		if matchAll(tokens, t.Title) {
			out = append(out, t)
		}
	}
	return out
}

func matchAll(tokens []string, title string) bool {
	words := tokenize(title)
	for _, tok := range tokens {
		if !matchToken(tok, title, words) {
			return false
		}
	}
	return true
}

// matchToken accepts a token found as a subsequence of any title word, or of
// the whole title for tokens spanning separators
func matchToken(tok, title string, words []string) bool {
	for _, w := range words {
		if fuzzy.MatchNormalizedFold(tok, w) {
			return true
		}
	}
	return fuzzy.MatchNormalizedFold(tok, title)
}

// tokenize splits text into lowercase word tokens. Underscores and dashes
// separate words, which matters for camera snapshot names.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
