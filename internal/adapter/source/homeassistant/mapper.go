package homeassistant

import (
	"encoding/json"
	"strings"

	"github.com/mmcdole/hagallery/internal/domain"
)

// MapImages converts raw browse children to media items, keeping only
// entries whose content type begins with "image". Undecodable entries are
// skipped.
func MapImages(children []json.RawMessage) []domain.MediaItem {
	items := make([]domain.MediaItem, 0, len(children))
	for _, raw := range children {
		var c BrowseChild
		if err := json.Unmarshal(raw, &c); err != nil {
			continue
		}
		if !strings.HasPrefix(c.MediaContentType, "image") {
			continue
		}
		items = append(items, mapImage(c, raw))
	}
	return items
}

// mapImage converts a single child to a media item
func mapImage(c BrowseChild, raw json.RawMessage) domain.MediaItem {
	name := c.Title
	if name == "" {
		name = c.Name
	}

	created := int64(c.MediaCreated)
	if created == 0 {
		created = int64(c.MediaModified)
	}

	return domain.MediaItem{
		Name:      name,
		ID:        c.MediaContentID,
		CreatedAt: created,
		Raw:       append(json.RawMessage(nil), raw...),
	}
}
