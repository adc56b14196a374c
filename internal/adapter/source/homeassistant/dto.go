package homeassistant

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/hagallery/internal/domain"
)

// BrowseResponse is the media_player/browse_media payload. Depending on the
// server version the entries arrive as "children" or "media_content_children".
type BrowseResponse struct {
	Title                string            `json:"title,omitempty"`
	MediaContentID       string            `json:"media_content_id,omitempty"`
	MediaContentType     string            `json:"media_content_type,omitempty"`
	Children             []json.RawMessage `json:"children"`
	MediaContentChildren []json.RawMessage `json:"media_content_children"`
}

// BrowseChild is one entry of a directory listing
type BrowseChild struct {
	Title            string    `json:"title"`
	Name             string    `json:"name"`
	MediaContentID   string    `json:"media_content_id"`
	MediaContentType string    `json:"media_content_type"`
	MediaClass       string    `json:"media_class,omitempty"`
	Thumbnail        string    `json:"thumbnail,omitempty"`
	MediaCreated     Timestamp `json:"media_created"`
	MediaModified    Timestamp `json:"media_modified"`
}

// Timestamp accepts epoch milliseconds as a JSON number or numeric string,
// or an RFC 3339 string. Anything else decodes to 0.
type Timestamp int64

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] != '"' {
		f, err := strconv.ParseFloat(string(data), 64)
		if err == nil && f > 0 {
			*t = Timestamp(f)
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f > 0 {
			*t = Timestamp(f)
		}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*t = Timestamp(parsed.UnixMilli())
	}
	return nil
}

// decodeBrowse normalizes both response shapes into the raw child list.
// A payload that is not an object, or carries neither collection, fails closed.
func decodeBrowse(body []byte) ([]json.RawMessage, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, domain.ErrUnknownShape
	}

	var resp BrowseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.ErrUnknownShape
	}

	switch {
	case hasCollection(probe, "children"):
		return resp.Children, nil
	case hasCollection(probe, "media_content_children"):
		return resp.MediaContentChildren, nil
	default:
		return nil, domain.ErrUnknownShape
	}
}

// hasCollection reports whether key is present and not null
func hasCollection(obj map[string]json.RawMessage, key string) bool {
	raw, ok := obj[key]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
