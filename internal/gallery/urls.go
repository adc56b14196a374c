package gallery

import (
	"net/url"
	"strings"
)

const (
	// APIPrefix marks media ids that are already directly fetchable paths
	APIPrefix = "/api/"

	// ProxyPath resolves a media-source id to image bytes on the host
	ProxyPath = "/api/media_source_proxy/media_content"

	browsePath = "/media_player/browse_media"
)

// PublicURL returns the URL an image id is fetched from
func PublicURL(mediaID string) string {
	if mediaID == "" {
		return ""
	}
	if strings.HasPrefix(mediaID, APIPrefix) {
		return mediaID
	}
	return ProxyPath + "?media_content_id=" + EncodeURIComponent(mediaID)
}

// BrowsePath returns the host API path that lists a media-source directory
func BrowsePath(dir string) string {
	return browsePath + "?media_content_type=directory&media_content_id=" + EncodeURIComponent(dir)
}

// uriComponentUnescape undoes the QueryEscape encodings that
// encodeURIComponent leaves literal
var uriComponentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent percent-encodes s for use as a query value the way
// browsers' encodeURIComponent does: spaces become %20 and !'()*~ stay literal.
func EncodeURIComponent(s string) string {
	return uriComponentUnescape.Replace(url.QueryEscape(s))
}
