package gallery

import "regexp"

// DownloadExt is the extension given to every downloaded image
const DownloadExt = ".jpg"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_\-.]`)

// SanitizeFilename replaces every character outside [A-Za-z0-9_-.] with an
// underscore. An empty base becomes "image".
func SanitizeFilename(base string) string {
	if base == "" {
		base = "image"
	}
	return unsafeFilenameChars.ReplaceAllString(base, "_")
}

// DownloadFilename returns the sanitized save-as name for a title
func DownloadFilename(title string) string {
	return SanitizeFilename(title) + DownloadExt
}
