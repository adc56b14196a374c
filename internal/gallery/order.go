package gallery

import (
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/mmcdole/hagallery/internal/domain"
)

// filenameStamp matches YYYYMMDD with optional - or _ separators, followed by
// a run of at least six time digits (HHMMSS plus optional fractional digits).
var filenameStamp = regexp.MustCompile(`(\d{4})[-_]?(\d{2})[-_]?(\d{2})[_-]?(\d{6,})`)

// ParseFilenameTimestamp extracts a capture time embedded in name and returns
// it as epoch milliseconds, or 0 when no valid date-time token is present.
func ParseFilenameTimestamp(name string, loc *time.Location) int64 {
	if loc == nil {
		loc = time.Local
	}

	m := filenameStamp.FindStringSubmatch(name)
	if m == nil {
		return 0
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	clock := m[4]
	hour, _ := strconv.Atoi(clock[0:2])
	minute, _ := strconv.Atoi(clock[2:4])
	sec, _ := strconv.Atoi(clock[4:6])

	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || sec > 59 {
		return 0
	}

	// Digits past HHMMSS are fractional seconds; keep millisecond precision
	ms := 0
	if frac := clock[6:]; frac != "" {
		for len(frac) < 3 {
			frac += "0"
		}
		ms, _ = strconv.Atoi(frac[:3])
	}

	t := time.Date(year, time.Month(month), day, hour, minute, sec, ms*int(time.Millisecond), loc)
	// time.Date normalizes Feb 30 into March; reject instead
	if t.Day() != day || int(t.Month()) != month {
		return 0
	}
	return t.UnixMilli()
}

// DeriveTimestamps fills CreatedAt from the file name for items the host did
// not timestamp. Host-reported values are never overridden.
func DeriveTimestamps(items []domain.MediaItem, loc *time.Location) {
	for i := range items {
		if items[i].CreatedAt == 0 {
			items[i].CreatedAt = ParseFilenameTimestamp(items[i].Name, loc)
		}
	}
}

// SortNewestFirst orders items by CreatedAt descending. Items without a
// timestamp sort last and keep their relative order.
func SortNewestFirst(items []domain.MediaItem) {
	slices.SortStableFunc(items, func(a, b domain.MediaItem) int {
		switch {
		case a.CreatedAt > b.CreatedAt:
			return -1
		case a.CreatedAt < b.CreatedAt:
			return 1
		default:
			return 0
		}
	})
}

// ApplyLimit truncates items to limit entries; limit <= 0 keeps everything
func ApplyLimit(items []domain.MediaItem, limit int) []domain.MediaItem {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// Arrange derives missing timestamps, sorts newest first and applies the limit
func Arrange(items []domain.MediaItem, limit int, loc *time.Location) []domain.MediaItem {
	DeriveTimestamps(items, loc)
	SortNewestFirst(items)
	return ApplyLimit(items, limit)
}
