package gallery

import (
	"strconv"
	"time"
)

// FormatDateShort renders an epoch-millisecond timestamp as YYYY-MM-DD in
// loc, or "" when the timestamp is unknown.
func FormatDateShort(ms int64, loc *time.Location) string {
	if ms == 0 {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	t := time.UnixMilli(ms).In(loc)
	return strconv.Itoa(t.Year()) + "-" + pad(int(t.Month())) + "-" + pad(t.Day())
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
