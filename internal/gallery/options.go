package gallery

import (
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// DefaultPath is the media-source directory shown when none is configured
const DefaultPath = "media-source://media_source/local/detection_shots"

// Options is the resolved card configuration
type Options struct {
	Path    string
	Limit   int           // 0 means unlimited
	Refresh time.Duration // 0 means no periodic refresh
}

// Attributes supplies element-level fallback values for card options
type Attributes interface {
	Attribute(name string) string
}

// AttributeMap is an Attributes backed by a plain map
type AttributeMap map[string]string

// Attribute implements Attributes
func (a AttributeMap) Attribute(name string) string { return a[name] }

// ResolveOptions resolves each option from cfg, then attrs, then its default.
// Missing or malformed values never fail; they fall through to the default.
func ResolveOptions(cfg map[string]any, attrs Attributes) Options {
	if attrs == nil {
		attrs = AttributeMap(nil)
	}

	opts := Options{Path: DefaultPath}

	if p := firstString(cfg["path"], attrs.Attribute("path")); p != "" {
		opts.Path = p
	}

	if n := firstNumber(cfg["limit"], attrs.Attribute("limit")); n > 0 {
		opts.Limit = int(math.Floor(n))
	}

	if n := firstNumber(cfg["refresh"], attrs.Attribute("refresh")); n > 0 {
		opts.Refresh = time.Duration(n * float64(time.Second))
	}

	return opts
}

// firstString returns the first candidate that coerces to a non-empty string
func firstString(candidates ...any) string {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		s, err := cast.ToStringE(c)
		if err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// firstNumber returns the first candidate that is present and number-like.
// A present but malformed value yields 0 rather than falling through.
func firstNumber(candidates ...any) float64 {
	for _, c := range candidates {
		if isAbsent(c) {
			continue
		}
		if s, ok := c.(string); ok {
			c = strings.TrimSpace(s)
		}
		n, err := cast.ToFloat64E(c)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
			return 0
		}
		return n
	}
	return 0
}

// isAbsent mirrors a falsy check: nil, empty string, false and zero are absent
func isAbsent(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case bool:
		return !x
	}
	n, err := cast.ToFloat64E(v)
	return err == nil && n == 0
}
