package diff

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// maxRenderedLen bounds both string values and the rendered form of a
// collection before it is truncated or collapsed to a count.
const maxRenderedLen = 80

const (
	emptyMapMarker = "{}"
	emptySeqMarker = "[]"
)

func collapsedMap(n int) string {
	return fmt.Sprintf("{%d fields}", n)
}

func collapsedSeq(n int) string {
	return fmt.Sprintf("[%d items]", n)
}

// truncate bounds s at maxRenderedLen bytes without splitting a multi-byte
// rune at the cut point.
func truncate(s string) string {
	if len(s) <= maxRenderedLen {
		return s
	}
	cut := maxRenderedLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// render produces the short printable form of any document value.
func render(v any) string {
	switch typed := v.(type) {
	case nil:
		return "null"
	case string:
		return truncate(typed)
	case map[string]any:
		if len(typed) == 0 {
			return emptyMapMarker
		}
		keys := make([]string, 0, len(typed))
		for k := range typed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, render(typed[k]))
		}
		full := "{" + strings.Join(parts, ", ") + "}"
		if len(full) > maxRenderedLen {
			return collapsedMap(len(typed))
		}
		return full
	case []any:
		if len(typed) == 0 {
			return emptySeqMarker
		}
		parts := make([]string, len(typed))
		for i, item := range typed {
			parts[i] = render(item)
		}
		full := "[" + strings.Join(parts, ", ") + "]"
		if len(full) > maxRenderedLen {
			return collapsedSeq(len(typed))
		}
		return full
	default:
		return fmt.Sprint(typed)
	}
}
