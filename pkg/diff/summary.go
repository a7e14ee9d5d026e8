package diff

import (
	"fmt"
	"sort"
)

// maxSummaryDepth bounds how deep a creation summary recurses before
// collapsing the remaining structure to a single line.
const maxSummaryDepth = 4

// Summarize flattens a new document into one add line per leaf field.
// Nested objects recurse up to maxSummaryDepth levels; arrays longer than
// one item are annotated with their count and only the first element is
// expanded.
func Summarize(doc map[string]any) []Change {
	return summarizeValue("", doc, 0)
}

func summarizeValue(path string, v any, depth int) []Change {
	switch typed := v.(type) {
	case map[string]any:
		if len(typed) == 0 {
			return []Change{{Op: OpAdd, Path: path, New: emptyMapMarker}}
		}
		if depth >= maxSummaryDepth {
			return []Change{{Op: OpAdd, Path: path, New: collapsedMap(len(typed))}}
		}
		keys := make([]string, 0, len(typed))
		for k := range typed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var changes []Change
		for _, k := range keys {
			changes = append(changes, summarizeValue(joinPath(path, k), typed[k], depth+1)...)
		}
		return changes
	case []any:
		if len(typed) == 0 {
			return []Change{{Op: OpAdd, Path: path, New: emptySeqMarker}}
		}
		if depth >= maxSummaryDepth {
			return []Change{{Op: OpAdd, Path: path, New: collapsedSeq(len(typed))}}
		}
		var changes []Change
		if len(typed) > 1 {
			changes = append(changes, Change{Op: OpAdd, Path: path, New: collapsedSeq(len(typed))})
		}
		changes = append(changes, summarizeValue(fmt.Sprintf("%s[0]", path), typed[0], depth+1)...)
		return changes
	default:
		return []Change{{Op: OpAdd, Path: path, New: render(v)}}
	}
}
