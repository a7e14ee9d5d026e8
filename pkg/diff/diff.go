// Package diff computes human-readable change plans between two parsed
// documents, and creation summaries for documents that have no live
// counterpart yet.
package diff

import (
	"fmt"
	"sort"

	"github.com/google/go-cmp/cmp"
)

type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
	OpModify Op = "modify"
)

// Change is one line of a change plan. Paths use dotted notation for map
// keys and bracketed indices for sequence elements.
type Change struct {
	Op   Op     `json:"op"`
	Path string `json:"path"`
	Old  string `json:"old,omitempty"`
	New  string `json:"new,omitempty"`
}

func (c Change) String() string {
	switch c.Op {
	case OpAdd:
		return fmt.Sprintf("+ %s: %s", c.Path, c.New)
	case OpRemove:
		return fmt.Sprintf("- %s: %s", c.Path, c.Old)
	default:
		return fmt.Sprintf("~ %s: %s -> %s", c.Path, c.Old, c.New)
	}
}

// Render flattens a change plan into its printable lines.
func Render(changes []Change) []string {
	lines := make([]string, len(changes))
	for i, c := range changes {
		lines[i] = c.String()
	}
	return lines
}

// Compare walks both documents structurally and returns the ordered change
// plan transforming live into desired. Equal documents yield an empty plan.
func Compare(live, desired map[string]any) []Change {
	return compareValues("", live, desired)
}

func compareValues(path string, a, b any) []Change {
	if equal(a, b) {
		return nil
	}

	aMap, aIsMap := a.(map[string]any)
	bMap, bIsMap := b.(map[string]any)
	if aIsMap && bIsMap {
		return compareMaps(path, aMap, bMap)
	}

	aSeq, aIsSeq := a.([]any)
	bSeq, bIsSeq := b.([]any)
	if aIsSeq && bIsSeq {
		return compareSequences(path, aSeq, bSeq)
	}

	// scalar difference, or a type mismatch between collection and scalar
	return []Change{{Op: OpModify, Path: path, Old: render(a), New: render(b)}}
}

func compareMaps(path string, a, b map[string]any) []Change {
	keys := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
		seen[k] = true
	}
	for k := range b {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var changes []Change
	for _, k := range keys {
		childPath := joinPath(path, k)
		av, inA := a[k]
		bv, inB := b[k]
		switch {
		case !inB:
			changes = append(changes, Change{Op: OpRemove, Path: childPath, Old: render(av)})
		case !inA:
			changes = append(changes, Change{Op: OpAdd, Path: childPath, New: render(bv)})
		default:
			changes = append(changes, compareValues(childPath, av, bv)...)
		}
	}
	return changes
}

func compareSequences(path string, a, b []any) []Change {
	longest := max(len(a), len(b))
	var changes []Change
	for i := 0; i < longest; i++ {
		childPath := fmt.Sprintf("%s[%d]", path, i)
		switch {
		case i >= len(b):
			changes = append(changes, Change{Op: OpRemove, Path: childPath, Old: render(a[i])})
		case i >= len(a):
			changes = append(changes, Change{Op: OpAdd, Path: childPath, New: render(b[i])})
		default:
			changes = append(changes, compareValues(childPath, a[i], b[i])...)
		}
	}
	return changes
}

// equal is deep value equality with numeric types normalized first, since
// the YAML codec and the API server disagree on integer widths.
func equal(a, b any) bool {
	return cmp.Equal(normalize(a), normalize(b))
}

func normalize(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, item := range typed {
			out[k] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalize(item)
		}
		return out
	case int:
		return int64(typed)
	case int32:
		return int64(typed)
	case float32:
		return float64(typed)
	case float64:
		if typed == float64(int64(typed)) {
			return int64(typed)
		}
		return typed
	default:
		return v
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
