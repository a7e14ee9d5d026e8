package diff_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubebridge/kubebridge/pkg/diff"
)

func deployment(replicas any) map[string]any {
	return map[string]any{
		"apiVersion": "apps/v1",
		"kind":       "Deployment",
		"metadata": map[string]any{
			"name":      "web",
			"namespace": "default",
		},
		"spec": map[string]any{
			"replicas": replicas,
			"template": map[string]any{
				"spec": map[string]any{
					"containers": []any{
						map[string]any{"name": "web", "image": "nginx:1.25"},
					},
				},
			},
		},
	}
}

func TestCompare_IdenticalDocuments(t *testing.T) {
	doc := deployment(3)
	assert.Empty(t, diff.Compare(doc, doc))
}

func TestCompare_SingleScalarChange(t *testing.T) {
	changes := diff.Compare(deployment(2), deployment(3))

	require.Len(t, changes, 1)
	assert.Equal(t, diff.OpModify, changes[0].Op)
	assert.Equal(t, "spec.replicas", changes[0].Path)
	assert.Equal(t, "2", changes[0].Old)
	assert.Equal(t, "3", changes[0].New)
}

func TestCompare_NumericWidthsAreEqual(t *testing.T) {
	// yaml decodes ints, the API server hands back int64 or float64
	assert.Empty(t, diff.Compare(deployment(int64(3)), deployment(3)))
	assert.Empty(t, diff.Compare(deployment(float64(3)), deployment(3)))
}

func TestCompare_AddedAndRemovedKeys(t *testing.T) {
	live := map[string]any{"a": 1, "gone": "x"}
	desired := map[string]any{"a": 1, "fresh": "y"}

	changes := diff.Compare(live, desired)
	require.Len(t, changes, 2)

	// union keys are visited in sorted order
	assert.Equal(t, diff.OpAdd, changes[0].Op)
	assert.Equal(t, "fresh", changes[0].Path)
	assert.Equal(t, "y", changes[0].New)

	assert.Equal(t, diff.OpRemove, changes[1].Op)
	assert.Equal(t, "gone", changes[1].Path)
	assert.Equal(t, "x", changes[1].Old)
}

func TestCompare_SequencesPositionally(t *testing.T) {
	live := map[string]any{"ports": []any{80, 443}}
	desired := map[string]any{"ports": []any{80, 8443, 9090}}

	changes := diff.Compare(live, desired)
	require.Len(t, changes, 2)

	assert.Equal(t, diff.OpModify, changes[0].Op)
	assert.Equal(t, "ports[1]", changes[0].Path)

	assert.Equal(t, diff.OpAdd, changes[1].Op)
	assert.Equal(t, "ports[2]", changes[1].Path)
}

func TestCompare_SequenceShrinks(t *testing.T) {
	live := map[string]any{"args": []any{"a", "b"}}
	desired := map[string]any{"args": []any{"a"}}

	changes := diff.Compare(live, desired)
	require.Len(t, changes, 1)
	assert.Equal(t, diff.OpRemove, changes[0].Op)
	assert.Equal(t, "args[1]", changes[0].Path)
}

func TestCompare_TypeMismatchIsOneModify(t *testing.T) {
	live := map[string]any{"value": map[string]any{"nested": true}}
	desired := map[string]any{"value": "flat"}

	changes := diff.Compare(live, desired)
	require.Len(t, changes, 1)
	assert.Equal(t, diff.OpModify, changes[0].Op)
	assert.Equal(t, "value", changes[0].Path)
}

func TestCompare_LongStringTruncated(t *testing.T) {
	long := strings.Repeat("x", 200)
	changes := diff.Compare(map[string]any{"v": "short"}, map[string]any{"v": long})

	require.Len(t, changes, 1)
	assert.True(t, strings.HasSuffix(changes[0].New, "..."))
	assert.LessOrEqual(t, len(changes[0].New), 83)
}

func TestCompare_TruncationKeepsValidUTF8(t *testing.T) {
	// a multi-byte rune straddling the cut point must not be split
	long := strings.Repeat("a", 79) + strings.Repeat("日本語", 20)
	changes := diff.Compare(map[string]any{"v": "short"}, map[string]any{"v": long})

	require.Len(t, changes, 1)
	assert.True(t, strings.HasSuffix(changes[0].New, "..."))
	assert.True(t, utf8.ValidString(changes[0].New))
}

func TestCompare_WideCollectionCollapsesToCount(t *testing.T) {
	wide := map[string]any{}
	for _, k := range []string{"aaaaaaaaaa", "bbbbbbbbbb", "cccccccccc", "dddddddddd", "eeeeeeeeee", "ffffffffff", "gggggggggg", "hhhhhhhhhh"} {
		wide[k] = strings.Repeat(k, 3)
	}
	changes := diff.Compare(map[string]any{"v": "scalar"}, map[string]any{"v": wide})

	require.Len(t, changes, 1)
	assert.Equal(t, "{8 fields}", changes[0].New)
}

func TestCompare_EmptyCollectionsRenderAsMarkers(t *testing.T) {
	changes := diff.Compare(
		map[string]any{"m": "x", "s": "y"},
		map[string]any{"m": map[string]any{}, "s": []any{}},
	)

	require.Len(t, changes, 2)
	assert.Equal(t, "{}", changes[0].New)
	assert.Equal(t, "[]", changes[1].New)
}

func TestChangeString(t *testing.T) {
	cases := []struct {
		name   string
		change diff.Change
		want   string
	}{
		{"add", diff.Change{Op: diff.OpAdd, Path: "metadata.name", New: "web"}, "+ metadata.name: web"},
		{"remove", diff.Change{Op: diff.OpRemove, Path: "spec.paused", Old: "true"}, "- spec.paused: true"},
		{"modify", diff.Change{Op: diff.OpModify, Path: "spec.replicas", Old: "2", New: "3"}, "~ spec.replicas: 2 -> 3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.change.String())
		})
	}
}
