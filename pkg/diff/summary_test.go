package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubebridge/kubebridge/pkg/diff"
)

func TestSummarize_OneAddPerLeafField(t *testing.T) {
	doc := map[string]any{
		"apiVersion": "v1",
		"kind":       "ConfigMap",
		"metadata": map[string]any{
			"name":      "settings",
			"namespace": "tools",
		},
		"data": map[string]any{
			"retries": "3",
		},
	}

	changes := diff.Summarize(doc)
	require.Len(t, changes, 5)
	for _, c := range changes {
		assert.Equal(t, diff.OpAdd, c.Op)
	}

	paths := make([]string, len(changes))
	for i, c := range changes {
		paths[i] = c.Path
	}
	assert.Equal(t, []string{
		"apiVersion",
		"data.retries",
		"kind",
		"metadata.name",
		"metadata.namespace",
	}, paths)
}

func TestSummarize_DepthBoundCollapses(t *testing.T) {
	doc := map[string]any{
		"a": map[string]any{
			"b": map[string]any{
				"c": map[string]any{
					"d": map[string]any{
						"e": "leaf",
						"f": "leaf",
					},
				},
			},
		},
	}

	changes := diff.Summarize(doc)
	require.Len(t, changes, 1)
	assert.Equal(t, "a.b.c.d", changes[0].Path)
	assert.Equal(t, "{2 fields}", changes[0].New)
}

func TestSummarize_LongArrayAnnotatedAndFirstExpanded(t *testing.T) {
	doc := map[string]any{
		"containers": []any{
			map[string]any{"name": "web"},
			map[string]any{"name": "sidecar"},
			map[string]any{"name": "init"},
		},
	}

	changes := diff.Summarize(doc)
	require.Len(t, changes, 2)

	assert.Equal(t, "containers", changes[0].Path)
	assert.Equal(t, "[3 items]", changes[0].New)

	assert.Equal(t, "containers[0].name", changes[1].Path)
	assert.Equal(t, "web", changes[1].New)
}

func TestSummarize_SingleElementArrayNotAnnotated(t *testing.T) {
	doc := map[string]any{
		"args": []any{"serve"},
	}

	changes := diff.Summarize(doc)
	require.Len(t, changes, 1)
	assert.Equal(t, "args[0]", changes[0].Path)
	assert.Equal(t, "serve", changes[0].New)
}

func TestSummarize_EmptyCollections(t *testing.T) {
	doc := map[string]any{
		"labels": map[string]any{},
		"args":   []any{},
	}

	changes := diff.Summarize(doc)
	require.Len(t, changes, 2)
	assert.Equal(t, "[]", changes[0].New)
	assert.Equal(t, "{}", changes[1].New)
}
