package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubebridge/kubebridge/pkg/manifest"
)

func liveDeployment() manifest.Document {
	return manifest.Document{
		"apiVersion": "apps/v1",
		"kind":       "Deployment",
		"metadata": map[string]any{
			"name":              "web",
			"namespace":         "default",
			"uid":               "4f2a",
			"resourceVersion":   "8812",
			"generation":        7,
			"creationTimestamp": "2026-01-12T08:00:00Z",
			"selfLink":          "/apis/apps/v1/namespaces/default/deployments/web",
			"managedFields":     []any{map[string]any{"manager": "kube-controller-manager"}},
			"annotations": map[string]any{
				"kubectl.kubernetes.io/last-applied-configuration": "{...}",
				"deployment.kubernetes.io/revision":                "4",
				"team": "platform",
			},
			"labels": map[string]any{},
		},
		"spec": map[string]any{
			"replicas": 3,
		},
		"status": map[string]any{
			"readyReplicas": 3,
		},
	}
}

func TestClean_StripsServerManagedFields(t *testing.T) {
	cleaned := manifest.Clean(liveDeployment())

	assert.NotContains(t, cleaned, "status")

	md, ok := cleaned["metadata"].(map[string]any)
	require.True(t, ok)
	for _, field := range []string{"uid", "resourceVersion", "generation", "creationTimestamp", "selfLink", "managedFields"} {
		assert.NotContains(t, md, field)
	}

	// the user annotation survives, injected ones do not
	annotations, ok := md["annotations"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"team": "platform"}, annotations)

	// the empty label map is dropped entirely
	assert.NotContains(t, md, "labels")
}

func TestClean_DropsEmptiedAnnotationMap(t *testing.T) {
	doc := manifest.Document{
		"kind": "Service",
		"metadata": map[string]any{
			"name": "svc",
			"annotations": map[string]any{
				"kubectl.kubernetes.io/last-applied-configuration": "{...}",
			},
		},
	}

	md := manifest.Clean(doc)["metadata"].(map[string]any)
	assert.NotContains(t, md, "annotations")
}

func TestClean_Idempotent(t *testing.T) {
	once := manifest.Clean(liveDeployment())
	twice := manifest.Clean(once)
	assert.Equal(t, once, twice)
}

func TestClean_DoesNotMutateInput(t *testing.T) {
	doc := liveDeployment()
	_ = manifest.Clean(doc)

	assert.Contains(t, doc, "status")
	md := doc["metadata"].(map[string]any)
	assert.Contains(t, md, "uid")
	annotations := md["annotations"].(map[string]any)
	assert.Contains(t, annotations, "deployment.kubernetes.io/revision")
}

func TestRedact_SecretDataReplaced(t *testing.T) {
	doc := manifest.Document{
		"kind": "Secret",
		"metadata": map[string]any{
			"name": "db-creds",
		},
		"data": map[string]any{
			"password": "aHVudGVyMg==",
			"username": "YWRtaW4=",
		},
	}

	redacted := manifest.Redact(doc)
	data := redacted["data"].(map[string]any)
	assert.Equal(t, "**redacted**", data["password"])
	assert.Equal(t, "**redacted**", data["username"])

	// input stays untouched
	assert.Equal(t, "aHVudGVyMg==", doc["data"].(map[string]any)["password"])
}

func TestRedact_NonSecretUntouched(t *testing.T) {
	doc := manifest.Document{
		"kind": "ConfigMap",
		"data": map[string]any{"key": "value"},
	}
	assert.Equal(t, doc, manifest.Redact(doc))
}
