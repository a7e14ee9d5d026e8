package kube_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubebridge/kubebridge/pkg/kube"
)

func TestLookupKind(t *testing.T) {
	kind, ok := kube.LookupKind("Deployment")
	require.True(t, ok)
	assert.Equal(t, "apps/v1", kind.APIVersion)
	assert.Equal(t, "deployments", kind.Resource)

	_, ok = kube.LookupKind("deployment")
	assert.False(t, ok, "lookup is case-sensitive on the canonical name")

	_, ok = kube.LookupKind("Gateway")
	assert.False(t, ok)
}

func TestGroupVersionResource(t *testing.T) {
	cases := []struct {
		kind     string
		group    string
		version  string
		resource string
	}{
		{"Deployment", "apps", "v1", "deployments"},
		{"Service", "", "v1", "services"},
		{"Ingress", "networking.k8s.io", "v1", "ingresses"},
		{"HorizontalPodAutoscaler", "autoscaling", "v2", "horizontalpodautoscalers"},
		{"CronJob", "batch", "v1", "cronjobs"},
	}
	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			kind, ok := kube.LookupKind(tc.kind)
			require.True(t, ok)
			gvr := kind.GroupVersionResource()
			assert.Equal(t, tc.group, gvr.Group)
			assert.Equal(t, tc.version, gvr.Version)
			assert.Equal(t, tc.resource, gvr.Resource)
		})
	}
}

func TestCatalogCoversWorkloadsAndConfig(t *testing.T) {
	assert.Len(t, kube.Catalog, 11)
	for _, k := range kube.Catalog {
		assert.NotEmpty(t, k.Name)
		assert.NotEmpty(t, k.APIVersion)
		assert.NotEmpty(t, k.Resource)
	}
}
