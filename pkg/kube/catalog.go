package kube

import (
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Kind identifies one entry of the fixed resource-kind catalog the agent
// knows how to enumerate and apply.
type Kind struct {
	// Name is the canonical Kubernetes kind, e.g. "Deployment".
	Name string
	// APIVersion is the group/version string reported alongside the kind.
	APIVersion string
	// Resource is the plural resource name used by the dynamic client.
	Resource string
}

// GroupVersionResource resolves the dynamic-client coordinates for the kind.
func (k Kind) GroupVersionResource() schema.GroupVersionResource {
	gv, err := schema.ParseGroupVersion(k.APIVersion)
	if err != nil {
		// catalog entries are static; a bad APIVersion is a programming error
		panic(err)
	}
	return gv.WithResource(k.Resource)
}

// Catalog is the fixed set of resource kinds covered by list_resources and
// apply_manifest. Order is the enumeration order reported upstream.
var Catalog = []Kind{
	{Name: "Deployment", APIVersion: "apps/v1", Resource: "deployments"},
	{Name: "StatefulSet", APIVersion: "apps/v1", Resource: "statefulsets"},
	{Name: "DaemonSet", APIVersion: "apps/v1", Resource: "daemonsets"},
	{Name: "Service", APIVersion: "v1", Resource: "services"},
	{Name: "ConfigMap", APIVersion: "v1", Resource: "configmaps"},
	{Name: "Secret", APIVersion: "v1", Resource: "secrets"},
	{Name: "Ingress", APIVersion: "networking.k8s.io/v1", Resource: "ingresses"},
	{Name: "CronJob", APIVersion: "batch/v1", Resource: "cronjobs"},
	{Name: "Job", APIVersion: "batch/v1", Resource: "jobs"},
	{Name: "HorizontalPodAutoscaler", APIVersion: "autoscaling/v2", Resource: "horizontalpodautoscalers"},
	{Name: "PersistentVolumeClaim", APIVersion: "v1", Resource: "persistentvolumeclaims"},
}

// LookupKind finds a catalog entry by its canonical kind name.
func LookupKind(name string) (Kind, bool) {
	for _, k := range Catalog {
		if k.Name == name {
			return k, true
		}
	}
	return Kind{}, false
}
