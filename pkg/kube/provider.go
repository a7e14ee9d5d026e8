// Package kube gives the rest of the agent typed CRUD access to cluster
// resources. The Provider interface is what the dispatcher and reconciler
// program against; the client-go backed implementation lives in client.go.
package kube

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the resource does not exist in the
// cluster. The reconciler branches on it to choose create over patch.
var ErrNotFound = errors.New("resource not found")

// Reference locates one cluster resource. It never carries the resource body.
type Reference struct {
	Kind       string `json:"kind"`
	APIVersion string `json:"apiVersion"`
	Name       string `json:"name"`
	Namespace  string `json:"namespace"`
}

// Provider is the agent's view of the Kubernetes API: kind-keyed CRUD plus
// the handful of pod-level reads the log command needs.
type Provider interface {
	// Namespaces returns the names of all namespaces in the cluster.
	Namespaces(ctx context.Context) ([]string, error)

	// ListKind enumerates all resources of one catalog kind in a namespace.
	ListKind(ctx context.Context, kind Kind, namespace string) ([]Reference, error)

	// Get fetches the live document for one resource. A missing resource is
	// reported as ErrNotFound.
	Get(ctx context.Context, kind Kind, namespace, name string) (map[string]any, error)

	// Create stores a new resource. With dryRun set the API server validates
	// and admits the request without persisting it.
	Create(ctx context.Context, kind Kind, namespace string, doc map[string]any, dryRun bool) error

	// Patch merge-patches an existing resource with the given document.
	Patch(ctx context.Context, kind Kind, namespace, name string, doc map[string]any, dryRun bool) error

	// Pods lists up to limit pod names in a namespace.
	Pods(ctx context.Context, namespace string, limit int64) ([]string, error)

	// PodLogs returns the trailing tailLines of one pod's log.
	PodLogs(ctx context.Context, namespace, pod string, tailLines int64) (string, error)

	// ServerVersion reports the API server's version string, best effort.
	ServerVersion() (string, error)
}
