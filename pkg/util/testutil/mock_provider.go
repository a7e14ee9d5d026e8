package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/kubebridge/kubebridge/pkg/kube"
)

// MockProvider simulates the cluster side of the agent without an API
// server. It implements kube.Provider for use in tests.
type MockProvider struct {
	mu sync.Mutex

	// NamespaceNames is returned by Namespaces.
	NamespaceNames []string

	// NamespacesErr, when set, fails Namespaces.
	NamespacesErr error

	// ResourcesByKind maps a kind name to the references ListKind returns.
	ResourcesByKind map[string][]kube.Reference

	// ListErrByKind fails ListKind for specific kinds.
	ListErrByKind map[string]error

	// Live holds the documents Get serves, keyed kind/namespace/name.
	// Missing keys are reported as kube.ErrNotFound.
	Live map[string]map[string]any

	// GetErr, when set, fails every Get regardless of Live.
	GetErr error

	// CreateErr and PatchErr fail the respective writes.
	CreateErr error
	PatchErr  error

	// Created and Patched record every write in call order.
	Created []WriteRecord
	Patched []WriteRecord

	// PodNames is returned by Pods.
	PodNames []string

	// PodsErr, when set, fails Pods.
	PodsErr error

	// LogsByPod serves PodLogs; pods absent from the map fail.
	LogsByPod map[string]string

	// Version is returned by ServerVersion.
	Version string
}

// WriteRecord captures one Create or Patch call.
type WriteRecord struct {
	Kind      string
	Namespace string
	Name      string
	Doc       map[string]any
	DryRun    bool
}

var _ kube.Provider = (*MockProvider)(nil)

// NewMockProvider creates an empty MockProvider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		ResourcesByKind: map[string][]kube.Reference{},
		ListErrByKind:   map[string]error{},
		Live:            map[string]map[string]any{},
		LogsByPod:       map[string]string{},
	}
}

// LiveKey builds the key Live is indexed by.
func LiveKey(kind, namespace, name string) string {
	return kind + "/" + namespace + "/" + name
}

func (m *MockProvider) Namespaces(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.NamespacesErr != nil {
		return nil, m.NamespacesErr
	}
	return m.NamespaceNames, nil
}

func (m *MockProvider) ListKind(_ context.Context, kind kube.Kind, _ string) ([]kube.Reference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ListErrByKind[kind.Name]; err != nil {
		return nil, err
	}
	return m.ResourcesByKind[kind.Name], nil
}

func (m *MockProvider) Get(_ context.Context, kind kube.Kind, namespace, name string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	doc, ok := m.Live[LiveKey(kind.Name, namespace, name)]
	if !ok {
		return nil, fmt.Errorf("%s %s/%s: %w", kind.Name, namespace, name, kube.ErrNotFound)
	}
	return doc, nil
}

func (m *MockProvider) Create(_ context.Context, kind kube.Kind, namespace string, doc map[string]any, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = append(m.Created, WriteRecord{
		Kind:      kind.Name,
		Namespace: namespace,
		Doc:       doc,
		DryRun:    dryRun,
	})
	return nil
}

func (m *MockProvider) Patch(_ context.Context, kind kube.Kind, namespace, name string, doc map[string]any, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PatchErr != nil {
		return m.PatchErr
	}
	m.Patched = append(m.Patched, WriteRecord{
		Kind:      kind.Name,
		Namespace: namespace,
		Name:      name,
		Doc:       doc,
		DryRun:    dryRun,
	})
	return nil
}

func (m *MockProvider) Pods(_ context.Context, _ string, limit int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PodsErr != nil {
		return nil, m.PodsErr
	}
	if int64(len(m.PodNames)) > limit {
		return m.PodNames[:limit], nil
	}
	return m.PodNames, nil
}

func (m *MockProvider) PodLogs(_ context.Context, namespace, pod string, _ int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	logs, ok := m.LogsByPod[pod]
	if !ok {
		return "", fmt.Errorf("logs unavailable for %s/%s", namespace, pod)
	}
	return logs, nil
}

func (m *MockProvider) ServerVersion() (string, error) {
	return m.Version, nil
}
