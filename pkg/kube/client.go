package kube

import (
	"context"
	"encoding/json"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

type clusterProvider struct {
	dyn  dynamic.Interface
	core kubernetes.Interface
}

var _ Provider = (*clusterProvider)(nil)

// NewProvider builds a Provider backed by the cluster the given rest config
// points at.
func NewProvider(cfg *rest.Config) (Provider, error) {
	dyn, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("building dynamic client: %w", err)
	}
	core, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("building clientset: %w", err)
	}
	return &clusterProvider{dyn: dyn, core: core}, nil
}

func (p *clusterProvider) Namespaces(ctx context.Context) ([]string, error) {
	list, err := p.core.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing namespaces: %w", err)
	}
	names := make([]string, 0, len(list.Items))
	for _, ns := range list.Items {
		names = append(names, ns.Name)
	}
	return names, nil
}

func (p *clusterProvider) ListKind(ctx context.Context, kind Kind, namespace string) ([]Reference, error) {
	list, err := p.dyn.Resource(kind.GroupVersionResource()).Namespace(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing %s in %s: %w", kind.Name, namespace, err)
	}
	refs := make([]Reference, 0, len(list.Items))
	for _, item := range list.Items {
		refs = append(refs, Reference{
			Kind:       kind.Name,
			APIVersion: kind.APIVersion,
			Name:       item.GetName(),
			Namespace:  item.GetNamespace(),
		})
	}
	return refs, nil
}

func (p *clusterProvider) Get(ctx context.Context, kind Kind, namespace, name string) (map[string]any, error) {
	obj, err := p.dyn.Resource(kind.GroupVersionResource()).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("%s %s/%s: %w", kind.Name, namespace, name, ErrNotFound)
		}
		return nil, fmt.Errorf("getting %s %s/%s: %w", kind.Name, namespace, name, err)
	}
	return obj.Object, nil
}

func (p *clusterProvider) Create(ctx context.Context, kind Kind, namespace string, doc map[string]any, dryRun bool) error {
	opts := metav1.CreateOptions{}
	if dryRun {
		opts.DryRun = []string{metav1.DryRunAll}
	}
	_, err := p.dyn.Resource(kind.GroupVersionResource()).Namespace(namespace).
		Create(ctx, &unstructured.Unstructured{Object: doc}, opts)
	if err != nil {
		return fmt.Errorf("creating %s: %w", kind.Name, err)
	}
	return nil
}

func (p *clusterProvider) Patch(ctx context.Context, kind Kind, namespace, name string, doc map[string]any, dryRun bool) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding patch for %s %s/%s: %w", kind.Name, namespace, name, err)
	}
	opts := metav1.PatchOptions{}
	if dryRun {
		opts.DryRun = []string{metav1.DryRunAll}
	}
	_, err = p.dyn.Resource(kind.GroupVersionResource()).Namespace(namespace).
		Patch(ctx, name, types.MergePatchType, data, opts)
	if err != nil {
		return fmt.Errorf("patching %s %s/%s: %w", kind.Name, namespace, name, err)
	}
	return nil
}

func (p *clusterProvider) Pods(ctx context.Context, namespace string, limit int64) ([]string, error) {
	list, err := p.core.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("listing pods in %s: %w", namespace, err)
	}
	names := make([]string, 0, len(list.Items))
	for _, pod := range list.Items {
		names = append(names, pod.Name)
	}
	return names, nil
}

func (p *clusterProvider) PodLogs(ctx context.Context, namespace, pod string, tailLines int64) (string, error) {
	raw, err := p.core.CoreV1().Pods(namespace).
		GetLogs(pod, &corev1.PodLogOptions{TailLines: &tailLines}).
		Do(ctx).Raw()
	if err != nil {
		return "", fmt.Errorf("reading logs of %s/%s: %w", namespace, pod, err)
	}
	return string(raw), nil
}

func (p *clusterProvider) ServerVersion() (string, error) {
	info, err := p.core.Discovery().ServerVersion()
	if err != nil {
		return "", fmt.Errorf("probing server version: %w", err)
	}
	return info.GitVersion, nil
}
