package kube

import (
	"errors"
	"fmt"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// NewDefaultConfig loads the in-cluster service-account config when the agent
// runs inside a pod, falling back to the SDK's default kubeconfig loading
// rules (`$KUBECONFIG`, `~/.kube/config`) for local runs.
func NewDefaultConfig() (*rest.Config, error) {
	config, err := rest.InClusterConfig()
	if err == nil {
		return config, nil
	}
	if !errors.Is(err, rest.ErrNotInCluster) {
		return nil, fmt.Errorf("loading in-cluster config: %w", err)
	}

	loadrules := clientcmd.NewDefaultClientConfigLoadingRules()
	overrides := clientcmd.ConfigOverrides{}
	configLoader := clientcmd.
		NewNonInteractiveDeferredLoadingClientConfig(loadrules, &overrides)
	config, err = configLoader.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("could not load kubeconfig with default loader: %w", err)
	}
	return config, nil
}
