package command

import (
	"encoding/json"
	"fmt"
)

// ResourceSelector names one resource inside a get_manifests request.
type ResourceSelector struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

type ListResourcesPayload struct {
	Namespace string `json:"namespace"`
}

type GetManifestsPayload struct {
	Namespace string             `json:"namespace"`
	Resources []ResourceSelector `json:"resources"`
}

type ApplyManifestPayload struct {
	Namespace string   `json:"namespace"`
	Manifests []string `json:"manifests"`
	DryRun    bool     `json:"dryRun,omitempty"`
}

type GetLogsPayload struct {
	Namespace string `json:"namespace"`
	PodName   string `json:"podName,omitempty"`
	Search    string `json:"search,omitempty"`
	TailLines int64  `json:"tailLines,omitempty"`
}

// DecodePayload unmarshals a command payload into the given shape.
func DecodePayload[T any](cmd *Command) (T, error) {
	var payload T
	if len(cmd.Payload) == 0 {
		return payload, fmt.Errorf("command %s has no payload", cmd.ID)
	}
	if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
		return payload, fmt.Errorf("malformed %s payload: %w", cmd.Type, err)
	}
	return payload, nil
}
