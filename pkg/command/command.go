// Package command defines the wire types exchanged with the control plane:
// inbound commands, their per-type payloads, and the single terminal result
// every command produces.
package command

import (
	"encoding/json"
	"fmt"
)

// Type selects the operation a command runs. The set is closed; anything
// else is answered with a failed result.
type Type string

const (
	TypeListNamespaces Type = "list_namespaces"
	TypeListResources  Type = "list_resources"
	TypeGetManifests   Type = "get_manifests"
	TypeApplyManifest  Type = "apply_manifest"
	TypeGetLogs        Type = "get_logs"
)

// Command is one unit of work handed down by the control plane. ID is opaque
// and only used to correlate the result.
type Command struct {
	ID      string          `json:"id"`
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Result is the terminal outcome of a command. Exactly one is produced per
// command; partial failures live inside Result, not in Error.
type Result struct {
	Status Status `json:"status"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func Completed(result any) *Result {
	return &Result{Status: StatusCompleted, Result: result}
}

func Failed(err error) *Result {
	return &Result{Status: StatusFailed, Error: err.Error()}
}

func Failedf(format string, args ...any) *Result {
	return &Result{Status: StatusFailed, Error: fmt.Sprintf(format, args...)}
}
