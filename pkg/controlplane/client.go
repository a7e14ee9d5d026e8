// Package controlplane is the agent's HTTP client for the remote control
// plane: registration, long-poll command fetch, and result submission.
// The wire format is JSON over POST.
package controlplane

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kubebridge/kubebridge/pkg/command"
	"github.com/kubebridge/kubebridge/pkg/util"
)

type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// New builds a client for the control plane at baseURL. No client-side
// timeout is set; the control plane bounds long-poll wait time itself.
func New(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   http.DefaultClient,
		logger:  logger,
	}
}

type RegisterRequest struct {
	Token          string `json:"token"`
	ClusterName    string `json:"clusterName"`
	ClusterVersion string `json:"clusterVersion,omitempty"`
}

type RegisterResponse struct {
	AgentID      string `json:"agentId"`
	ConnectionID string `json:"connectionId"`
}

// Register announces the agent and returns its control-plane identity.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.post(ctx, "/api/v1/agents/register", req, &resp); err != nil {
		return nil, err
	}
	if resp.AgentID == "" {
		return nil, fmt.Errorf("control plane returned no agent id")
	}
	return &resp, nil
}

type nextCommandResponse struct {
	Command *command.Command `json:"command"`
}

// NextCommand long-polls for the next unit of work. A nil command with a nil
// error means the poll timed out cleanly with no work available.
func (c *Client) NextCommand(ctx context.Context, agentID string) (*command.Command, error) {
	var resp nextCommandResponse
	path := fmt.Sprintf("/api/v1/agents/%s/commands/next", agentID)
	if err := c.post(ctx, path, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return resp.Command, nil
}

// SubmitResult reports one command's terminal result. The control plane's
// response body carries nothing the agent needs.
func (c *Client) SubmitResult(ctx context.Context, agentID, commandID string, res *command.Result) error {
	path := fmt.Sprintf("/api/v1/agents/%s/commands/%s/result", agentID, commandID)
	return c.post(ctx, path, res, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", util.NewUUID())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("control plane request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading control plane response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("control plane returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding control plane response: %w", err)
	}
	return nil
}
