package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/kubebridge/kubebridge/pkg/command"
	"github.com/kubebridge/kubebridge/pkg/controlplane"
)

// PollResponse scripts one NextCommand reply: a command, a transport error,
// or neither for a clean no-command long-poll timeout.
type PollResponse struct {
	Cmd *command.Command
	Err error
}

// SubmittedResult captures one SubmitResult call. CtxErr is the context's
// error at submission time, so tests can tell whether the report went out
// on a live context.
type SubmittedResult struct {
	AgentID   string
	CommandID string
	Result    *command.Result
	CtxErr    error
}

// MockTransport scripts the control plane for agent-loop tests. It
// implements agent.Transport.
type MockTransport struct {
	mu sync.Mutex

	// FailRegistrations makes the first N Register calls fail.
	FailRegistrations int

	// AgentID and ConnectionID are returned once registration succeeds.
	AgentID      string
	ConnectionID string

	// RegisterCalls counts Register attempts.
	RegisterCalls int

	// Polls are replayed in order by NextCommand. When exhausted, OnDrained
	// runs once and further polls report no command.
	Polls     []PollResponse
	pollIndex int
	pollTimes []time.Time

	// OnDrained typically cancels the test context to stop the loop.
	OnDrained func()
	drained   bool

	// SubmitErr, when set, fails every SubmitResult.
	SubmitErr error

	// Submitted records every result submission in order.
	Submitted []SubmittedResult
}

func (t *MockTransport) Register(_ context.Context, _ controlplane.RegisterRequest) (*controlplane.RegisterResponse, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.RegisterCalls++
	if t.FailRegistrations > 0 {
		t.FailRegistrations--
		return nil, errRegistrationRefused
	}
	return &controlplane.RegisterResponse{
		AgentID:      t.AgentID,
		ConnectionID: t.ConnectionID,
	}, nil
}

func (t *MockTransport) NextCommand(_ context.Context, _ string) (*command.Command, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pollTimes = append(t.pollTimes, time.Now())
	if t.pollIndex >= len(t.Polls) {
		if !t.drained {
			t.drained = true
			if t.OnDrained != nil {
				t.OnDrained()
			}
		}
		return nil, nil
	}
	resp := t.Polls[t.pollIndex]
	t.pollIndex++
	return resp.Cmd, resp.Err
}

func (t *MockTransport) SubmitResult(ctx context.Context, agentID, commandID string, res *command.Result) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.SubmitErr != nil {
		return t.SubmitErr
	}
	t.Submitted = append(t.Submitted, SubmittedResult{
		AgentID:   agentID,
		CommandID: commandID,
		Result:    res,
		CtxErr:    ctx.Err(),
	})
	return nil
}

// PollTimes returns a copy of the NextCommand call timestamps.
func (t *MockTransport) PollTimes() []time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]time.Time, len(t.pollTimes))
	copy(out, t.pollTimes)
	return out
}

// SubmittedResults returns a copy of the recorded submissions.
func (t *MockTransport) SubmittedResults() []SubmittedResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]SubmittedResult, len(t.Submitted))
	copy(out, t.Submitted)
	return out
}
