// Package agent owns the control loop: register once, then fetch-execute-
// report until shutdown.
package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v5"

	"github.com/kubebridge/kubebridge/pkg/command"
	"github.com/kubebridge/kubebridge/pkg/controlplane"
	"github.com/kubebridge/kubebridge/pkg/metrics"
)

const (
	defaultRegisterRetryDelay = 5 * time.Second
	defaultPollBackoff        = 3 * time.Second
)

// Transport is the agent's view of the control plane.
type Transport interface {
	Register(ctx context.Context, req controlplane.RegisterRequest) (*controlplane.RegisterResponse, error)
	NextCommand(ctx context.Context, agentID string) (*command.Command, error)
	SubmitResult(ctx context.Context, agentID, commandID string, res *command.Result) error
}

// Dispatcher executes one command and always yields its terminal result.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd *command.Command) *command.Result
}

type Options struct {
	Logger     *slog.Logger
	Transport  Transport
	Dispatcher Dispatcher
	Metrics    *metrics.Metrics

	Token          string
	ClusterName    string
	ClusterVersion string

	// RegisterRetryDelay is the fixed wait between registration attempts.
	RegisterRetryDelay time.Duration
	// PollBackoff is the fixed wait after a poll transport failure. A clean
	// no-command response incurs no wait.
	PollBackoff time.Duration
}

// Agent is constructed once at startup and owns all loop state: the
// control-plane identity after registration and nothing else.
type Agent struct {
	logger     *slog.Logger
	transport  Transport
	dispatcher Dispatcher
	metrics    *metrics.Metrics

	token          string
	clusterName    string
	clusterVersion string

	registerRetryDelay time.Duration
	pollBackoff        time.Duration

	// assigned at registration, immutable for the process lifetime
	agentID      string
	connectionID string
}

func New(opts Options) *Agent {
	if opts.RegisterRetryDelay <= 0 {
		opts.RegisterRetryDelay = defaultRegisterRetryDelay
	}
	if opts.PollBackoff <= 0 {
		opts.PollBackoff = defaultPollBackoff
	}
	return &Agent{
		logger:             opts.Logger,
		transport:          opts.Transport,
		dispatcher:         opts.Dispatcher,
		metrics:            opts.Metrics,
		token:              opts.Token,
		clusterName:        opts.ClusterName,
		clusterVersion:     opts.ClusterVersion,
		registerRetryDelay: opts.RegisterRetryDelay,
		pollBackoff:        opts.PollBackoff,
	}
}

// AgentID returns the control-plane identity, empty before registration.
func (a *Agent) AgentID() string {
	return a.agentID
}

// Run drives the agent until ctx is cancelled. It returns nil on a clean
// shutdown; registration failures are retried forever, so the only way out
// of Run is cancellation.
func (a *Agent) Run(ctx context.Context) error {
	if err := a.register(ctx); err != nil {
		if ctx.Err() != nil {
			// shutdown arrived while still unregistered
			return nil
		}
		return err
	}
	a.loop(ctx)
	return nil
}

// register retries at a fixed delay until the control plane accepts the
// agent. Registration failure is never fatal, only deferred.
func (a *Agent) register(ctx context.Context) error {
	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(a.registerRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	return r.Do(func() error {
		a.metrics.RegistrationAttempts.Inc()
		resp, err := a.transport.Register(ctx, controlplane.RegisterRequest{
			Token:          a.token,
			ClusterName:    a.clusterName,
			ClusterVersion: a.clusterVersion,
		})
		if err != nil {
			a.logger.With("err", err).Warn("registration failed, will retry")
			return err
		}
		a.agentID = resp.AgentID
		a.connectionID = resp.ConnectionID
		a.logger.With("agentID", a.agentID).With("connectionID", a.connectionID).
			Info("registered with control plane")
		return nil
	})
}

// loop is the poll-execute-report cycle. Cancellation is only checked at the
// top of each iteration and during the poll; once a command is in hand it
// executes and reports on a non-cancellable context, so shutdown never
// interrupts in-flight work or loses its result.
func (a *Agent) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("control loop stopping")
			return
		default:
		}

		a.metrics.Polls.Inc()
		cmd, err := a.transport.NextCommand(ctx, a.agentID)
		if err != nil {
			if ctx.Err() != nil {
				a.logger.Info("control loop stopping")
				return
			}
			a.metrics.PollErrors.Inc()
			a.logger.With("err", err).Warn("command poll failed")
			a.sleep(ctx, a.pollBackoff)
			continue
		}
		if cmd == nil {
			// clean long-poll timeout, poll again immediately
			continue
		}

		inner := context.WithoutCancel(ctx)
		res := a.execute(inner, cmd)
		a.metrics.Commands.WithLabelValues(string(cmd.Type), string(res.Status)).Inc()

		if err := a.transport.SubmitResult(inner, a.agentID, cmd.ID, res); err != nil {
			// best effort: the result is lost, the loop carries on
			a.metrics.ReportFailures.Inc()
			a.logger.With("err", err).With("commandID", cmd.ID).
				Error("failed to submit command result")
		}
	}
}

// execute shields the loop from the dispatcher: a panic during dispatch
// becomes a failed result instead of taking the agent down.
func (a *Agent) execute(ctx context.Context, cmd *command.Command) (res *command.Result) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.With("panic", r).Error("command execution panicked")
			res = command.Failedf("command execution panicked: %v", r)
		}
	}()
	res = a.dispatcher.Dispatch(ctx, cmd)
	if res == nil {
		res = command.Failedf("dispatcher produced no result")
	}
	return res
}

func (a *Agent) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
