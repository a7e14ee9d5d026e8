// Package dispatch maps inbound commands to their operations. Every
// Dispatch call yields exactly one result; per-item failures inside an
// operation are folded into the result payload, never escalated.
package dispatch

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"github.com/kubebridge/kubebridge/pkg/command"
	"github.com/kubebridge/kubebridge/pkg/kube"
	"github.com/kubebridge/kubebridge/pkg/logutil"
	"github.com/kubebridge/kubebridge/pkg/reconcile"
)

type Dispatcher struct {
	provider   kube.Provider
	reconciler *reconcile.Reconciler
	logger     *slog.Logger
}

func New(provider kube.Provider, reconciler *reconcile.Reconciler, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		provider:   provider,
		reconciler: reconciler,
		logger:     logger,
	}
}

// Dispatch runs one command and returns its terminal result. Unknown types
// yield a failed result without side effects.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd *command.Command) *command.Result {
	logger := logutil.WithCommand(d.logger, string(cmd.Type)).With("id", cmd.ID)
	logger.Info("executing command")
	ctx = logutil.WithContext(ctx, logger)

	var res *command.Result
	switch cmd.Type {
	case command.TypeListNamespaces:
		res = d.listNamespaces(ctx)
	case command.TypeListResources:
		res = d.listResources(ctx, cmd)
	case command.TypeGetManifests:
		res = d.getManifests(ctx, cmd)
	case command.TypeApplyManifest:
		res = d.applyManifest(ctx, cmd)
	case command.TypeGetLogs:
		res = d.getLogs(ctx, cmd)
	default:
		res = command.Failedf("unknown command type %q", cmd.Type)
	}

	logger.With("status", string(res.Status)).Info("command finished")
	return res
}

func (d *Dispatcher) listNamespaces(ctx context.Context) *command.Result {
	names, err := d.provider.Namespaces(ctx)
	if err != nil {
		return command.Failed(err)
	}
	names = lo.Filter(names, func(name string, _ int) bool { return name != "" })
	return command.Completed(map[string]any{"namespaces": names})
}

func (d *Dispatcher) applyManifest(ctx context.Context, cmd *command.Command) *command.Result {
	payload, err := command.DecodePayload[command.ApplyManifestPayload](cmd)
	if err != nil {
		return command.Failed(err)
	}
	if payload.Namespace == "" {
		return command.Failedf("apply_manifest requires a namespace")
	}
	result := d.reconciler.Apply(ctx, payload.Namespace, payload.Manifests, payload.DryRun)
	return command.Completed(result)
}
