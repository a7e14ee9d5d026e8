package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kubebridge/kubebridge/pkg/agent"
	"github.com/kubebridge/kubebridge/pkg/config"
	"github.com/kubebridge/kubebridge/pkg/controlplane"
	"github.com/kubebridge/kubebridge/pkg/dispatch"
	"github.com/kubebridge/kubebridge/pkg/kube"
	_ "github.com/kubebridge/kubebridge/pkg/logutil"
	"github.com/kubebridge/kubebridge/pkg/metrics"
	"github.com/kubebridge/kubebridge/pkg/reconcile"
	"github.com/kubebridge/kubebridge/pkg/util/contextutil"
)

func main() {
	logger := slog.Default()
	ctx := contextutil.SetupSignals(context.Background())

	cfg, err := config.Load()
	if err != nil {
		logger.With("err", err).Error("configuration error")
		os.Exit(1)
	}

	restCfg, err := kube.NewDefaultConfig()
	if err != nil {
		logger.With("err", err).Error("failed to load kubernetes config")
		os.Exit(1)
	}
	provider, err := kube.NewProvider(restCfg)
	if err != nil {
		logger.With("err", err).Error("failed to build kubernetes clients")
		os.Exit(1)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	if cfg.MetricsAddr != "" {
		go metrics.Serve(ctx, cfg.MetricsAddr, logger.With("component", "metrics"))
	}

	// best effort: registration carries the version when the probe succeeds
	clusterVersion, err := provider.ServerVersion()
	if err != nil {
		logger.With("err", err).Warn("could not probe cluster version")
	}

	transport := controlplane.New(cfg.ControlPlaneURL, logger.With("component", "controlplane"))
	reconciler := reconcile.New(provider)
	dispatcher := dispatch.New(provider, reconciler, logger.With("component", "dispatcher"))

	a := agent.New(agent.Options{
		Logger:             logger.With("component", "agent"),
		Transport:          transport,
		Dispatcher:         dispatcher,
		Metrics:            m,
		Token:              cfg.AgentToken,
		ClusterName:        cfg.ClusterName,
		ClusterVersion:     clusterVersion,
		RegisterRetryDelay: cfg.RegisterRetryDelay,
		PollBackoff:        cfg.PollBackoff,
	})

	logger.With("cluster", cfg.ClusterName).Info("kubebridge agent starting...")
	if err := a.Run(ctx); err != nil {
		logger.With("err", err.Error()).Error("agent exited with error")
		os.Exit(1)
	}
	logger.Info("kubebridge agent stopped")
}
