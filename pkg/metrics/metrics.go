// Package metrics exposes the agent's operational counters and, when a
// listen address is configured, serves them over /metrics.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RegistrationAttempts prometheus.Counter
	Polls                prometheus.Counter
	PollErrors           prometheus.Counter
	Commands             *prometheus.CounterVec
	ReportFailures       prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RegistrationAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "kubebridge_registration_attempts_total",
			Help: "Registration attempts against the control plane.",
		}),
		Polls: factory.NewCounter(prometheus.CounterOpts{
			Name: "kubebridge_polls_total",
			Help: "Command polls issued, including clean no-command responses.",
		}),
		PollErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "kubebridge_poll_errors_total",
			Help: "Command polls that failed at the transport level.",
		}),
		Commands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kubebridge_commands_total",
			Help: "Commands executed, by type and terminal status.",
		}, []string{"type", "status"}),
		ReportFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "kubebridge_report_failures_total",
			Help: "Result submissions that failed; those results are lost.",
		}),
	}
}

// Serve runs a /metrics listener until ctx is cancelled.
func Serve(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.With("addr", addr).Info("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.With("err", err).Error("metrics listener failed")
	}
}
