// Package config loads the agent's environment configuration. All knobs are
// env variables prefixed KUBEBRIDGE_; the two required ones are the control
// plane URL and the agent token.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const defaultClusterName = "default-cluster"

type Config struct {
	// ControlPlaneURL is the base URL of the control plane API.
	ControlPlaneURL string `mapstructure:"control_plane_url" validate:"required,url"`
	// AgentToken is the bearer credential forwarded at registration.
	AgentToken string `mapstructure:"agent_token" validate:"required"`
	// ClusterName labels this cluster in the control plane.
	ClusterName string `mapstructure:"cluster_name" validate:"required"`
	// MetricsAddr enables the /metrics listener when set.
	MetricsAddr string `mapstructure:"metrics_addr"`

	RegisterRetryDelay time.Duration `mapstructure:"register_retry_delay"`
	PollBackoff        time.Duration `mapstructure:"poll_backoff"`
}

// Load reads configuration from the environment and validates it. A missing
// required value is a fatal configuration error; the caller aborts before
// the control loop starts.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("kubebridge")
	v.AutomaticEnv()

	// defaults double as key registrations so Unmarshal sees env overrides
	v.SetDefault("control_plane_url", "")
	v.SetDefault("agent_token", "")
	v.SetDefault("cluster_name", defaultClusterName)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("register_retry_delay", 5*time.Second)
	v.SetDefault("poll_backoff", 3*time.Second)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
