// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can use "30s" syntax.
// Plain integers are accepted as nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	*d = Duration(time.Duration(n))
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// TemporalConfig holds the connection settings for the durable-execution
// substrate hosting the orchestration workflows.
type TemporalConfig struct {
	HostPort  string `yaml:"host_port"`
	Namespace string `yaml:"namespace"`
	TaskQueue string `yaml:"task_queue"`
}

// PlatformConfig holds the structured-dialogue platform settings.
type PlatformConfig struct {
	EnvironmentURL    string   `yaml:"environment_url"`
	BotID             string   `yaml:"bot_id"`
	FlowID            string   `yaml:"flow_id"`
	TriggerName       string   `yaml:"trigger_name"`
	CLIPath           string   `yaml:"cli_path"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
	Burst             int      `yaml:"burst"`
	ConnTimeout       Duration `yaml:"conn_timeout"`
	RespTimeout       Duration `yaml:"resp_timeout"`
	CLITimeout        Duration `yaml:"cli_timeout"`
}

// ReasoningConfig holds the reasoning-agent backend settings.
// APIKey is normally supplied via the REASONING_API_KEY environment variable.
type ReasoningConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	AgentID string `yaml:"agent_id"`
}

// BreakerConfig configures the circuit breaker wrapping each agent backend.
type BreakerConfig struct {
	MaxFailures uint32   `yaml:"max_failures"`
	Timeout     Duration `yaml:"timeout"`
	Interval    Duration `yaml:"interval"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
	Output string `yaml:"output"` // stdout, stderr, or a file path
}

// TracerConfig holds OpenTelemetry tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // stdout, noop
}

// Config is the top-level application configuration.
type Config struct {
	Temporal  TemporalConfig  `yaml:"temporal"`
	Platform  PlatformConfig  `yaml:"platform"`
	Reasoning ReasoningConfig `yaml:"reasoning"`
	Breaker   BreakerConfig   `yaml:"breaker"`
	Logger    LoggerConfig    `yaml:"logger"`
	Tracer    TracerConfig    `yaml:"tracer"`
}

// Default returns a configuration suitable for a local development setup.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the YAML configuration from path, applies environment
// overrides, and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables on top of file values.
// Secrets and endpoints are expected to arrive this way in deployments.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TEMPORAL_HOSTPORT"); v != "" {
		c.Temporal.HostPort = v
	}
	if v := os.Getenv("PLATFORM_ENVIRONMENT_URL"); v != "" {
		c.Platform.EnvironmentURL = v
	}
	if v := os.Getenv("REASONING_API_KEY"); v != "" {
		c.Reasoning.APIKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Temporal.HostPort == "" {
		c.Temporal.HostPort = "localhost:7233"
	}
	if c.Temporal.Namespace == "" {
		c.Temporal.Namespace = "default"
	}
	if c.Temporal.TaskQueue == "" {
		c.Temporal.TaskQueue = "agentbridge"
	}
	if c.Platform.CLIPath == "" {
		c.Platform.CLIPath = "pac"
	}
	if c.Platform.RequestsPerSecond <= 0 {
		c.Platform.RequestsPerSecond = 5
	}
	if c.Platform.Burst <= 0 {
		c.Platform.Burst = 10
	}
	if c.Platform.ConnTimeout <= 0 {
		c.Platform.ConnTimeout = Duration(30 * time.Second)
	}
	if c.Platform.RespTimeout <= 0 {
		c.Platform.RespTimeout = Duration(60 * time.Second)
	}
	if c.Platform.CLITimeout <= 0 {
		c.Platform.CLITimeout = Duration(30 * time.Second)
	}
	if c.Reasoning.Model == "" {
		c.Reasoning.Model = "gpt-4o-mini"
	}
	if c.Reasoning.AgentID == "" {
		c.Reasoning.AgentID = "reasoning-agent"
	}
	if c.Breaker.MaxFailures == 0 {
		c.Breaker.MaxFailures = 5
	}
	if c.Breaker.Timeout <= 0 {
		c.Breaker.Timeout = Duration(30 * time.Second)
	}
	if c.Breaker.Interval <= 0 {
		c.Breaker.Interval = Duration(60 * time.Second)
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "text"
	}
	if c.Tracer.Exporter == "" {
		c.Tracer.Exporter = "noop"
	}
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.Platform.EnvironmentURL == "" {
		return fmt.Errorf("config: platform.environment_url is required (or set PLATFORM_ENVIRONMENT_URL)")
	}
	if c.Platform.BotID == "" {
		return fmt.Errorf("config: platform.bot_id is required")
	}
	switch c.Logger.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unsupported logger format %q", c.Logger.Format)
	}
	switch c.Tracer.Exporter {
	case "stdout", "noop":
	default:
		return fmt.Errorf("config: unsupported tracer exporter %q", c.Tracer.Exporter)
	}
	return nil
}
