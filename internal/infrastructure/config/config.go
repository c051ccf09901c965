package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for homebot.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Chat      ChatConfig      `yaml:"chat"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	History   HistoryConfig   `yaml:"history"`
	Command   CommandConfig   `yaml:"command"`
	Actions   []ActionConfig  `yaml:"actions"`
	Logging   LoggingConfig   `yaml:"logging"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
}

// ServiceConfig contains service identification settings.
type ServiceConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// ChatConfig contains MQTT chat transport settings.
// Inbound commands and outbound replies travel over this broker.
type ChatConfig struct {
	Broker    ChatBrokerConfig    `yaml:"broker"`
	Auth      ChatAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect ChatReconnectConfig `yaml:"reconnect"`
}

// ChatBrokerConfig contains MQTT broker connection details.
type ChatBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// ChatAuthConfig contains MQTT authentication credentials.
type ChatAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// ChatReconnectConfig contains MQTT reconnection settings (seconds).
type ChatReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// AuthConfig contains the static caller allow-list.
// Callers not on the list are denied before any other processing.
type AuthConfig struct {
	AllowedCallers []string `yaml:"allowed_callers"`
}

// RateLimitConfig contains the per-caller sliding window limits.
type RateLimitConfig struct {
	MaxRequests   int `yaml:"max_requests"`
	WindowSeconds int `yaml:"window_seconds"`
}

// HistoryConfig contains the bounded invocation history settings.
type HistoryConfig struct {
	Capacity int `yaml:"capacity"`
}

// CommandConfig contains execution defaults for device actions.
type CommandConfig struct {
	// DefaultTimeout is the per-job timeout in seconds for actions that
	// don't specify their own.
	DefaultTimeout int `yaml:"default_timeout"`

	// ScriptDir is the directory containing handler scripts.
	// Handler IDs in the action list resolve to files in this directory.
	ScriptDir string `yaml:"script_dir"`

	// Interpreter is the program used to run handler scripts.
	// Default: "python3"
	Interpreter string `yaml:"interpreter"`

	// QueueSize bounds the execution queue. Submissions beyond this are
	// rejected rather than blocking the chat transport.
	QueueSize int `yaml:"queue_size"`
}

// ActionConfig describes one registered device action.
type ActionConfig struct {
	Keywords    []string `yaml:"keywords"`
	Handler     string   `yaml:"handler"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	// Timeout in seconds; 0 means use command.default_timeout.
	Timeout int `yaml:"timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// InfluxDBConfig contains command telemetry settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HOMEBOT_SECTION_KEY
// For example: HOMEBOT_CHAT_HOST, HOMEBOT_INFLUXDB_TOKEN
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			ID:   "homebot-001",
			Name: "homebot",
		},
		Chat: ChatConfig{
			Broker: ChatBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "homebot-core",
			},
			QoS: 1,
			Reconnect: ChatReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		RateLimit: RateLimitConfig{
			MaxRequests:   10,
			WindowSeconds: 60,
		},
		History: HistoryConfig{
			Capacity: 1000,
		},
		Command: CommandConfig{
			DefaultTimeout: 30,
			ScriptDir:      "./scripts",
			Interpreter:    "python3",
			QueueSize:      256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: HOMEBOT_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Chat transport
	if v := os.Getenv("HOMEBOT_CHAT_HOST"); v != "" {
		cfg.Chat.Broker.Host = v
	}
	if v := os.Getenv("HOMEBOT_CHAT_USERNAME"); v != "" {
		cfg.Chat.Auth.Username = v
	}
	if v := os.Getenv("HOMEBOT_CHAT_PASSWORD"); v != "" {
		cfg.Chat.Auth.Password = v
	}

	// Execution
	if v := os.Getenv("HOMEBOT_SCRIPT_DIR"); v != "" {
		cfg.Command.ScriptDir = v
	}

	// InfluxDB
	if v := os.Getenv("HOMEBOT_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Service.ID == "" {
		errs = append(errs, "service.id is required")
	}

	if c.Chat.Broker.Host == "" {
		errs = append(errs, "chat.broker.host is required")
	}
	if c.Chat.Broker.Port <= 0 || c.Chat.Broker.Port > 65535 {
		errs = append(errs, "chat.broker.port must be between 1 and 65535")
	}
	if c.Chat.Broker.ClientID == "" {
		errs = append(errs, "chat.broker.client_id is required")
	}
	if c.Chat.QoS < 0 || c.Chat.QoS > 2 {
		errs = append(errs, "chat.qos must be 0, 1, or 2")
	}

	if len(c.Auth.AllowedCallers) == 0 {
		errs = append(errs, "auth.allowed_callers must list at least one caller")
	}

	if c.RateLimit.MaxRequests <= 0 {
		errs = append(errs, "rate_limit.max_requests must be positive")
	}
	if c.RateLimit.WindowSeconds <= 0 {
		errs = append(errs, "rate_limit.window_seconds must be positive")
	}

	if c.History.Capacity <= 0 {
		errs = append(errs, "history.capacity must be positive")
	}

	if c.Command.DefaultTimeout <= 0 {
		errs = append(errs, "command.default_timeout must be positive")
	}
	if c.Command.QueueSize <= 0 {
		errs = append(errs, "command.queue_size must be positive")
	}

	for i, a := range c.Actions {
		if len(a.Keywords) == 0 {
			errs = append(errs, fmt.Sprintf("actions[%d]: keywords must not be empty", i))
		}
		for _, k := range a.Keywords {
			if strings.TrimSpace(k) == "" {
				errs = append(errs, fmt.Sprintf("actions[%d]: blank keyword", i))
			}
		}
		if a.Handler == "" {
			errs = append(errs, fmt.Sprintf("actions[%d]: handler is required", i))
		}
		if a.Timeout < 0 {
			errs = append(errs, fmt.Sprintf("actions[%d]: timeout must not be negative", i))
		}
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Token == "" {
			errs = append(errs, "influxdb.token is required when influxdb is enabled")
		}
		if c.InfluxDB.Org == "" {
			errs = append(errs, "influxdb.org is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}
