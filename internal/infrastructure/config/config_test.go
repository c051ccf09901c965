package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
service:
  id: "test-bot"
chat:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
auth:
  allowed_callers:
    - "user-1"
    - "user-2"
actions:
  - keywords: ["lamp", "light"]
    handler: "gpio_control.py"
    description: "Lighting control"
    category: "lighting"
    timeout: 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.ID != "test-bot" {
		t.Errorf("Service.ID = %q, want %q", cfg.Service.ID, "test-bot")
	}
	if cfg.Chat.Broker.Host != "localhost" {
		t.Errorf("Chat.Broker.Host = %q, want %q", cfg.Chat.Broker.Host, "localhost")
	}
	if len(cfg.Auth.AllowedCallers) != 2 {
		t.Errorf("len(Auth.AllowedCallers) = %d, want 2", len(cfg.Auth.AllowedCallers))
	}
	if len(cfg.Actions) != 1 {
		t.Fatalf("len(Actions) = %d, want 1", len(cfg.Actions))
	}
	if cfg.Actions[0].Handler != "gpio_control.py" {
		t.Errorf("Actions[0].Handler = %q, want %q", cfg.Actions[0].Handler, "gpio_control.py")
	}
	if cfg.Actions[0].Timeout != 10 {
		t.Errorf("Actions[0].Timeout = %d, want 10", cfg.Actions[0].Timeout)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  allowed_callers: ["user-1"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.RateLimit.MaxRequests != 10 {
		t.Errorf("RateLimit.MaxRequests = %d, want 10", cfg.RateLimit.MaxRequests)
	}
	if cfg.RateLimit.WindowSeconds != 60 {
		t.Errorf("RateLimit.WindowSeconds = %d, want 60", cfg.RateLimit.WindowSeconds)
	}
	if cfg.History.Capacity != 1000 {
		t.Errorf("History.Capacity = %d, want 1000", cfg.History.Capacity)
	}
	if cfg.Command.DefaultTimeout != 30 {
		t.Errorf("Command.DefaultTimeout = %d, want 30", cfg.Command.DefaultTimeout)
	}
	if cfg.Command.Interpreter != "python3" {
		t.Errorf("Command.Interpreter = %q, want %q", cfg.Command.Interpreter, "python3")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "invalid: [yaml: content")

	_, err := Load(path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EmptyAllowList(t *testing.T) {
	path := writeConfig(t, `
service:
  id: "test-bot"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected validation error for empty allow-list, got nil")
	}
	if !strings.Contains(err.Error(), "allowed_callers") {
		t.Errorf("error = %v, want mention of allowed_callers", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
auth:
  allowed_callers: ["user-1"]
chat:
  broker:
    host: "file-host"
`)

	t.Setenv("HOMEBOT_CHAT_HOST", "env-host")
	t.Setenv("HOMEBOT_SCRIPT_DIR", "/opt/homebot/scripts")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Chat.Broker.Host != "env-host" {
		t.Errorf("Chat.Broker.Host = %q, want env override %q", cfg.Chat.Broker.Host, "env-host")
	}
	if cfg.Command.ScriptDir != "/opt/homebot/scripts" {
		t.Errorf("Command.ScriptDir = %q, want %q", cfg.Command.ScriptDir, "/opt/homebot/scripts")
	}
}

func TestValidate_ActionErrors(t *testing.T) {
	tests := []struct {
		name   string
		action ActionConfig
		want   string
	}{
		{
			name:   "missing keywords",
			action: ActionConfig{Handler: "x.py"},
			want:   "keywords",
		},
		{
			name:   "blank keyword",
			action: ActionConfig{Keywords: []string{"  "}, Handler: "x.py"},
			want:   "blank keyword",
		},
		{
			name:   "missing handler",
			action: ActionConfig{Keywords: []string{"lamp"}},
			want:   "handler",
		},
		{
			name:   "negative timeout",
			action: ActionConfig{Keywords: []string{"lamp"}, Handler: "x.py", Timeout: -1},
			want:   "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Auth.AllowedCallers = []string{"user-1"}
			cfg.Actions = []ActionConfig{tt.action}

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestValidate_InfluxDBRequiresFields(t *testing.T) {
	cfg := defaultConfig()
	cfg.Auth.AllowedCallers = []string{"user-1"}
	cfg.InfluxDB.Enabled = true

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for enabled influxdb with no fields, got nil")
	}
	if !strings.Contains(err.Error(), "influxdb.url") {
		t.Errorf("error = %v, want mention of influxdb.url", err)
	}
}
