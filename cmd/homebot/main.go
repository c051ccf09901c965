// homebot - chat-driven home automation relay
//
// This is the main entry point for the homebot daemon. homebot turns
// free-form chat messages into device actions:
//   - Fuzzy keyword matching ("turn tv volume up" -> tv volume script)
//   - Per-caller rate limiting and a static allow-list
//   - Strictly serialized execution so physical actions never overlap
//   - Bounded in-memory history of every command outcome
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nerrad567/homebot/internal/chat"
	"github.com/nerrad567/homebot/internal/command"
	"github.com/nerrad567/homebot/internal/dispatch"
	"github.com/nerrad567/homebot/internal/executor"
	"github.com/nerrad567/homebot/internal/history"
	"github.com/nerrad567/homebot/internal/infrastructure/config"
	"github.com/nerrad567/homebot/internal/infrastructure/influxdb"
	"github.com/nerrad567/homebot/internal/infrastructure/logging"
	"github.com/nerrad567/homebot/internal/infrastructure/mqtt"
	"github.com/nerrad567/homebot/internal/ratelimit"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// queueDepthInterval is how often the queue depth gauge is written
// to InfluxDB when telemetry is enabled.
const queueDepthInterval = 30 * time.Second

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	startedAt := time.Now()

	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting homebot",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Build the command registry: built-ins first so a config action
	// may shadow them.
	registry := command.NewRegistry()
	if err := registerBuiltins(registry); err != nil {
		return fmt.Errorf("registering builtin commands: %w", err)
	}
	for _, a := range cfg.Actions {
		action := command.Action{
			Keywords:    a.Keywords,
			Handler:     a.Handler,
			Description: a.Description,
			Category:    a.Category,
			Timeout:     time.Duration(a.Timeout) * time.Second,
		}
		if err := registry.Register(action); err != nil {
			return fmt.Errorf("registering action %q: %w", action.Name(), err)
		}
	}
	log.Info("command registry built",
		"actions", registry.Len(),
		"keywords", len(registry.Keywords()),
	)

	// Core components
	hist := history.New(cfg.History.Capacity)
	limiter := ratelimit.New(cfg.RateLimit.MaxRequests,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second)

	handlers := executor.NewRegistry()
	queue := executor.NewQueue(handlers, cfg.Command.QueueSize,
		time.Duration(cfg.Command.DefaultTimeout)*time.Second)
	queue.SetLogger(log)

	if err := registerHandlers(handlers, cfg, registry, queue, hist, startedAt); err != nil {
		return fmt.Errorf("registering handlers: %w", err)
	}
	log.Info("handlers registered",
		"count", handlers.Len(),
		"script_dir", cfg.Command.ScriptDir,
		"interpreter", cfg.Command.Interpreter,
	)

	queue.Start(ctx)

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.Chat)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.Chat.Broker.Host, cfg.Chat.Broker.Port),
		"client_id", cfg.Chat.Broker.ClientID,
	)

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		go reportQueueDepth(ctx, influxClient, queue)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Chat bridge and dispatcher reference each other: the bridge is
	// the dispatcher's reply sink, the dispatcher is the bridge's
	// message sink. The bridge binds its sink at Start.
	bridge := chat.New(mqttClient, byte(cfg.Chat.QoS))
	bridge.SetLogger(log)

	// Avoid a typed-nil Recorder when telemetry is disabled.
	var recorder dispatch.Recorder
	if influxClient != nil {
		recorder = influxClient
	}

	dispatcher := dispatch.New(dispatch.Options{
		Registry: registry,
		Limiter:  limiter,
		Queue:    queue,
		History:  hist,
		Allowed:  cfg.Auth.AllowedCallers,
		Replier:  bridge,
		Recorder: recorder,
	})
	dispatcher.SetLogger(log)
	defer dispatcher.Stop()

	if err := bridge.Start(dispatcher); err != nil {
		return fmt.Errorf("starting chat bridge: %w", err)
	}
	log.Info("chat bridge started")

	// Verify all connections are healthy
	if err := healthCheck(ctx, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Let the worker finish its current job before the deferred
	// Close() calls tear down the transports.
	queue.Wait()

	log.Info("homebot stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HOMEBOT_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HOMEBOT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// registerBuiltins adds the in-process help and status commands.
func registerBuiltins(registry *command.Registry) error {
	builtins := []command.Action{
		{
			Keywords:    []string{"help", "commands"},
			Handler:     dispatch.HandlerHelp,
			Description: "list available commands",
			Category:    "system",
		},
		{
			Keywords:    []string{"status"},
			Handler:     dispatch.HandlerStatus,
			Description: "report uptime and queue state",
			Category:    "system",
		},
	}
	for _, a := range builtins {
		if err := registry.Register(a); err != nil {
			return err
		}
	}
	return nil
}

// registerHandlers binds every action's handler identifier. Builtin
// identifiers get in-process handlers; everything else resolves to a
// script in the configured script directory.
func registerHandlers(
	handlers *executor.Registry,
	cfg *config.Config,
	registry *command.Registry,
	queue *executor.Queue,
	hist *history.Log,
	startedAt time.Time,
) error {
	if err := handlers.Register(dispatch.HandlerHelp, dispatch.HelpHandler(registry)); err != nil {
		return err
	}
	if err := handlers.Register(dispatch.HandlerStatus, dispatch.StatusHandler(queue, hist, startedAt)); err != nil {
		return err
	}

	for _, a := range cfg.Actions {
		if a.Handler == dispatch.HandlerHelp || a.Handler == dispatch.HandlerStatus {
			continue
		}
		script := executor.NewScriptHandler(cfg.Command.Interpreter,
			filepath.Join(cfg.Command.ScriptDir, a.Handler))
		if err := handlers.Register(a.Handler, script); err != nil {
			return err
		}
	}
	return nil
}

// reportQueueDepth periodically writes the queue depth gauge.
func reportQueueDepth(ctx context.Context, client *influxdb.Client, queue *executor.Queue) {
	ticker := time.NewTicker(queueDepthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			client.WriteQueueDepth(queue.Depth())
		}
	}
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - mqttClient: MQTT client to check
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
