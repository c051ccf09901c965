// Package config provides configuration loading for homebot.
//
// Configuration is read from a single YAML file, layered over hardcoded
// defaults, and finally overridden by HOMEBOT_* environment variables.
// The loaded Config is validated before use; an invalid configuration
// prevents startup.
//
// # Sections
//
//   - service: identification (id, name)
//   - chat: MQTT broker used as the chat transport
//   - auth: static caller allow-list
//   - rate_limit: per-caller sliding window
//   - history: bounded invocation history
//   - command: execution defaults (timeout, script dir, interpreter, queue size)
//   - actions: the action registry contents (keywords, handler, metadata)
//   - logging: level/format/output
//   - influxdb: optional command telemetry
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    // startup failure
//	}
//
// Secrets (MQTT password, InfluxDB token) should be supplied via environment
// variables rather than committed to the config file.
package config
