// Package influxdb provides optional command telemetry for homebot.
//
// Every completed job writes one measurement point (action, category,
// outcome, duration). Writes are batched and non-blocking so telemetry
// never delays command execution; write failures surface through an
// error callback, not through the execution path.
//
// The integration is disabled by default and gated on influxdb.enabled
// in config.yaml. When disabled no client is constructed and the
// dispatcher simply skips recording.
package influxdb
