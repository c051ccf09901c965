// Package history keeps a bounded, in-memory record of command
// requests and their outcomes.
//
// Every request that reaches the command pipeline is appended as an
// Entry carrying the caller, the raw command text, an outcome status,
// and free-form detail (the handler's reply or an error summary).
// The log holds a fixed number of entries; once full, each append
// evicts the oldest entry so memory use stays constant over the
// daemon's lifetime.
//
// The log is purely in-memory. Entries do not survive a restart;
// durable telemetry is the influxdb package's job.
package history
