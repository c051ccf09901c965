// Package dispatch wires inbound chat messages to the execution
// pipeline.
//
// The Dispatcher is the only component that talks to the transport's
// reply side and the only writer of the history log. Each inbound
// message runs the same gauntlet: caller allow-list, per-caller rate
// limit, optional schedule suffix ("coffee 10", "coffee at 07:45"),
// then fuzzy command matching. A matched command is acknowledged
// immediately and queued; the queue's completion callback delivers
// the outcome reply, appends the history entry, and records
// telemetry.
//
// Denied and throttled messages produce a fixed reply and no history
// entry. Unrecognised text is recorded as NOT_FOUND.
//
// The package also provides the built-in help and status commands as
// in-process handlers.
package dispatch
