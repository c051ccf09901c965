// Package executor runs command handlers through a bounded,
// single-worker queue.
//
// Commands execute strictly one at a time in submission order, which
// keeps physical actions (relays, valves, motors) from interleaving.
// Each job runs under its own deadline; a job that overruns it is
// reported as a timeout failure and, for script-backed handlers, its
// whole process group is killed. Handler failures and panics are
// contained to the job that caused them.
//
// Two handler kinds are provided: ScriptHandler shells out to an
// external interpreter-run script, and HandlerFunc wraps an
// in-process Go function for builtins such as help and status.
// Actions name their handler by identifier, resolved through a
// Registry at execution time.
package executor
