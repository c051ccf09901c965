package dispatch

import (
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/homebot/internal/command"
	"github.com/nerrad567/homebot/internal/executor"
	"github.com/nerrad567/homebot/internal/history"
	"github.com/nerrad567/homebot/internal/ratelimit"
)

// Fixed caller-facing reply texts for the gate checks. These never
// leak internal detail.
const (
	replyUnauthorized  = "access denied"
	replyRateLimited   = "too many commands, please wait a moment"
	replyNotRecognized = "command not recognized, send 'help' to list commands"
	replyBusy          = "the system is busy, try again shortly"
)

// Replier delivers an outbound message to a caller. The chat bridge
// implements this by publishing to the caller's outbound topic.
type Replier interface {
	Reply(callerID, text string) error
}

// Recorder receives per-command telemetry. Satisfied by the influxdb
// client; a nil Recorder disables telemetry.
type Recorder interface {
	WriteCommandMetric(action, category, status string, duration time.Duration)
}

// Logger defines the logging interface for the dispatcher.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options configures a Dispatcher.
type Options struct {
	// Registry holds the registered command actions.
	Registry *command.Registry

	// Limiter throttles per-caller request rates.
	Limiter *ratelimit.Limiter

	// Queue executes matched commands.
	Queue *executor.Queue

	// History records request outcomes.
	History *history.Log

	// Allowed is the caller allow-list. Callers not listed are denied.
	Allowed []string

	// Replier delivers outbound messages. Must not be nil.
	Replier Replier

	// Recorder receives command telemetry. May be nil.
	Recorder Recorder
}

// Dispatcher is the pipeline between inbound chat messages and the
// execution queue. Every inbound message passes authorization, rate
// limiting, optional schedule parsing, and command matching before a
// job is queued; the job's completion drives the outcome reply, the
// history entry, and telemetry.
//
// The Dispatcher owns the history log: nothing else appends to it.
type Dispatcher struct {
	matcher  *command.Matcher
	limiter  *ratelimit.Limiter
	queue    *executor.Queue
	history  *history.Log
	allowed  map[string]struct{}
	replier  Replier
	recorder Recorder
	sched    *scheduler
	logger   Logger

	// now is injectable for schedule tests.
	now func() time.Time
}

// New creates a Dispatcher from the given options.
func New(opts Options) *Dispatcher {
	allowed := make(map[string]struct{}, len(opts.Allowed))
	for _, id := range opts.Allowed {
		allowed[id] = struct{}{}
	}

	return &Dispatcher{
		matcher:  command.NewMatcher(opts.Registry),
		limiter:  opts.Limiter,
		queue:    opts.Queue,
		history:  opts.History,
		allowed:  allowed,
		replier:  opts.Replier,
		recorder: opts.Recorder,
		sched:    newScheduler(),
		logger:   noopLogger{},
		now:      time.Now,
	}
}

// SetLogger sets the logger for the dispatcher.
func (d *Dispatcher) SetLogger(logger Logger) {
	d.logger = logger
}

// Stop cancels any pending scheduled commands. Safe to call more
// than once.
func (d *Dispatcher) Stop() {
	d.sched.stop()
}

// HandleMessage processes one inbound chat message. It never returns
// an error to the transport; every failure mode becomes a reply to
// the caller.
func (d *Dispatcher) HandleMessage(callerID, text string) {
	if _, ok := d.allowed[callerID]; !ok {
		d.logger.Warn("unauthorized caller", "caller_id", callerID)
		d.reply(callerID, replyUnauthorized)
		return
	}

	if !d.limiter.Allow(callerID) {
		d.logger.Info("caller rate limited", "caller_id", callerID)
		d.reply(callerID, replyRateLimited)
		return
	}

	d.logger.Info("command received", "caller_id", callerID, "text", text)

	// Scheduling applies only when the leading part of the text
	// resolves to a known command on its own.
	if spec, ok := parseSchedule(text, d.now()); ok {
		if res := d.matcher.Match(spec.commandText); res.Matched() {
			d.scheduleCommand(callerID, spec, res.Action)
			return
		}
	}

	res := d.matcher.Match(text)
	if !res.Matched() {
		d.logger.Info("no command matched", "caller_id", callerID, "text", text)
		d.reply(callerID, replyNotRecognized)
		d.append(callerID, text, history.StatusNotFound, "")
		return
	}

	d.execute(callerID, text, res.Action)
}

// scheduleCommand arms a timer that routes the command through the
// normal execution path when it fires.
func (d *Dispatcher) scheduleCommand(callerID string, spec schedule, action *command.Action) {
	delay := spec.runAt.Sub(d.now())
	if delay < 0 {
		delay = 0
	}

	d.sched.after(delay, func() {
		d.execute(callerID, spec.commandText, action)
	})

	d.logger.Info("command scheduled",
		"caller_id", callerID,
		"action", action.Name(),
		"run_at", spec.runAt.Format("15:04"),
	)

	if spec.delayed {
		d.reply(callerID, fmt.Sprintf("'%s' scheduled in %d minutes (at %s)",
			action.Name(), spec.delayMinutes, spec.runAt.Format("15:04")))
		return
	}
	d.reply(callerID, fmt.Sprintf("'%s' scheduled at %s",
		action.Name(), spec.runAt.Format("15:04")))
}

// execute acknowledges the command and queues it for execution.
func (d *Dispatcher) execute(callerID, text string, action *command.Action) {
	d.reply(callerID, fmt.Sprintf("[%s] %s...", action.Category, action.Description))

	job := executor.NewJob(action, callerID, text, d.complete)
	if err := d.queue.Submit(job); err != nil {
		if errors.Is(err, executor.ErrQueueFull) {
			d.logger.Warn("execution queue full, rejecting command",
				"caller_id", callerID,
				"action", action.Name(),
			)
		} else {
			d.logger.Error("job submission failed",
				"caller_id", callerID,
				"action", action.Name(),
				"error", err,
			)
		}
		d.reply(callerID, replyBusy)
		d.append(callerID, text, history.StatusError, err.Error())
	}
}

// complete is the job completion callback, invoked from the queue's
// worker goroutine.
func (d *Dispatcher) complete(job executor.Job, result executor.Result) {
	status := history.StatusError
	replyText := "command failed: " + result.Message
	if result.OK {
		status = history.StatusSuccess
		replyText = result.Message
	}

	d.reply(job.CallerID, replyText)
	d.append(job.CallerID, job.CommandText, status, result.Message)

	if d.recorder != nil {
		d.recorder.WriteCommandMetric(
			job.Action.Name(),
			job.Action.Category,
			string(status),
			time.Since(job.SubmittedAt),
		)
	}
}

// append records a history entry with the dispatcher's clock.
func (d *Dispatcher) append(callerID, text string, status history.Status, detail string) {
	d.history.Append(history.Entry{
		Timestamp:   d.now(),
		CallerID:    callerID,
		CommandText: text,
		Status:      status,
		Detail:      detail,
	})
}

// reply sends a message to the caller, logging delivery failures.
func (d *Dispatcher) reply(callerID, text string) {
	if err := d.replier.Reply(callerID, text); err != nil {
		d.logger.Error("failed to deliver reply",
			"caller_id", callerID,
			"error", err,
		)
	}
}
