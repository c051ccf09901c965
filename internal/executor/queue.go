package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultQueueSize is the buffer size used when the configured queue
// size is zero or negative.
const DefaultQueueSize = 256

// Logger defines the logging interface for the queue.
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

// Queue runs jobs one at a time in submission order. A single worker
// goroutine drains a bounded buffer; Submit never blocks and rejects
// work when the buffer is full, so a slow handler cannot wedge the
// chat pipeline.
type Queue struct {
	handlers       *Registry
	defaultTimeout time.Duration
	logger         Logger

	jobs chan Job

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewQueue creates a queue backed by the given handler registry.
// Jobs whose action carries no timeout run under defaultTimeout.
func NewQueue(handlers *Registry, size int, defaultTimeout time.Duration) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		handlers:       handlers,
		defaultTimeout: defaultTimeout,
		logger:         noopLogger{},
		jobs:           make(chan Job, size),
	}
}

// SetLogger sets the logger for the queue.
func (q *Queue) SetLogger(logger Logger) {
	q.logger = logger
}

// Start launches the worker goroutine. The worker exits when ctx is
// cancelled; jobs still buffered at that point are not run.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return
	}
	q.running = true
	q.done = make(chan struct{})

	go q.work(ctx)
}

// Submit enqueues a job without blocking. Returns ErrQueueFull when
// the buffer is full and ErrNotRunning before Start.
func (q *Queue) Submit(job Job) error {
	q.mu.Lock()
	running := q.running
	q.mu.Unlock()
	if !running {
		return ErrNotRunning
	}

	select {
	case q.jobs <- job:
		q.logger.Debug("job queued",
			"job_id", job.ID,
			"action", job.Action.Name(),
			"caller_id", job.CallerID,
			"depth", len(q.jobs),
		)
		return nil
	default:
		return ErrQueueFull
	}
}

// Depth reports the number of jobs waiting in the buffer. The job
// currently executing is not counted.
func (q *Queue) Depth() int {
	return len(q.jobs)
}

// Wait blocks until the worker goroutine has exited.
func (q *Queue) Wait() {
	q.mu.Lock()
	done := q.done
	q.mu.Unlock()
	if done != nil {
		<-done
	}
}

// work is the single worker loop. It survives handler failures and
// panics so one bad job cannot stall the commands behind it.
func (q *Queue) work(ctx context.Context) {
	defer func() {
		q.mu.Lock()
		q.running = false
		close(q.done)
		q.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			q.logger.Info("execution queue stopping", "buffered", len(q.jobs))
			return
		case job := <-q.jobs:
			q.run(ctx, job)
		}
	}
}

// run executes one job and reports its outcome exactly once.
func (q *Queue) run(ctx context.Context, job Job) {
	start := time.Now()

	handler, err := q.handlers.Resolve(job.Action.Handler)
	if err != nil {
		q.logger.Error("no handler for action",
			"job_id", job.ID,
			"action", job.Action.Name(),
			"handler", job.Action.Handler,
		)
		job.Complete(job, Result{Message: fmt.Sprintf("handler not found: %s", job.Action.Handler)})
		return
	}

	timeout := job.Action.Timeout
	if timeout <= 0 {
		timeout = q.defaultTimeout
	}
	jobCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := q.invoke(jobCtx, handler, job)

	// A deadline overrides whatever the interrupted handler reported.
	if errors.Is(jobCtx.Err(), context.DeadlineExceeded) {
		result = Result{Message: fmt.Sprintf("timed out after %g seconds", timeout.Seconds())}
	}

	elapsed := time.Since(start)
	if result.OK {
		q.logger.Info("job completed",
			"job_id", job.ID,
			"action", job.Action.Name(),
			"caller_id", job.CallerID,
			"duration_ms", elapsed.Milliseconds(),
		)
	} else {
		q.logger.Warn("job failed",
			"job_id", job.ID,
			"action", job.Action.Name(),
			"caller_id", job.CallerID,
			"duration_ms", elapsed.Milliseconds(),
			"message", result.Message,
		)
	}

	job.Complete(job, result)
}

// invoke calls the handler with panic recovery.
func (q *Queue) invoke(ctx context.Context, handler Handler, job Job) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("handler panicked",
				"job_id", job.ID,
				"action", job.Action.Name(),
				"panic", r,
			)
			result = Result{Message: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	return handler.Invoke(ctx, job.CommandText)
}
