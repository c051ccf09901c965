package executor

import (
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/homebot/internal/command"
)

// Job is a single unit of work queued for execution.
type Job struct {
	// ID is a short unique identifier for log correlation.
	ID string

	// Action is the matched command definition.
	Action *command.Action

	// CallerID identifies who requested the command.
	CallerID string

	// CommandText is the caller's raw input, passed to the handler.
	CommandText string

	// SubmittedAt is when the job entered the queue.
	SubmittedAt time.Time

	// Complete is invoked exactly once with the job's outcome, from
	// the worker goroutine. Must not be nil.
	Complete func(Job, Result)
}

// NewJob builds a job for the given action and request.
func NewJob(action *command.Action, callerID, commandText string, complete func(Job, Result)) Job {
	return Job{
		ID:          "job-" + uuid.NewString()[:8],
		Action:      action,
		CallerID:    callerID,
		CommandText: commandText,
		SubmittedAt: time.Now(),
		Complete:    complete,
	}
}
