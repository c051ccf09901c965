package command

import "time"

// Action is a registered unit of behaviour triggerable by one or more
// keywords and bound to an external handler.
type Action struct {
	// Keywords are the phrases that trigger this action. Any one of them
	// matches. They are normalised (lowercased, trimmed) at registration.
	Keywords []string

	// Handler is the opaque identifier resolved by the executor's handler
	// lookup at run time. The matching core never executes it directly.
	Handler string

	// Description is shown to the user in acknowledgements and help output.
	Description string

	// Category groups actions for help output (e.g., "lighting", "media").
	Category string

	// Timeout is the maximum wall-clock duration an execution may run
	// before it is forcibly terminated and reported as failed.
	Timeout time.Duration
}

// Name returns the action's primary keyword, used in logs and telemetry.
func (a *Action) Name() string {
	if len(a.Keywords) == 0 {
		return ""
	}
	return a.Keywords[0]
}

// MatchResult is the outcome of resolving free text against the registry.
//
// A result either carries the single resolved Action plus the original
// input, or represents no match. The matcher never returns a ranked list.
type MatchResult struct {
	// Action is the resolved action, or nil if nothing matched.
	Action *Action

	// Input is the original (unnormalised) text the caller submitted.
	Input string

	// Score is the similarity score that won, 1.0 for exact matches.
	Score float64
}

// Matched reports whether an action was resolved.
func (r MatchResult) Matched() bool {
	return r.Action != nil
}
