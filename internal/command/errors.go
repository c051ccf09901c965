package command

import "errors"

// Domain errors for the command package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, command.ErrNoKeywords) {
//	    // handle invalid registration
//	}
var (
	// ErrNoKeywords is returned when registering an action without keywords.
	ErrNoKeywords = errors.New("command: action has no keywords")

	// ErrBlankKeyword is returned when a keyword normalises to the empty string.
	ErrBlankKeyword = errors.New("command: blank keyword")

	// ErrNoHandler is returned when registering an action without a handler ID.
	ErrNoHandler = errors.New("command: action has no handler")
)
