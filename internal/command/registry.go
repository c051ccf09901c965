package command

import (
	"fmt"
	"strings"
)

// Registry is the static keyword-to-action mapping built once at startup.
//
// Registration happens during construction only; afterwards the registry
// is read-only and safe for concurrent reads from any goroutine without
// locking. There is no runtime mutation (hot-reload is out of scope).
type Registry struct {
	// actions maps each normalised keyword to its action.
	actions map[string]*Action

	// order preserves keyword registration order. The matcher iterates in
	// this order so ties resolve to the first-registered keyword.
	order []string
}

// NewRegistry creates an empty action registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]*Action),
	}
}

// Register inserts the action under all of its keywords.
//
// Keywords are lowercased and trimmed; a keyword that normalises to the
// empty string is rejected. Registering a keyword that already exists
// overwrites the prior binding (last registration wins) while the
// keyword keeps its original position in iteration order.
//
// Returns:
//   - error: If the action has no keywords, a blank keyword, or no handler
func (r *Registry) Register(action Action) error {
	if len(action.Keywords) == 0 {
		return ErrNoKeywords
	}
	if action.Handler == "" {
		return ErrNoHandler
	}

	normalised := make([]string, len(action.Keywords))
	for i, kw := range action.Keywords {
		norm := Normalize(kw)
		if norm == "" {
			return fmt.Errorf("%w: %q", ErrBlankKeyword, kw)
		}
		normalised[i] = norm
	}

	a := action
	a.Keywords = normalised

	for _, kw := range normalised {
		if _, exists := r.actions[kw]; !exists {
			r.order = append(r.order, kw)
		}
		r.actions[kw] = &a
	}

	return nil
}

// Lookup returns the action bound to an exact keyword, if any.
// The keyword is normalised before lookup.
func (r *Registry) Lookup(keyword string) (*Action, bool) {
	a, ok := r.actions[Normalize(keyword)]
	return a, ok
}

// Keywords returns all registered keywords in registration order.
func (r *Registry) Keywords() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Actions returns the distinct registered actions in first-registration order.
func (r *Registry) Actions() []*Action {
	seen := make(map[*Action]bool, len(r.actions))
	var out []*Action
	for _, kw := range r.order {
		a := r.actions[kw]
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}

// Len returns the number of registered keywords.
func (r *Registry) Len() int {
	return len(r.order)
}

// Normalize lowercases and trims a keyword or input phrase.
// Matching is case-insensitive and ignores surrounding whitespace.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
