// Package command provides the action registry and the fuzzy command matcher.
//
// The Registry is a static keyword-to-action mapping built once at startup
// from configuration; it is read-only afterwards and safe for concurrent
// reads. Duplicate keyword registration overwrites the prior binding (last
// registration wins), an explicit policy rather than silent ambiguity.
//
// The Matcher resolves arbitrary user text to at most one registered
// action. An exact keyword match always wins. Otherwise candidates are
// scored by Jaccard similarity over whitespace token sets, with a fixed
// bonus when the keyword phrase appears verbatim in the input. A candidate
// is accepted only if its score strictly exceeds 0.3; ties resolve to the
// first-registered keyword.
//
//	registry := command.NewRegistry()
//	registry.Register(command.Action{
//	    Keywords: []string{"tv volume up", "volume"},
//	    Handler:  "ir_control.py",
//	    Category: "media",
//	})
//
//	matcher := command.NewMatcher(registry)
//	result := matcher.Match("set tv volume up please")
//	if result.Matched() {
//	    // result.Action, result.Score
//	}
package command
