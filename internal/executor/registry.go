package executor

import (
	"fmt"
	"sync"
)

// Registry maps handler identifiers to Handler implementations.
// Actions reference handlers by identifier so the same script or
// builtin can back several commands.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to an identifier. Registering an
// identifier twice replaces the earlier handler.
func (r *Registry) Register(id string, h Handler) error {
	if id == "" {
		return ErrEmptyHandlerID
	}
	if h == nil {
		return ErrNilHandler
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[id] = h
	return nil
}

// Resolve returns the handler registered under id.
func (r *Registry) Resolve(id string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, id)
	}
	return h, nil
}

// Len reports the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}
