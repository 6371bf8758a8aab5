//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

package artifact

import (
	"errors"
	"fmt"
	"sync"
)

// ErrKindNotFound is returned when looking up a document kind that was
// never registered. This is a configuration error, not a user error:
// callers must fail fast rather than render a broken artifact.
var ErrKindNotFound = errors.New("artifact: document kind not registered")

// Registry maps a document kind to its handler bundle. Kinds are
// registered at process start and looked up on every create, update and
// open operation.
type Registry struct {
	mu       sync.RWMutex
	handlers map[Kind]*Handler
	order    []Kind
}

// NewRegistry creates an empty kind registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[Kind]*Handler),
	}
}

// Register adds a handler bundle to the registry. Registering the same
// kind twice is an error.
func (r *Registry) Register(h *Handler) error {
	if h == nil {
		return errors.New("artifact: nil handler")
	}
	if h.Kind == "" {
		return errors.New("artifact: handler has empty kind")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[h.Kind]; exists {
		return fmt.Errorf("artifact: kind %s already registered", h.Kind)
	}
	r.handlers[h.Kind] = h
	r.order = append(r.order, h.Kind)
	return nil
}

// Lookup retrieves the handler bundle for a kind. It fails with
// ErrKindNotFound before any handler code runs.
func (r *Registry) Lookup(kind Kind) (*Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, exists := r.handlers[kind]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrKindNotFound, kind)
	}
	return h, nil
}

// Kinds returns all registered kinds in registration order. The order is
// stable and used to construct kind-selection UI.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, len(r.order))
	copy(kinds, r.order)
	return kinds
}

// DefaultRegistry is the global document kind registry.
var DefaultRegistry = NewRegistry()
