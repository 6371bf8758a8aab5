//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package view holds the client-side view model of the single active
// artifact: which document is open, its visibility, streaming status,
// and the provisional content shown while a stream is in flight.
package view

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"trpc.group/trpc-go/trpc-artifact-go/artifact"
)

// Status is the streaming status of the artifact panel.
type Status string

const (
	// StatusIdle means no stream is in flight.
	StatusIdle Status = "idle"
	// StatusStreaming means a create or update stream is producing
	// provisional content.
	StatusStreaming Status = "streaming"
)

// BoundingBox is the screen region the artifact panel expands from.
// It is a UI transition hint, not part of any wire protocol.
type BoundingBox struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Artifact is the view model of the open document.
type Artifact struct {
	DocumentID  string        `json:"documentId"`
	Kind        artifact.Kind `json:"kind"`
	Title       string        `json:"title"`
	Content     string        `json:"content"`
	Visible     bool          `json:"isVisible"`
	Status      Status        `json:"status"`
	BoundingBox BoundingBox   `json:"boundingBox"`
}

const defaultCacheSize = 32

// State owns the single active Artifact and its metadata side channel.
// Exactly one State is logically active per open document; all mutation
// goes through its methods.
type State struct {
	mu       sync.Mutex
	registry *artifact.Registry
	artifact Artifact
	metadata any
	cache    *lru.Cache[string, string]
}

// Option configures a State.
type Option func(*State)

// WithCacheSize sets the capacity of the re-open content cache.
func WithCacheSize(size int) Option {
	return func(s *State) {
		if c, err := lru.New[string, string](size); err == nil {
			s.cache = c
		}
	}
}

// NewState creates a State resolving kinds against the given registry.
func NewState(registry *artifact.Registry, opts ...Option) *State {
	cache, _ := lru.New[string, string](defaultCacheSize)
	s := &State{
		registry: registry,
		cache:    cache,
		artifact: Artifact{
			DocumentID: artifact.InitialDocumentID,
			Status:     StatusIdle,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open makes the artifact visible for the given document. The kind must
// be registered; an unknown kind fails before any hook runs. When the
// document is not the sentinel, the metadata side channel is reset and
// the kind's Initialize hook runs exactly once for this open. Previously
// closed content is restored from the cache so a re-open needs no fetch.
func (s *State) Open(ctx context.Context, documentID string, kind artifact.Kind, title string, box BoundingBox) error {
	h, err := s.registry.Lookup(kind)
	if err != nil {
		return err
	}

	s.mu.Lock()
	switched := s.artifact.DocumentID != documentID
	s.artifact.DocumentID = documentID
	s.artifact.Kind = kind
	s.artifact.Title = title
	s.artifact.BoundingBox = box
	s.artifact.Visible = true
	s.artifact.Status = StatusIdle
	if switched {
		s.artifact.Content = ""
		// Metadata is created empty on document switch and replaced
		// wholesale by Initialize; core never merges it.
		s.metadata = nil
	}
	if content, ok := s.cache.Get(documentID); ok && switched {
		s.artifact.Content = content
	}
	s.mu.Unlock()

	if documentID == artifact.InitialDocumentID || h.Initialize == nil {
		return nil
	}
	meta, err := h.Initialize(ctx, documentID)
	if err != nil {
		return fmt.Errorf("view: initialize %s: %w", kind, err)
	}
	s.mu.Lock()
	s.metadata = meta
	s.mu.Unlock()
	return nil
}

// Close hides the artifact but preserves content and document identity so
// a re-open can restore state without re-fetching.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.artifact.Visible = false
	if s.artifact.DocumentID != artifact.InitialDocumentID {
		s.cache.Add(s.artifact.DocumentID, s.artifact.Content)
	}
}

// BeginStream flips the status to streaming. Callers must pair it with a
// deferred EndStream so the panel never sticks in a loading state when a
// handler fails.
func (s *State) BeginStream() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifact.Status = StatusStreaming
}

// EndStream flips the status back to idle.
func (s *State) EndStream() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifact.Status = StatusIdle
}

// SetContent replaces the displayed content.
func (s *State) SetContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifact.Content = content
}

// AppendDelta appends a streamed content fragment to the displayed
// content. The accumulated value is provisional: only the content the
// handler returns is persisted.
func (s *State) AppendDelta(delta string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifact.Content += delta
}

// Artifact returns a snapshot of the view model.
func (s *State) Artifact() Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifact
}

// Status returns the streaming status.
func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifact.Status
}

// Visible reports whether the artifact panel is shown.
func (s *State) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifact.Visible
}

// Metadata returns the kind-specific metadata side channel.
func (s *State) Metadata() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metadata
}

// SetMetadata replaces the metadata side channel wholesale. Callers own
// merge semantics.
func (s *State) SetMetadata(metadata any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata = metadata
}
