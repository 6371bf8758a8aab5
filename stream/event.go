//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package stream provides the ordered event channel between a document
// generation handler and its consumer.
package stream

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies the kind of a stream event.
type EventType string

const (
	// EventTypeToolCall marks a tool-call lifecycle event.
	EventTypeToolCall EventType = "tool-call"
	// EventTypeDelta carries a partial content fragment.
	EventTypeDelta EventType = "content-delta"
)

// ToolCallType identifies the operation a tool call performs.
type ToolCallType string

const (
	// ToolCallCreateDocument marks a document creation call.
	ToolCallCreateDocument ToolCallType = "create-document"
	// ToolCallUpdateDocument marks a document update call.
	ToolCallUpdateDocument ToolCallType = "update-document"
)

// ToolCallStatus is the lifecycle status of a tool call.
type ToolCallStatus string

const (
	// ToolCallRunning means the call has started and not yet terminated.
	ToolCallRunning ToolCallStatus = "running"
	// ToolCallComplete is the terminal status of a call.
	ToolCallComplete ToolCallStatus = "complete"
)

// ToolCall describes one document operation surfaced to the UI while a
// handler is producing or revising content.
type ToolCall struct {
	// ID is the identifier of the call. All lifecycle events of one call
	// share the same ID; for document operations it is the document ID.
	ID string `json:"id"`
	// Type is the operation the call performs.
	Type ToolCallType `json:"type"`
	// Status is the lifecycle status of the call.
	Status ToolCallStatus `json:"status"`
	// Name is the display name of the call, e.g. "Text Document".
	Name string `json:"name"`
}

// Event is one element of a document generation stream. Events are
// advisory progress information: only the content returned by the handler
// is ever persisted.
type Event struct {
	// ID is the unique identifier of the event.
	ID string `json:"id"`
	// Timestamp is the emission time of the event.
	Timestamp time.Time `json:"timestamp"`
	// Type is the event type.
	Type EventType `json:"type"`
	// ToolCall is set for tool-call events.
	ToolCall *ToolCall `json:"toolCall,omitempty"`
	// Delta is set for content-delta events.
	Delta string `json:"delta,omitempty"`
}

// Clone creates a deep copy of the event.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	clone := *e
	if e.ToolCall != nil {
		tc := *e.ToolCall
		clone.ToolCall = &tc
	}
	return &clone
}

// Option configures an Event.
type Option func(*Event)

// WithToolCall sets the tool call of the event.
func WithToolCall(tc *ToolCall) Option {
	return func(e *Event) {
		e.ToolCall = tc
	}
}

// WithDelta sets the content delta of the event.
func WithDelta(delta string) Option {
	return func(e *Event) {
		e.Delta = delta
	}
}

// New creates a new Event with a generated ID and timestamp.
func New(typ EventType, opts ...Option) *Event {
	e := &Event{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Type:      typ,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewToolCallEvent creates a tool-call lifecycle event.
func NewToolCallEvent(id string, typ ToolCallType, status ToolCallStatus, name string) *Event {
	return New(EventTypeToolCall, WithToolCall(&ToolCall{
		ID:     id,
		Type:   typ,
		Status: status,
		Name:   name,
	}))
}

// NewDeltaEvent creates a content-delta event.
func NewDeltaEvent(delta string) *Event {
	return New(EventTypeDelta, WithDelta(delta))
}
