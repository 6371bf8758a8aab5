//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

package stream

import (
	"errors"
	"fmt"
	"sync"
)

// Channel errors.
var (
	// ErrChannelClosed is returned when emitting on a closed channel.
	ErrChannelClosed = errors.New("stream: channel closed")
	// ErrStreamAborted is recorded when the channel closes while a tool
	// call is still running, i.e. the terminal event never arrived.
	ErrStreamAborted = errors.New("stream: stream aborted before terminal event")
)

const defaultBufferSize = 64

// EmitFunc appends an event to a stream. Handlers receive one bound to
// their active channel.
type EmitFunc func(*Event) error

// Channel is the append-only, ordered event stream by which a handler
// reports progress while producing or revising a document. Events are
// observed by the consumer in emission order. A tool-call event with
// status running must be followed, on the same call ID, by exactly one
// terminal event with status complete; a channel closed with a call still
// running is treated as abnormally terminated.
type Channel struct {
	mu      sync.Mutex
	ch      chan *Event
	running map[string]bool
	closed  bool
	err     error
}

// NewChannel creates a stream channel with the given buffer size. A
// non-positive size selects the default.
func NewChannel(buffer int) *Channel {
	if buffer <= 0 {
		buffer = defaultBufferSize
	}
	return &Channel{
		ch:      make(chan *Event, buffer),
		running: make(map[string]bool),
	}
}

// Emit appends an event to the stream. Emit tracks tool-call lifecycles:
// a running event opens a call, a complete event terminates it. A
// complete without a preceding running, or a second running on an open
// call, is a handler bug and rejected.
func (c *Channel) Emit(e *Event) error {
	if e == nil {
		return errors.New("stream: nil event")
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrChannelClosed
	}
	if e.Type == EventTypeToolCall && e.ToolCall != nil {
		switch e.ToolCall.Status {
		case ToolCallRunning:
			if c.running[e.ToolCall.ID] {
				c.mu.Unlock()
				return fmt.Errorf("stream: tool call %s already running", e.ToolCall.ID)
			}
			c.running[e.ToolCall.ID] = true
		case ToolCallComplete:
			if !c.running[e.ToolCall.ID] {
				c.mu.Unlock()
				return fmt.Errorf("stream: tool call %s not running", e.ToolCall.ID)
			}
			delete(c.running, e.ToolCall.ID)
		}
	}
	// The send happens under the lock so that a concurrent Close cannot
	// close the channel mid-send. A full buffer blocks the producing
	// handler, never the consumer: receives do not take the lock.
	c.ch <- e
	c.mu.Unlock()
	return nil
}

// Events returns the receive side of the stream. The channel is closed
// after the terminal event, or on abnormal termination; check Err after
// it is drained.
func (c *Channel) Events() <-chan *Event {
	return c.ch
}

// Close terminates the stream. If any tool call is still running the
// stream is considered abnormally terminated and ErrStreamAborted is
// recorded and returned.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.err
	}
	c.closed = true
	if len(c.running) > 0 {
		c.err = ErrStreamAborted
	}
	close(c.ch)
	return c.err
}

// CloseWithError terminates the stream recording the given failure.
func (c *Channel) CloseWithError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.err = err
	close(c.ch)
}

// Err reports the terminal state of the stream. It is nil for a stream
// that closed normally.
func (c *Channel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Replay creates a closed channel pre-loaded with a fixed event sequence.
// It allows consumers to be tested deterministically without timing.
func Replay(events []*Event) *Channel {
	c := NewChannel(len(events) + 1)
	for _, e := range events {
		if err := c.Emit(e); err != nil {
			break
		}
	}
	c.Close()
	return c
}
