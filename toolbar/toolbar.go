//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package toolbar dispatches kind-specific tool actions: a selected
// action either appends a fixed instruction to the conversation, which
// will itself produce a streamed update, or runs a direct callback
// against the current document.
package toolbar

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"trpc.group/trpc-go/trpc-artifact-go/artifact"
)

// Dispatcher errors.
var (
	// ErrUnknownItem is returned when dispatching an item ID that is not
	// part of the kind's toolbar.
	ErrUnknownItem = errors.New("toolbar: unknown item")
	// ErrUnknownChoice is returned when selecting a choice that is not
	// part of the open submenu.
	ErrUnknownChoice = errors.New("toolbar: unknown choice")
	// ErrNoSubmenu is returned when selecting a choice while no submenu
	// is open.
	ErrNoSubmenu = errors.New("toolbar: no submenu open")
)

// Visibility is the toolbar display state.
type Visibility string

const (
	// VisibilityHidden hides the toolbar entirely.
	VisibilityHidden Visibility = "hidden"
	// VisibilityCompact shows the collapsed toolbar button.
	VisibilityCompact Visibility = "compact"
	// VisibilityExpanded shows the full tool list.
	VisibilityExpanded Visibility = "expanded"
	// VisibilitySubmenu shows one open submenu selector.
	VisibilitySubmenu Visibility = "submenu"
)

// Message is a conversational turn produced by a prompt action.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessageAppender receives prompt messages into the surrounding chat
// transcript.
type MessageAppender interface {
	AppendMessage(ctx context.Context, msg Message) error
}

// AppenderFunc adapts a function to the MessageAppender interface.
type AppenderFunc func(ctx context.Context, msg Message) error

// AppendMessage implements MessageAppender.
func (f AppenderFunc) AppendMessage(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// DocumentFunc supplies the current document context for callback items.
type DocumentFunc func() *artifact.Document

const defaultIdleTimeout = 2 * time.Second

// Dispatcher drives the toolbar of one open artifact through the state
// machine hidden -> compact -> expanded -> submenu-open. An idle timer
// collapses the toolbar after a period of no interaction; it is
// suppressed entirely while a stream is in flight.
type Dispatcher struct {
	mu          sync.Mutex
	items       []artifact.ToolbarItem
	appender    MessageAppender
	document    DocumentFunc
	visibility  Visibility
	openSubmenu string
	streaming   bool
	idleTimeout time.Duration
	timer       *time.Timer
	closed      bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithIdleTimeout sets the no-interaction interval after which the
// toolbar hides.
func WithIdleTimeout(d time.Duration) Option {
	return func(t *Dispatcher) {
		if d > 0 {
			t.idleTimeout = d
		}
	}
}

// WithDocumentFunc sets the supplier of the current document passed to
// callback items.
func WithDocumentFunc(fn DocumentFunc) Option {
	return func(t *Dispatcher) {
		t.document = fn
	}
}

// NewDispatcher creates a dispatcher over the kind's ordered tool items.
func NewDispatcher(items []artifact.ToolbarItem, appender MessageAppender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		items:       items,
		appender:    appender,
		visibility:  VisibilityHidden,
		idleTimeout: defaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Items returns the ordered tool items.
func (d *Dispatcher) Items() []artifact.ToolbarItem {
	return d.items
}

// Visibility returns the current display state.
func (d *Dispatcher) Visibility() Visibility {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visibility
}

// OpenSubmenuID returns the ID of the open submenu item, or "".
func (d *Dispatcher) OpenSubmenuID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.openSubmenu
}

// Show reveals the collapsed toolbar. No-op while streaming.
func (d *Dispatcher) Show() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.streaming || d.closed {
		return
	}
	if d.visibility == VisibilityHidden {
		d.visibility = VisibilityCompact
	}
	d.resetIdleTimerLocked()
}

// Expand reveals the full tool list.
func (d *Dispatcher) Expand() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.streaming || d.closed {
		return
	}
	if d.visibility != VisibilitySubmenu {
		d.visibility = VisibilityExpanded
	}
	d.resetIdleTimerLocked()
}

// OpenSubmenu opens the submenu of a selector item. At most one submenu
// is open at a time; opening another replaces it.
func (d *Dispatcher) OpenSubmenu(itemID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.streaming || d.closed {
		return nil
	}
	item := d.findLocked(itemID)
	if item == nil {
		return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	if len(item.Choices) == 0 {
		return fmt.Errorf("%w: %s has no choices", ErrUnknownItem, itemID)
	}
	d.openSubmenu = itemID
	d.visibility = VisibilitySubmenu
	d.resetIdleTimerLocked()
	return nil
}

// Select dispatches a non-submenu item: a prompt item appends a user
// message to the conversation, a callback item runs with the current
// document.
func (d *Dispatcher) Select(ctx context.Context, itemID string) error {
	d.mu.Lock()
	item := d.findLocked(itemID)
	if item == nil {
		d.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	if len(item.Choices) > 0 {
		d.mu.Unlock()
		return d.OpenSubmenu(itemID)
	}
	d.openSubmenu = ""
	if d.visibility == VisibilitySubmenu {
		d.visibility = VisibilityExpanded
	}
	d.resetIdleTimerLocked()
	d.mu.Unlock()

	return d.dispatch(ctx, item, item.Prompt)
}

// SelectChoice dispatches one choice of the open submenu and closes it.
func (d *Dispatcher) SelectChoice(ctx context.Context, choiceID string) error {
	d.mu.Lock()
	if d.openSubmenu == "" {
		d.mu.Unlock()
		return ErrNoSubmenu
	}
	item := d.findLocked(d.openSubmenu)
	if item == nil {
		d.mu.Unlock()
		return ErrNoSubmenu
	}
	var choice *artifact.ToolbarChoice
	for i := range item.Choices {
		if item.Choices[i].ID == choiceID {
			choice = &item.Choices[i]
			break
		}
	}
	if choice == nil {
		d.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownChoice, choiceID)
	}
	// Selecting a choice closes the submenu.
	d.openSubmenu = ""
	d.visibility = VisibilityExpanded
	d.resetIdleTimerLocked()
	d.mu.Unlock()

	return d.dispatch(ctx, item, choice.Prompt)
}

// dispatch performs the action of an item outside the lock.
func (d *Dispatcher) dispatch(ctx context.Context, item *artifact.ToolbarItem, prompt string) error {
	if prompt != "" {
		if d.appender == nil {
			return errors.New("toolbar: no message appender configured")
		}
		return d.appender.AppendMessage(ctx, Message{Role: "user", Content: prompt})
	}
	if item.OnSelect != nil {
		var doc *artifact.Document
		if d.document != nil {
			doc = d.document()
		}
		return item.OnSelect(ctx, doc)
	}
	return nil
}

// SetStreaming records stream start or end. Stream start forces the
// toolbar hidden and suppresses the idle timer until the stream ends.
func (d *Dispatcher) SetStreaming(streaming bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.streaming = streaming
	if streaming {
		d.hideLocked()
	}
}

// Stop forces the toolbar hidden regardless of current state.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hideLocked()
}

// Close cancels the idle timer. The dispatcher must not be used after
// Close.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Dispatcher) hideLocked() {
	d.visibility = VisibilityHidden
	d.openSubmenu = ""
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// resetIdleTimerLocked restarts the collapse timer. Suppressed while
// streaming.
func (d *Dispatcher) resetIdleTimerLocked() {
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.streaming || d.closed {
		d.timer = nil
		return
	}
	d.timer = time.AfterFunc(d.idleTimeout, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if !d.closed && !d.streaming {
			d.hideLocked()
		}
	})
}

func (d *Dispatcher) findLocked(itemID string) *artifact.ToolbarItem {
	for i := range d.items {
		if d.items[i].ID == itemID {
			return &d.items[i]
		}
	}
	return nil
}
