//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package autosave reconciles local user edits against the version
// history: it debounces rapid edits into a single committed version,
// tracks the dirty flag, and arbitrates between pending local edits and
// versions appended by a background stream.
package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"trpc.group/trpc-go/trpc-artifact-go/log"
)

// ErrClosed is returned when editing or flushing a closed controller.
var ErrClosed = errors.New("autosave: controller closed")

// DefaultInterval is the debounce window applied between the last edit
// and the commit. Human-typing scale.
const DefaultInterval = 300 * time.Millisecond

// CommitFunc persists one new version with the given content.
type CommitFunc func(ctx context.Context, content string) error

// Controller debounces local edits into committed versions.
//
// Conflict policy between a pending local edit and a concurrently
// streamed version (whole-content, no field merge):
//   - stream version arrives while clean: the streamed version is
//     authoritative, nothing is committed locally;
//   - stream version arrives while dirty: the pending edit still commits
//     after its own debounce window (the user's uncommitted keystrokes
//     win over the remote snapshot);
//   - a remote append racing the debounce commit is serialized by the
//     controller mutex; whichever enters first is observed first, so a
//     remote append that wins the race is simply an earlier version and
//     the local commit lands after it. Remote wins exact ties by arriving
//     through NoteRemoteVersion before the timer callback can run.
type Controller struct {
	mu       sync.Mutex
	commit   CommitFunc
	interval time.Duration
	timer    *time.Timer
	dirty    bool
	pending  string
	closed   bool
	// commitCtx bounds commits triggered by the debounce timer.
	commitCtx context.Context
}

// Option configures a Controller.
type Option func(*Controller)

// WithInterval sets the debounce window.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithCommitContext sets the context passed to timer-triggered commits.
// Defaults to context.Background().
func WithCommitContext(ctx context.Context) Option {
	return func(c *Controller) {
		c.commitCtx = ctx
	}
}

// New creates a controller committing through the given function.
func New(commit CommitFunc, opts ...Option) *Controller {
	c := &Controller{
		commit:    commit,
		interval:  DefaultInterval,
		commitCtx: context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnEdit records a local mutation. It does not commit: it marks the
// controller dirty and starts or resets the debounce timer. When the
// timer fires with no further edits, exactly one version is committed
// with the latest content.
func (c *Controller) OnEdit(content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.pending = content
	c.dirty = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.interval, c.fire)
	return nil
}

// fire is the debounce timer callback.
func (c *Controller) fire() {
	c.mu.Lock()
	if c.closed || !c.dirty {
		c.mu.Unlock()
		return
	}
	content := c.pending
	ctx := c.commitCtx
	c.dirty = false
	c.timer = nil
	c.mu.Unlock()

	if err := c.commit(ctx, content); err != nil {
		// The version was not persisted; keep the content pending so a
		// later edit or flush can retry it.
		log.Errorf("autosave: commit failed: %v", err)
		c.mu.Lock()
		if !c.closed && !c.dirty {
			c.dirty = true
			c.pending = content
		}
		c.mu.Unlock()
	}
}

// Flush forces an immediate commit of any pending edit. The debounce
// timer is cancelled first so the edit cannot commit twice. Used before
// navigation away and on explicit save actions.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.dirty {
		c.mu.Unlock()
		return nil
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	content := c.pending
	c.dirty = false
	c.mu.Unlock()

	if err := c.commit(ctx, content); err != nil {
		c.mu.Lock()
		if !c.closed && !c.dirty {
			c.dirty = true
			c.pending = content
		}
		c.mu.Unlock()
		return err
	}
	return nil
}

// NoteRemoteVersion records that a streamed version was appended to the
// history. A clean controller has nothing pending, so the remote version
// is authoritative; a dirty controller keeps its pending edit, which
// commits after its own debounce window.
func (c *Controller) NoteRemoteVersion() {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Nothing to cancel when clean; a pending dirty edit deliberately
	// survives the remote append (local wins).
}

// Dirty reports whether an uncommitted edit is pending.
func (c *Controller) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Close cancels any pending timer without committing. Used on unmount so
// a stale timer cannot commit against a document that is no longer
// active. Unsaved content is discarded by Close; call Flush first to
// keep it.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.dirty = false
	c.pending = ""
}
