//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package runner drives document generation: it resolves the kind
// handler, runs it against a stream channel on a worker pool, persists
// the authoritative result as a new version, and reconciles the version
// history and view state.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"trpc.group/trpc-go/trpc-artifact-go/artifact"
	"trpc.group/trpc-go/trpc-artifact-go/autosave"
	"trpc.group/trpc-go/trpc-artifact-go/history"
	"trpc.group/trpc-go/trpc-artifact-go/log"
	"trpc.group/trpc-go/trpc-artifact-go/stream"
	"trpc.group/trpc-go/trpc-artifact-go/view"
)

var tracer = otel.Tracer("trpc.group/trpc-go/trpc-artifact-go/runner")

// Runner errors.
var (
	// ErrDocumentNotFound is returned when updating an unknown document.
	ErrDocumentNotFound = errors.New("runner: document not found")
	// ErrSentinelDocument is returned when running a lifecycle operation
	// against the "init" sentinel.
	ErrSentinelDocument = errors.New("runner: operation against sentinel document")
)

const (
	defaultPoolSize   = 4
	defaultBufferSize = 64
)

// Runner orchestrates create and update streams for one session.
type Runner struct {
	registry   *artifact.Registry
	service    artifact.Service
	info       artifact.SessionInfo
	state      *view.State
	history    *history.History
	autosave   *autosave.Controller
	errHandler func(error)
	pool       *ants.Pool
	bufSize    int

	mu     sync.Mutex
	cancel context.CancelFunc
}

// Option configures a Runner.
type Option func(*Runner)

// WithSessionInfo sets the session scope used for persistence.
func WithSessionInfo(info artifact.SessionInfo) Option {
	return func(r *Runner) { r.info = info }
}

// WithState attaches the view state driven by streams.
func WithState(s *view.State) Option {
	return func(r *Runner) { r.state = s }
}

// WithHistory attaches the version history appended to on completion.
func WithHistory(h *history.History) Option {
	return func(r *Runner) { r.history = h }
}

// WithAutosave attaches the autosave controller notified of streamed
// versions.
func WithAutosave(c *autosave.Controller) Option {
	return func(r *Runner) { r.autosave = c }
}

// WithErrorHandler sets the surface persistence failures are reported
// to. Defaults to the package logger.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Runner) { r.errHandler = fn }
}

// WithPoolSize sets the handler worker pool size.
func WithPoolSize(size int) Option {
	return func(r *Runner) {
		if size > 0 {
			p, err := ants.NewPool(size)
			if err == nil {
				if r.pool != nil {
					r.pool.Release()
				}
				r.pool = p
			}
		}
	}
}

// WithChannelBufferSize sets the stream channel buffer size.
func WithChannelBufferSize(size int) Option {
	return func(r *Runner) {
		if size > 0 {
			r.bufSize = size
		}
	}
}

// New creates a Runner over the given registry and persistence service.
func New(registry *artifact.Registry, service artifact.Service, opts ...Option) (*Runner, error) {
	if registry == nil {
		return nil, errors.New("runner: nil registry")
	}
	if service == nil {
		return nil, errors.New("runner: nil service")
	}
	pool, err := ants.NewPool(defaultPoolSize)
	if err != nil {
		return nil, fmt.Errorf("runner: failed to create worker pool: %w", err)
	}
	r := &Runner{
		registry: registry,
		service:  service,
		errHandler: func(err error) {
			log.Errorf("runner: %v", err)
		},
		pool:    pool,
		bufSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// CreateDocument runs the kind's create handler and persists the first
// version of a new document identity. The returned channel carries the
// handler's progress events and closes after the terminal event; the
// version append happens before the close.
func (r *Runner) CreateDocument(ctx context.Context, id, title string, kind artifact.Kind) (<-chan *stream.Event, error) {
	// Unknown kind fails before any handler or side effect runs.
	h, err := r.registry.Lookup(kind)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = uuid.New().String()
	}
	if id == artifact.InitialDocumentID {
		return nil, ErrSentinelDocument
	}

	return r.run(ctx, "create_document", id, kind, func(runCtx context.Context, emit stream.EmitFunc) (*artifact.Document, error) {
		content, err := h.OnCreate(runCtx, &artifact.CreateRequest{
			ID:    id,
			Title: title,
			Emit:  emit,
		})
		if err != nil {
			return nil, err
		}
		return &artifact.Document{
			ID:      id,
			Title:   title,
			Kind:    kind,
			Content: content,
		}, nil
	})
}

// UpdateDocument runs the kind's update handler against the latest
// persisted version and persists the revision as a new version.
func (r *Runner) UpdateDocument(ctx context.Context, documentID, instruction string) (<-chan *stream.Event, error) {
	if documentID == "" || documentID == artifact.InitialDocumentID {
		return nil, ErrSentinelDocument
	}
	doc, err := r.service.GetDocument(ctx, r.info, documentID)
	if err != nil {
		return nil, fmt.Errorf("runner: load document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
	}
	h, err := r.registry.Lookup(doc.Kind)
	if err != nil {
		return nil, err
	}

	return r.run(ctx, "update_document", doc.ID, doc.Kind, func(runCtx context.Context, emit stream.EmitFunc) (*artifact.Document, error) {
		content, err := h.OnUpdate(runCtx, &artifact.UpdateRequest{
			Document:    doc,
			Instruction: instruction,
			Emit:        emit,
		})
		if err != nil {
			return nil, err
		}
		next := doc.Clone()
		next.Content = content
		return next, nil
	})
}

// run executes a handler invocation on the worker pool and wires its
// stream to the view state, history and autosave controller.
func (r *Runner) run(
	ctx context.Context,
	op string,
	documentID string,
	kind artifact.Kind,
	invoke func(ctx context.Context, emit stream.EmitFunc) (*artifact.Document, error),
) (<-chan *stream.Event, error) {
	ch := stream.NewChannel(r.bufSize)
	runCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()

	if r.state != nil {
		r.state.BeginStream()
		// Streamed deltas accumulate from scratch.
		r.state.SetContent("")
	}

	emit := func(e *stream.Event) error {
		if e != nil && e.Type == stream.EventTypeDelta && r.state != nil {
			r.state.AppendDelta(e.Delta)
		}
		return ch.Emit(e)
	}

	task := func() {
		// The status must return to idle even when the handler fails, so
		// the UI is never stuck showing a permanent loading state.
		defer func() {
			if r.state != nil {
				r.state.EndStream()
			}
			r.mu.Lock()
			if r.cancel != nil {
				r.cancel = nil
			}
			r.mu.Unlock()
			cancel()
		}()

		spanCtx, span := tracer.Start(runCtx, op)
		span.SetAttributes(
			attribute.String("document.id", documentID),
			attribute.String("document.kind", string(kind)),
		)
		defer span.End()

		doc, err := invoke(spanCtx, emit)
		if err != nil {
			// Stream failure: no version is appended; the user may retry
			// by re-invoking the same action.
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Warnf("runner: %s %s failed: %v", op, documentID, err)
			ch.CloseWithError(err)
			return
		}

		stored, err := r.service.CreateVersion(spanCtx, r.info, doc)
		if err != nil {
			// Persistence failure: the in-memory history is not updated,
			// so the UI never shows a version that failed to persist.
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			r.errHandler(fmt.Errorf("runner: persist %s %s: %w", op, documentID, err))
			ch.CloseWithError(err)
			return
		}

		r.appendVersion(stored)
		if r.state != nil {
			r.state.SetContent(stored.Content)
		}
		if r.autosave != nil {
			r.autosave.NoteRemoteVersion()
		}
		// Close validates the terminal-event contract: a tool call left
		// running marks the stream aborted.
		if err := ch.Close(); err != nil {
			log.Warnf("runner: %s %s: %v", op, documentID, err)
		}
	}

	if err := r.pool.Submit(task); err != nil {
		if r.state != nil {
			r.state.EndStream()
		}
		cancel()
		return nil, fmt.Errorf("runner: failed to submit task: %w", err)
	}
	return ch.Events(), nil
}

// appendVersion adds a streamed version to the history. The cursor jumps
// to the new version only when it already sits at the latest version in
// edit mode; a user viewing a historical version or a diff keeps their
// cursor until an explicit latest navigation.
func (r *Runner) appendVersion(doc *artifact.Document) {
	if r.history == nil {
		return
	}
	if r.history.IsCurrentVersion() && r.history.Mode() == history.ModeEdit {
		r.history.Append(doc)
		return
	}
	r.history.AppendPinned(doc)
}

// Stop cancels the active stream. Versions appended before the stop stay
// intact, the view status returns to idle, and unsaved local edits
// remain pending in the autosave controller.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if r.state != nil {
		r.state.EndStream()
	}
}

// Close releases the worker pool. Active streams are cancelled.
func (r *Runner) Close() {
	r.Stop()
	r.pool.Release()
}
