//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package history holds the client-side version history of one document
// identity: an append-only sequence of snapshots, a cursor, and a display
// mode.
package history

import (
	"errors"
	"fmt"
	"sync"

	"trpc.group/trpc-go/trpc-artifact-go/artifact"
)

// ErrOutOfRange is returned when a version index falls outside the
// current history. Navigation never produces it: Navigate clamps.
var ErrOutOfRange = errors.New("history: version index out of range")

// Mode is the display mode of the history.
type Mode string

const (
	// ModeEdit shows the selected version for editing.
	ModeEdit Mode = "edit"
	// ModeDiff compares the frozen baseline version against the latest.
	ModeDiff Mode = "diff"
)

// Direction is a navigation request.
type Direction string

const (
	// DirectionPrev moves the cursor one version back.
	DirectionPrev Direction = "prev"
	// DirectionNext moves the cursor one version forward.
	DirectionNext Direction = "next"
	// DirectionToggle flips between edit and diff mode without moving.
	DirectionToggle Direction = "toggle"
	// DirectionLatest jumps to the latest version in edit mode.
	DirectionLatest Direction = "latest"
)

// History is the ordered version sequence of one document identity.
// Index-based navigation keeps UI controls trivial and decouples cursor
// semantics from wall-clock time: streaming may append a version while
// the user is mid-navigation, and the cursor must stay put.
//
// Invariant: 0 <= CurrentIndex() < Len() whenever the history is
// non-empty.
type History struct {
	mu       sync.Mutex
	versions []*artifact.Document
	current  int
	mode     Mode
	baseline int
}

// New creates an empty history in edit mode.
func New() *History {
	return &History{mode: ModeEdit}
}

// Load replaces the version sequence, e.g. from Service.ListVersions when
// re-opening a document. The cursor jumps to the latest version.
func (h *History) Load(docs []*artifact.Document) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.versions = make([]*artifact.Document, len(docs))
	copy(h.versions, docs)
	h.current = len(h.versions) - 1
	if h.current < 0 {
		h.current = 0
	}
	h.mode = ModeEdit
}

// Append adds a version to the end and jumps the cursor to it, resetting
// the mode to edit.
func (h *History) Append(doc *artifact.Document) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.versions = append(h.versions, doc)
	h.current = len(h.versions) - 1
	h.mode = ModeEdit
}

// AppendPinned adds a version to the end without moving the cursor or
// changing the mode. Used for background appends while the user views a
// historical version: the cursor is sticky until an explicit latest
// navigation.
func (h *History) AppendPinned(doc *artifact.Document) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.versions = append(h.versions, doc)
}

// Navigate moves the cursor or flips the mode. It is synchronous and
// total with respect to the history length at call time; indexes are
// clamped, never surfaced as errors.
func (h *History) Navigate(d Direction) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.versions) == 0 {
		return
	}
	latest := len(h.versions) - 1

	switch d {
	case DirectionPrev:
		if h.current > 0 {
			h.current--
		}
	case DirectionNext:
		if h.current < latest {
			h.current++
		}
		if h.current == latest {
			h.mode = ModeEdit
		}
	case DirectionToggle:
		if h.mode == ModeEdit {
			h.mode = ModeDiff
			// Freeze the visible index as the comparison target
			// against latest.
			h.baseline = h.current
		} else {
			h.mode = ModeEdit
		}
	case DirectionLatest:
		h.current = latest
		h.mode = ModeEdit
	}
}

// ContentAt returns the content of the version at the given index.
func (h *History) ContentAt(index int) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if index < 0 || index >= len(h.versions) {
		return "", fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, len(h.versions))
	}
	return h.versions[index].Content, nil
}

// Current returns the version under the cursor, or false for an empty
// history. An empty history means "no content available", not an error.
func (h *History) Current() (*artifact.Document, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.versions) == 0 {
		return nil, false
	}
	return h.versions[h.current], true
}

// CurrentIndex returns the cursor position.
func (h *History) CurrentIndex() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// IsCurrentVersion reports whether the cursor is at the latest version.
// An empty history counts as current.
func (h *History) IsCurrentVersion() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.versions) == 0 || h.current == len(h.versions)-1
}

// Mode returns the display mode.
func (h *History) Mode() Mode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mode
}

// DiffBaseline returns the frozen baseline index of the active diff view.
// It is meaningful only while Mode() == ModeDiff.
func (h *History) DiffBaseline() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.baseline
}

// Len returns the number of versions.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.versions)
}

// Versions returns a copy of the version sequence.
func (h *History) Versions() []*artifact.Document {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*artifact.Document, len(h.versions))
	copy(out, h.versions)
	return out
}
