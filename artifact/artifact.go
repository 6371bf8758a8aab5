//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package artifact provides the document model for conversational
// artifacts: long-lived documents created and revised by generation
// handlers alongside a chat transcript, versioned on every edit.
package artifact

import "time"

// Kind identifies a document kind. The set of kinds is open: new kinds
// are added by registering a Handler, never by changing core logic.
type Kind string

// Built-in document kinds.
const (
	KindText  Kind = "text"
	KindCode  Kind = "code"
	KindImage Kind = "image"
	KindSheet Kind = "sheet"
)

// InitialDocumentID is the sentinel document ID meaning no document has
// been associated yet. Lifecycle hooks must never run against it.
const InitialDocumentID = "init"

// Document is one persisted version of an artifact. A document identity
// (ID) may have many versions; each version is a distinct stored record
// with its own CreatedAt and Content. Versions of one identity are
// totally ordered by CreatedAt, and a stored version is never mutated:
// every edit produces a new version record.
type Document struct {
	// ID is the document identity shared by all versions.
	ID string `json:"id"`
	// Title is the display title of the document.
	Title string `json:"title"`
	// Kind is the document kind.
	Kind Kind `json:"kind"`
	// Content is the full content of this version.
	Content string `json:"content"`
	// CreatedAt is the creation time of this version.
	CreatedAt time.Time `json:"createdAt"`
}

// Clone creates a copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	clone := *d
	return &clone
}

// SessionInfo contains the session scope for document operations.
type SessionInfo struct {
	// AppName is the name of the application.
	AppName string
	// UserID is the ID of the user.
	UserID string
	// SessionID is the ID of the session.
	SessionID string
}
