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
	"context"

	"trpc.group/trpc-go/trpc-artifact-go/stream"
)

// CreateRequest carries the inputs of a document creation call.
type CreateRequest struct {
	// ID is the identity assigned to the new document.
	ID string
	// Title is the requested document title.
	Title string
	// Emit appends a progress event to the active stream. Emitted events
	// are advisory only; the handler's returned content is authoritative.
	Emit stream.EmitFunc
}

// UpdateRequest carries the inputs of a document update call.
type UpdateRequest struct {
	// Document is the latest persisted version being revised.
	Document *Document
	// Instruction describes the requested revision.
	Instruction string
	// Emit appends a progress event to the active stream.
	Emit stream.EmitFunc
}

// Capabilities describes what an editor can do with documents of a kind.
type Capabilities struct {
	// Editable reports whether the user may type into the document.
	Editable bool
	// Diffable reports whether historical versions can be compared.
	Diffable bool
	// MIMEType is the content type of persisted versions.
	MIMEType string
}

// ToolbarChoice is one option of a submenu-style toolbar item.
type ToolbarChoice struct {
	// ID identifies the choice within its item.
	ID string
	// Label is the display label of the choice.
	Label string
	// Description explains the choice to the user.
	Description string
	// Prompt is appended to the conversation when the choice is selected.
	Prompt string
}

// ToolbarItem is one kind-specific toolbar action. Exactly one of Prompt,
// OnSelect or Choices drives the item: a prompt item appends a user
// message to the conversation, a callback item runs against the current
// document, and a choices item opens a submenu selector.
type ToolbarItem struct {
	// ID identifies the item within its kind.
	ID string
	// Description explains the action to the user.
	Description string
	// Prompt, when non-empty, is the fixed instruction appended to the
	// conversation. The resulting turn will itself trigger an update
	// stream for the document.
	Prompt string
	// OnSelect, when set, is invoked directly with the current document.
	OnSelect func(ctx context.Context, doc *Document) error
	// Choices, when non-empty, makes the item a submenu selector.
	Choices []ToolbarChoice
}

// Handler bundles the behavior of one document kind. A Handler is
// registered once at process start and is immutable afterwards.
type Handler struct {
	// Kind is the document kind served by this handler.
	Kind Kind
	// Name is the display name used in tool-call events, e.g. "Text Document".
	Name string
	// OnCreate produces the initial content of a new document.
	OnCreate func(ctx context.Context, req *CreateRequest) (string, error)
	// OnUpdate produces revised content from the latest version and an
	// instruction.
	OnUpdate func(ctx context.Context, req *UpdateRequest) (string, error)
	// Capabilities describes the editor surface for this kind.
	Capabilities Capabilities
	// ToolbarItems is the ordered list of toolbar actions for this kind.
	ToolbarItems []ToolbarItem
	// Initialize, when set, prepares kind-specific metadata when a
	// document of this kind is opened. The returned value replaces the
	// metadata side channel wholesale.
	Initialize func(ctx context.Context, documentID string) (any, error)
}
