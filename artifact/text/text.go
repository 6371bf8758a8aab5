//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package text provides the text document kind: markdown prose with
// suggestion overlays and reading-level tooling.
package text

import (
	"context"

	"trpc.group/trpc-go/trpc-artifact-go/artifact"
	"trpc.group/trpc-go/trpc-artifact-go/rewrite"
	"trpc.group/trpc-go/trpc-artifact-go/stream"
)

const displayName = "Text Document"

// Suggestion is one proposed edit overlaid on the document.
type Suggestion struct {
	ID            string `json:"id"`
	OriginalText  string `json:"originalText"`
	SuggestedText string `json:"suggestedText"`
	Description   string `json:"description"`
	Resolved      bool   `json:"isResolved"`
}

// Metadata is the text-kind side channel attached to an open document.
// It is not versioned.
type Metadata struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Option configures the text handler.
type Option func(*options)

type options struct {
	rewriter rewrite.Rewriter
}

// WithRewriter sets a model-backed rewriter for update instructions.
// Without one, updates append the instruction to the existing content.
func WithRewriter(rw rewrite.Rewriter) Option {
	return func(o *options) { o.rewriter = rw }
}

// ReadingLevels are the choices of the reading-level selector.
var ReadingLevels = []artifact.ToolbarChoice{
	{ID: "elementary", Label: "Elementary", Description: "Simple explanations for young readers", Prompt: "Rewrite this at an elementary reading level."},
	{ID: "middle", Label: "Middle School", Description: "Clear explanations with basic concepts", Prompt: "Rewrite this at a middle school reading level."},
	{ID: "current", Label: "Keep current level", Description: "Continue with the current style", Prompt: "Keep the current reading level and polish the wording."},
	{ID: "high", Label: "High School", Description: "More detailed with some technical terms", Prompt: "Rewrite this at a high school reading level."},
	{ID: "college", Label: "College", Description: "In-depth coverage with technical details", Prompt: "Rewrite this at a college reading level."},
	{ID: "graduate", Label: "Graduate", Description: "Advanced analysis with specialized vocabulary", Prompt: "Rewrite this at a graduate reading level."},
}

// New creates the text kind handler.
func New(opts ...Option) *artifact.Handler {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return &artifact.Handler{
		Kind: artifact.KindText,
		Name: displayName,
		Capabilities: artifact.Capabilities{
			Editable: true,
			Diffable: true,
			MIMEType: "text/markdown",
		},
		ToolbarItems: []artifact.ToolbarItem{
			{
				ID:          "final-polish",
				Description: "Add final polish",
				Prompt:      "Please add final polish and check for grammar, add section titles for better structure, and ensure everything reads smoothly.",
			},
			{
				ID:          "request-suggestions",
				Description: "Request suggestions",
				Prompt:      "Please add suggestions you have that could improve the writing.",
			},
			{
				ID:          "adjust-reading-level",
				Description: "Adjust reading level",
				Choices:     ReadingLevels,
			},
		},
		OnCreate: func(ctx context.Context, req *artifact.CreateRequest) (string, error) {
			if err := req.Emit(stream.NewToolCallEvent(req.ID, stream.ToolCallCreateDocument, stream.ToolCallRunning, displayName)); err != nil {
				return "", err
			}
			if err := req.Emit(stream.NewToolCallEvent(req.ID, stream.ToolCallCreateDocument, stream.ToolCallComplete, displayName)); err != nil {
				return "", err
			}
			// Text documents start empty.
			return "", nil
		},
		OnUpdate: func(ctx context.Context, req *artifact.UpdateRequest) (string, error) {
			if err := req.Emit(stream.NewToolCallEvent(req.Document.ID, stream.ToolCallUpdateDocument, stream.ToolCallRunning, displayName)); err != nil {
				return "", err
			}
			content, err := updateContent(ctx, o.rewriter, req)
			if err != nil {
				return "", err
			}
			if err := req.Emit(stream.NewToolCallEvent(req.Document.ID, stream.ToolCallUpdateDocument, stream.ToolCallComplete, displayName)); err != nil {
				return "", err
			}
			return content, nil
		},
		Initialize: func(ctx context.Context, documentID string) (any, error) {
			return &Metadata{Suggestions: []Suggestion{}}, nil
		},
	}
}

func updateContent(ctx context.Context, rw rewrite.Rewriter, req *artifact.UpdateRequest) (string, error) {
	if rw != nil {
		return rw.Rewrite(ctx, req.Document.Content, req.Instruction, func(delta string) {
			// Deltas are advisory; emit failures must not abort the model
			// call mid-stream.
			_ = req.Emit(stream.NewDeltaEvent(delta))
		})
	}
	existing := req.Document.Content
	if existing == "" {
		return req.Instruction, nil
	}
	return existing + "\n\n" + req.Instruction, nil
}
