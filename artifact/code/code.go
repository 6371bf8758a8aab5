//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package code provides the code document kind.
package code

import (
	"context"

	"trpc.group/trpc-go/trpc-artifact-go/artifact"
	"trpc.group/trpc-go/trpc-artifact-go/stream"
)

const displayName = "Code Document"

// placeholder content returned until a model-backed generator is wired.
const (
	createPlaceholder = "// Add your code here"
	updatePlaceholder = "// Updated code"
)

// Output is one console record produced by executing the document.
type Output struct {
	ID       string `json:"id"`
	Contents string `json:"contents"`
	Status   string `json:"status"`
}

// Metadata is the code-kind side channel: execution results. It is not
// versioned.
type Metadata struct {
	Outputs []Output `json:"outputs"`
}

// New creates the code kind handler.
func New() *artifact.Handler {
	return &artifact.Handler{
		Kind: artifact.KindCode,
		Name: displayName,
		Capabilities: artifact.Capabilities{
			Editable: true,
			Diffable: true,
			MIMEType: "text/plain",
		},
		ToolbarItems: []artifact.ToolbarItem{
			{
				ID:          "add-comments",
				Description: "Add comments",
				Prompt:      "Add comments to the code snippet for understanding.",
			},
			{
				ID:          "add-logs",
				Description: "Add logs",
				Prompt:      "Add logs to the code snippet for debugging.",
			},
		},
		OnCreate: func(ctx context.Context, req *artifact.CreateRequest) (string, error) {
			if err := req.Emit(stream.NewToolCallEvent(req.ID, stream.ToolCallCreateDocument, stream.ToolCallRunning, displayName)); err != nil {
				return "", err
			}
			if err := req.Emit(stream.NewToolCallEvent(req.ID, stream.ToolCallCreateDocument, stream.ToolCallComplete, displayName)); err != nil {
				return "", err
			}
			return createPlaceholder, nil
		},
		OnUpdate: func(ctx context.Context, req *artifact.UpdateRequest) (string, error) {
			if err := req.Emit(stream.NewToolCallEvent(req.Document.ID, stream.ToolCallUpdateDocument, stream.ToolCallRunning, displayName)); err != nil {
				return "", err
			}
			if err := req.Emit(stream.NewToolCallEvent(req.Document.ID, stream.ToolCallUpdateDocument, stream.ToolCallComplete, displayName)); err != nil {
				return "", err
			}
			if req.Document.Content != "" {
				return req.Document.Content, nil
			}
			return updatePlaceholder, nil
		},
		Initialize: func(ctx context.Context, documentID string) (any, error) {
			return &Metadata{Outputs: []Output{}}, nil
		},
	}
}
