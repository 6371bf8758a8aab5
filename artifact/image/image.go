//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package image provides the image document kind. Content is a JSON
// image descriptor; the engine never interprets it.
package image

import (
	"context"

	"trpc.group/trpc-go/trpc-artifact-go/artifact"
	"trpc.group/trpc-go/trpc-artifact-go/stream"
)

const displayName = "Image Document"

const (
	createPlaceholder = `{"placeholder": "image data would go here"}`
	updatePlaceholder = `{"placeholder": "updated image data would go here"}`
)

// New creates the image kind handler.
func New() *artifact.Handler {
	return &artifact.Handler{
		Kind: artifact.KindImage,
		Name: displayName,
		Capabilities: artifact.Capabilities{
			Editable: false,
			Diffable: false,
			MIMEType: "application/json",
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
	}
}
