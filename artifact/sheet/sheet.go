//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package sheet provides the spreadsheet document kind. Content is a
// JSON-encoded grid of headers and rows.
package sheet

import (
	"context"
	"encoding/json"
	"fmt"

	"trpc.group/trpc-go/trpc-artifact-go/artifact"
	"trpc.group/trpc-go/trpc-artifact-go/stream"
)

const displayName = "Sheet Document"

// Grid is the content schema of a sheet document.
type Grid struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Encode serializes the grid as document content.
func (g *Grid) Encode() (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("sheet: encode grid: %w", err)
	}
	return string(data), nil
}

// Decode parses document content into a grid.
func Decode(content string) (*Grid, error) {
	var g Grid
	if err := json.Unmarshal([]byte(content), &g); err != nil {
		return nil, fmt.Errorf("sheet: decode grid: %w", err)
	}
	return &g, nil
}

func defaultGrid() *Grid {
	return &Grid{
		Headers: []string{"Column A", "Column B", "Column C"},
		Rows: [][]string{
			{"Data 1", "Data 2", "Data 3"},
			{"Data 4", "Data 5", "Data 6"},
		},
	}
}

// New creates the sheet kind handler.
func New() *artifact.Handler {
	return &artifact.Handler{
		Kind: artifact.KindSheet,
		Name: displayName,
		Capabilities: artifact.Capabilities{
			Editable: true,
			Diffable: false,
			MIMEType: "application/json",
		},
		ToolbarItems: []artifact.ToolbarItem{
			{
				ID:          "format-sheet",
				Description: "Format and clean data",
				Prompt:      "Can you please format and clean the data?",
			},
			{
				ID:          "analyze-sheet",
				Description: "Analyze and visualize data",
				Prompt:      "Can you please analyze and visualize the data by creating a new code artifact in python?",
			},
		},
		OnCreate: func(ctx context.Context, req *artifact.CreateRequest) (string, error) {
			if err := req.Emit(stream.NewToolCallEvent(req.ID, stream.ToolCallCreateDocument, stream.ToolCallRunning, displayName)); err != nil {
				return "", err
			}
			content, err := defaultGrid().Encode()
			if err != nil {
				return "", err
			}
			if err := req.Emit(stream.NewToolCallEvent(req.ID, stream.ToolCallCreateDocument, stream.ToolCallComplete, displayName)); err != nil {
				return "", err
			}
			return content, nil
		},
		OnUpdate: func(ctx context.Context, req *artifact.UpdateRequest) (string, error) {
			if err := req.Emit(stream.NewToolCallEvent(req.Document.ID, stream.ToolCallUpdateDocument, stream.ToolCallRunning, displayName)); err != nil {
				return "", err
			}
			content := req.Document.Content
			if content == "" {
				var err error
				if content, err = defaultGrid().Encode(); err != nil {
					return "", err
				}
			}
			if err := req.Emit(stream.NewToolCallEvent(req.Document.ID, stream.ToolCallUpdateDocument, stream.ToolCallComplete, displayName)); err != nil {
				return "", err
			}
			return content, nil
		},
	}
}
