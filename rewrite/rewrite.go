//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package rewrite defines the model-backed content rewriter used by kind
// handlers that revise documents from natural-language instructions.
package rewrite

import "context"

// Rewriter revises document content according to an instruction. The
// emit callback, when non-nil, receives partial content fragments as
// they are produced; the returned string is the authoritative result.
type Rewriter interface {
	Rewrite(ctx context.Context, content, instruction string, emit func(delta string)) (string, error)
}

// Func adapts a function to the Rewriter interface.
type Func func(ctx context.Context, content, instruction string, emit func(delta string)) (string, error)

// Rewrite implements Rewriter.
func (f Func) Rewrite(ctx context.Context, content, instruction string, emit func(delta string)) (string, error) {
	return f(ctx, content, instruction, emit)
}
