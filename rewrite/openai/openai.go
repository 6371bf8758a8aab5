//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package openai provides an OpenAI-backed implementation of the content
// rewriter. The API key is read from OPENAI_API_KEY unless provided via
// options.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const systemPrompt = "You are a writing assistant. Rewrite the given document " +
	"according to the instruction. Reply with the full updated document only, " +
	"no commentary."

// Model is an OpenAI-backed rewriter.
type Model struct {
	client openai.Client
	name   string
}

// Option configures the Model.
type Option func(*options)

type options struct {
	apiKey        string
	baseURL       string
	openaiOptions []openaiopt.RequestOption
}

// WithAPIKey sets the API key. If not provided, the client falls back to
// the OPENAI_API_KEY environment variable.
func WithAPIKey(apiKey string) Option {
	return func(o *options) { o.apiKey = apiKey }
}

// WithBaseURL sets a custom API endpoint, e.g. for OpenAI-compatible
// providers.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithOpenAIOptions appends raw request options passed through to the
// underlying client.
func WithOpenAIOptions(opts ...openaiopt.RequestOption) Option {
	return func(o *options) { o.openaiOptions = append(o.openaiOptions, opts...) }
}

// New creates a rewriter backed by the named chat model.
func New(name string, opts ...Option) *Model {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	var clientOpts []openaiopt.RequestOption
	if o.apiKey != "" {
		clientOpts = append(clientOpts, openaiopt.WithAPIKey(o.apiKey))
	}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(o.baseURL))
	}
	clientOpts = append(clientOpts, o.openaiOptions...)
	return &Model{
		client: openai.NewClient(clientOpts...),
		name:   name,
	}
}

// Rewrite implements rewrite.Rewriter using a streaming chat completion.
// Each streamed fragment is forwarded to emit; the accumulated final
// message is returned.
func (m *Model) Rewrite(ctx context.Context, content, instruction string, emit func(delta string)) (string, error) {
	userPrompt := fmt.Sprintf("Document:\n%s\n\nInstruction:\n%s", content, instruction)
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(m.name),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemPrompt),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(userPrompt),
					},
				},
			},
		},
	}

	stream := m.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	acc := openai.ChatCompletionAccumulator{}
	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" && emit != nil {
			emit(chunk.Choices[0].Delta.Content)
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("openai rewrite: %w", err)
	}
	if len(acc.Choices) == 0 {
		return "", errors.New("openai rewrite: empty response")
	}
	return acc.Choices[0].Message.Content, nil
}
