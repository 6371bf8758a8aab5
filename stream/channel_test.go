//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

package stream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelPreservesEmissionOrder(t *testing.T) {
	c := NewChannel(8)

	require.NoError(t, c.Emit(NewToolCallEvent("doc-1", ToolCallCreateDocument, ToolCallRunning, "Text Document")))
	require.NoError(t, c.Emit(NewDeltaEvent("one")))
	require.NoError(t, c.Emit(NewDeltaEvent("two")))
	require.NoError(t, c.Emit(NewToolCallEvent("doc-1", ToolCallCreateDocument, ToolCallComplete, "Text Document")))
	require.NoError(t, c.Close())

	var got []*Event
	for e := range c.Events() {
		got = append(got, e)
	}
	require.Len(t, got, 4)
	assert.Equal(t, EventTypeToolCall, got[0].Type)
	assert.Equal(t, "one", got[1].Delta)
	assert.Equal(t, "two", got[2].Delta)
	assert.Equal(t, ToolCallComplete, got[3].ToolCall.Status)
	assert.NoError(t, c.Err())
}

func TestChannelRejectsNilEvent(t *testing.T) {
	c := NewChannel(1)
	assert.Error(t, c.Emit(nil))
}

func TestChannelRejectsEmitAfterClose(t *testing.T) {
	c := NewChannel(1)
	require.NoError(t, c.Close())

	err := c.Emit(NewDeltaEvent("late"))
	assert.ErrorIs(t, err, ErrChannelClosed)
}

func TestChannelRejectsCompleteWithoutRunning(t *testing.T) {
	c := NewChannel(1)

	err := c.Emit(NewToolCallEvent("doc-1", ToolCallCreateDocument, ToolCallComplete, "Text Document"))
	assert.Error(t, err)
}

func TestChannelRejectsDoubleRunning(t *testing.T) {
	c := NewChannel(4)

	require.NoError(t, c.Emit(NewToolCallEvent("doc-1", ToolCallCreateDocument, ToolCallRunning, "Text Document")))
	err := c.Emit(NewToolCallEvent("doc-1", ToolCallCreateDocument, ToolCallRunning, "Text Document"))
	assert.Error(t, err)
}

func TestChannelAbortedWhenCallLeftRunning(t *testing.T) {
	c := NewChannel(4)
	require.NoError(t, c.Emit(NewToolCallEvent("doc-1", ToolCallUpdateDocument, ToolCallRunning, "Text Document")))

	err := c.Close()
	assert.ErrorIs(t, err, ErrStreamAborted)
	assert.ErrorIs(t, c.Err(), ErrStreamAborted)

	// Close is idempotent and keeps reporting the recorded state.
	assert.ErrorIs(t, c.Close(), ErrStreamAborted)
}

func TestChannelCloseWithError(t *testing.T) {
	c := NewChannel(1)
	cause := errors.New("handler blew up")
	c.CloseWithError(cause)

	assert.ErrorIs(t, c.Err(), cause)
	_, open := <-c.Events()
	assert.False(t, open)

	// A later CloseWithError must not override the recorded failure.
	c.CloseWithError(errors.New("other"))
	assert.ErrorIs(t, c.Err(), cause)
}

func TestReplay(t *testing.T) {
	events := []*Event{
		NewToolCallEvent("doc-1", ToolCallCreateDocument, ToolCallRunning, "Sheet Document"),
		NewDeltaEvent("cell"),
		NewToolCallEvent("doc-1", ToolCallCreateDocument, ToolCallComplete, "Sheet Document"),
	}
	c := Replay(events)

	var got []*Event
	for e := range c.Events() {
		got = append(got, e)
	}
	require.Len(t, got, 3)
	assert.NoError(t, c.Err())
}
