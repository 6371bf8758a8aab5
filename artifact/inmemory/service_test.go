//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-artifact-go/artifact"
)

var testInfo = artifact.SessionInfo{AppName: "app", UserID: "user", SessionID: "sess"}

func TestCreateVersionAndGetDocument(t *testing.T) {
	s := NewService()
	ctx := context.Background()

	stored, err := s.CreateVersion(ctx, testInfo, &artifact.Document{
		ID:      "doc-1",
		Title:   "Essay",
		Kind:    artifact.KindText,
		Content: "first",
	})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.CreatedAt.IsZero())

	got, err := s.GetDocument(ctx, testInfo, "doc-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "first", got.Content)
}

func TestCreateVersionValidation(t *testing.T) {
	s := NewService()
	ctx := context.Background()

	_, err := s.CreateVersion(ctx, testInfo, nil)
	assert.Error(t, err)

	_, err = s.CreateVersion(ctx, testInfo, &artifact.Document{})
	assert.Error(t, err)
}

func TestListVersionsOrderedByCreation(t *testing.T) {
	s := NewService()
	ctx := context.Background()

	for _, content := range []string{"v0", "v1", "v2"} {
		_, err := s.CreateVersion(ctx, testInfo, &artifact.Document{
			ID:      "doc-1",
			Kind:    artifact.KindText,
			Content: content,
		})
		require.NoError(t, err)
	}

	versions, err := s.ListVersions(ctx, testInfo, "doc-1")
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, "v0", versions[0].Content)
	assert.Equal(t, "v2", versions[2].Content)

	// Rapid commits must still be totally ordered by CreatedAt.
	assert.True(t, versions[0].CreatedAt.Before(versions[1].CreatedAt))
	assert.True(t, versions[1].CreatedAt.Before(versions[2].CreatedAt))
}

func TestGetDocumentUnknownIdentity(t *testing.T) {
	s := NewService()

	doc, err := s.GetDocument(context.Background(), testInfo, "missing")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestStoredVersionsAreImmutable(t *testing.T) {
	s := NewService()
	ctx := context.Background()

	_, err := s.CreateVersion(ctx, testInfo, &artifact.Document{ID: "doc-1", Content: "original"})
	require.NoError(t, err)

	got, err := s.GetDocument(ctx, testInfo, "doc-1")
	require.NoError(t, err)
	got.Content = "mutated"

	again, err := s.GetDocument(ctx, testInfo, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "original", again.Content)
}

func TestSessionIsolation(t *testing.T) {
	s := NewService()
	ctx := context.Background()
	other := artifact.SessionInfo{AppName: "app", UserID: "user", SessionID: "other"}

	_, err := s.CreateVersion(ctx, testInfo, &artifact.Document{ID: "doc-1", Content: "mine"})
	require.NoError(t, err)

	doc, err := s.GetDocument(ctx, other, "doc-1")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestDeleteDocument(t *testing.T) {
	s := NewService()
	ctx := context.Background()

	_, err := s.CreateVersion(ctx, testInfo, &artifact.Document{ID: "doc-1", Content: "v0"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteDocument(ctx, testInfo, "doc-1"))

	doc, err := s.GetDocument(ctx, testInfo, "doc-1")
	require.NoError(t, err)
	assert.Nil(t, doc)

	// Deleting an unknown identity is not an error.
	assert.NoError(t, s.DeleteDocument(ctx, testInfo, "missing"))
}
