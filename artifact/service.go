//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

package artifact

import "context"

// Service defines the persistence boundary for documents. A version, once
// acknowledged by CreateVersion, is retrievable; the engine never shows a
// version that failed to persist.
type Service interface {
	// CreateVersion persists a new version of the document identity
	// doc.ID within the session scope. The service assigns CreatedAt and
	// returns the stored record. Versions of one identity are totally
	// ordered by CreatedAt.
	CreateVersion(ctx context.Context, info SessionInfo, doc *Document) (*Document, error)

	// ListVersions returns all versions of a document identity in
	// creation order. A missing identity yields an empty list, not an
	// error.
	ListVersions(ctx context.Context, info SessionInfo, documentID string) ([]*Document, error)

	// GetDocument returns the latest version of a document identity, or
	// nil if the identity is unknown.
	GetDocument(ctx context.Context, info SessionInfo, documentID string) (*Document, error)

	// DeleteDocument removes all versions of a document identity.
	// Deleting an unknown identity is not an error.
	DeleteDocument(ctx context.Context, info SessionInfo, documentID string) error
}
