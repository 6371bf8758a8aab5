//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory implementation of the document
// service.
package inmemory

import (
	"context"
	"errors"
	"sync"
	"time"

	"trpc.group/trpc-go/trpc-artifact-go/artifact"
	"trpc.group/trpc-go/trpc-artifact-go/internal/docpath"
)

// Service is an in-memory implementation of the document service. It is
// suitable for testing and development environments.
type Service struct {
	// mutex protects concurrent access to the documents map.
	mutex sync.RWMutex
	// documents stores versions by document path, oldest first.
	documents map[string][]*artifact.Document
}

// NewService creates a new in-memory document service.
func NewService() *Service {
	return &Service{
		documents: make(map[string][]*artifact.Document),
	}
}

// CreateVersion appends a new version of the document to the in-memory
// storage and returns the stored record.
func (s *Service) CreateVersion(ctx context.Context, info artifact.SessionInfo, doc *artifact.Document) (*artifact.Document, error) {
	if doc == nil {
		return nil, errors.New("inmemory: nil document")
	}
	if doc.ID == "" {
		return nil, errors.New("inmemory: document has empty ID")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	path := docpath.BuildDocumentPath(info, doc.ID)
	versions := s.documents[path]

	stored := doc.Clone()
	stored.CreatedAt = time.Now()
	// CreatedAt orders versions of one identity; keep it strictly
	// increasing even when two commits land within clock resolution.
	if n := len(versions); n > 0 && !stored.CreatedAt.After(versions[n-1].CreatedAt) {
		stored.CreatedAt = versions[n-1].CreatedAt.Add(time.Nanosecond)
	}
	s.documents[path] = append(versions, stored)

	return stored.Clone(), nil
}

// ListVersions returns all versions of a document in creation order.
func (s *Service) ListVersions(ctx context.Context, info artifact.SessionInfo, documentID string) ([]*artifact.Document, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	path := docpath.BuildDocumentPath(info, documentID)
	versions := s.documents[path]

	result := make([]*artifact.Document, len(versions))
	for i, v := range versions {
		result[i] = v.Clone()
	}
	return result, nil
}

// GetDocument returns the latest version of a document, or nil if the
// identity is unknown.
func (s *Service) GetDocument(ctx context.Context, info artifact.SessionInfo, documentID string) (*artifact.Document, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	path := docpath.BuildDocumentPath(info, documentID)
	versions := s.documents[path]
	if len(versions) == 0 {
		return nil, nil
	}
	return versions[len(versions)-1].Clone(), nil
}

// DeleteDocument removes all versions of a document. Deleting an unknown
// identity is not an error.
func (s *Service) DeleteDocument(ctx context.Context, info artifact.SessionInfo, documentID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.documents, docpath.BuildDocumentPath(info, documentID))
	return nil
}
