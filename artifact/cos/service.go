//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package cos provides a Tencent Cloud Object Storage (COS) implementation
// of the document service.
//
// Each stored version is one JSON-encoded object named:
//
//	{app_name}/{user_id}/{session_id}/{document_id}/{version}
//
// Authentication:
// The service requires COS credentials which can be provided via:
// - Environment variables: COS_SECRETID and COS_SECRETKEY (recommended)
// - Option functions: WithSecretID() and WithSecretKey()
//
// Example:
//
//	service, err := cos.NewService("https://bucket.cos.region.myqcloud.com")
package cos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	cos "github.com/tencentyun/cos-go-sdk-v5"

	"trpc.group/trpc-go/trpc-artifact-go/artifact"
	"trpc.group/trpc-go/trpc-artifact-go/internal/docpath"
)

const contentType = "application/json"

// Service is a Tencent Cloud Object Storage implementation of the
// document service. Every version of a document identity is a separate
// immutable object; the object suffix is the version number.
type Service struct {
	cosClient client
}

// NewService creates a new COS document service with optional
// configurations.
//
// Credentials can be provided in multiple ways:
//  1. Set environment variables COS_SECRETID and COS_SECRETKEY (recommended)
//  2. Use WithSecretID() and WithSecretKey() options
//  3. Use WithClient() to provide a pre-configured COS client directly
func NewService(bucketURL string, opts ...Option) (*Service, error) {
	c, err := globalBuilder(bucketURL, opts...)
	if err != nil {
		return nil, err
	}
	cli, ok := c.(client)
	if !ok {
		return nil, fmt.Errorf("client builder returned invalid type: expected client interface, got %T", c)
	}
	return &Service{cosClient: cli}, nil
}

// CreateVersion persists a new version of the document to COS.
func (s *Service) CreateVersion(ctx context.Context, info artifact.SessionInfo, doc *artifact.Document) (*artifact.Document, error) {
	if doc == nil || doc.ID == "" {
		return nil, fmt.Errorf("cos: invalid document")
	}

	versions, err := s.listVersionNumbers(ctx, info, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	version := 0
	if len(versions) > 0 {
		version = versions[len(versions)-1] + 1
	}

	stored := doc.Clone()
	stored.CreatedAt = time.Now()

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	objectName := docpath.BuildVersionName(info, doc.ID, version)
	if err := s.cosClient.PutObject(ctx, objectName, bytes.NewReader(data), contentType); err != nil {
		return nil, fmt.Errorf("failed to upload document version: %w", err)
	}
	return stored, nil
}

// ListVersions returns all versions of a document in creation order.
func (s *Service) ListVersions(ctx context.Context, info artifact.SessionInfo, documentID string) ([]*artifact.Document, error) {
	versions, err := s.listVersionNumbers(ctx, info, documentID)
	if err != nil {
		return nil, err
	}

	docs := make([]*artifact.Document, 0, len(versions))
	for _, v := range versions {
		doc, err := s.getVersion(ctx, info, documentID, v)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// GetDocument returns the latest version of a document, or nil if the
// identity is unknown.
func (s *Service) GetDocument(ctx context.Context, info artifact.SessionInfo, documentID string) (*artifact.Document, error) {
	versions, err := s.listVersionNumbers(ctx, info, documentID)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, nil
	}
	return s.getVersion(ctx, info, documentID, versions[len(versions)-1])
}

// DeleteDocument removes all versions of a document from COS.
func (s *Service) DeleteDocument(ctx context.Context, info artifact.SessionInfo, documentID string) error {
	versions, err := s.listVersionNumbers(ctx, info, documentID)
	if err != nil {
		return fmt.Errorf("failed to list versions: %w", err)
	}
	for _, v := range versions {
		objectName := docpath.BuildVersionName(info, documentID, v)
		if err := s.cosClient.DeleteObject(ctx, objectName); err != nil && !cos.IsNotFoundError(err) {
			return fmt.Errorf("failed to delete document version %d: %w", v, err)
		}
	}
	return nil
}

// getVersion downloads and decodes one stored version.
func (s *Service) getVersion(ctx context.Context, info artifact.SessionInfo, documentID string, version int) (*artifact.Document, error) {
	objectName := docpath.BuildVersionName(info, documentID, version)
	respBody, _, err := s.cosClient.GetObject(ctx, objectName)
	if err != nil {
		if cos.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to download document version: %w", err)
	}
	defer respBody.Close()

	data, err := io.ReadAll(respBody)
	if err != nil {
		return nil, fmt.Errorf("failed to read document version: %w", err)
	}
	var doc artifact.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document version: %w", err)
	}
	return &doc, nil
}

// listVersionNumbers lists the stored version numbers in ascending order.
func (s *Service) listVersionNumbers(ctx context.Context, info artifact.SessionInfo, documentID string) ([]int, error) {
	prefix := docpath.BuildVersionPrefix(info, documentID)
	result, err := s.cosClient.GetBucket(ctx, prefix)
	if err != nil {
		if cos.IsNotFoundError(err) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("failed to list document versions: %w", err)
	}
	if result == nil {
		return []int{}, nil
	}

	var versions []int
	for _, obj := range result.Contents {
		suffix := strings.TrimPrefix(obj.Key, prefix)
		v, err := strconv.Atoi(suffix)
		if err != nil {
			// Not a version object; skip.
			continue
		}
		versions = append(versions, v)
	}
	// Bucket listings are lexicographic; version numbers need numeric order.
	sort.Ints(versions)
	return versions, nil
}
