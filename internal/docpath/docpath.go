//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package docpath provides path construction utilities shared by document
// store implementations.
package docpath

import (
	"fmt"

	"trpc.group/trpc-go/trpc-artifact-go/artifact"
)

// BuildDocumentPath constructs the storage path of a document identity:
// {app_name}/{user_id}/{session_id}/{document_id}
func BuildDocumentPath(info artifact.SessionInfo, documentID string) string {
	return fmt.Sprintf("%s/%s/%s/%s", info.AppName, info.UserID, info.SessionID, documentID)
}

// BuildVersionName constructs the object name of one stored version
// (used by object storage backends like COS):
// {app_name}/{user_id}/{session_id}/{document_id}/{version}
func BuildVersionName(info artifact.SessionInfo, documentID string, version int) string {
	return fmt.Sprintf("%s/%s/%s/%s/%d", info.AppName, info.UserID, info.SessionID, documentID, version)
}

// BuildVersionPrefix constructs the object name prefix for listing all
// versions of a document.
func BuildVersionPrefix(info artifact.SessionInfo, documentID string) string {
	return fmt.Sprintf("%s/%s/%s/%s/", info.AppName, info.UserID, info.SessionID, documentID)
}

// BuildSessionPrefix constructs the prefix of all documents in a session.
func BuildSessionPrefix(info artifact.SessionInfo) string {
	return fmt.Sprintf("%s/%s/%s/", info.AppName, info.UserID, info.SessionID)
}
