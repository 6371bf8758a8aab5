//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

package cos

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cossdk "github.com/tencentyun/cos-go-sdk-v5"

	"trpc.group/trpc-go/trpc-artifact-go/artifact"
)

var testInfo = artifact.SessionInfo{AppName: "app", UserID: "user", SessionID: "sess"}

// fakeClient is an in-memory object store implementing the client
// interface.
type fakeClient struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeClient() *fakeClient {
	return &fakeClient{objects: make(map[string][]byte)}
}

func (f *fakeClient) GetBucket(ctx context.Context, prefix string) (*cossdk.BucketGetResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	// COS listings are lexicographic.
	sort.Strings(keys)
	result := &cossdk.BucketGetResult{}
	for _, key := range keys {
		result.Contents = append(result.Contents, cossdk.Object{Key: key})
	}
	return result, nil
}

func (f *fakeClient) PutObject(ctx context.Context, name string, content io.Reader, mimeType string) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[name] = data
	return nil
}

func (f *fakeClient) GetObject(ctx context.Context, name string) (io.ReadCloser, http.Header, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[name]
	if !ok {
		return nil, nil, &cossdk.ErrorResponse{
			Response: &http.Response{StatusCode: http.StatusNotFound},
		}
	}
	return io.NopCloser(bytes.NewReader(data)), http.Header{}, nil
}

func (f *fakeClient) DeleteObject(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, name)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeClient) {
	t.Helper()
	fake := newFakeClient()
	SetClientBuilder(func(bucketURL string, opts ...Option) (any, error) {
		return fake, nil
	})
	t.Cleanup(func() { SetClientBuilder(defaultClientBuilder) })

	s, err := NewService("https://bucket.cos.ap-guangzhou.myqcloud.com")
	require.NoError(t, err)
	return s, fake
}

func TestCreateVersionNumbersSequentially(t *testing.T) {
	s, fake := newTestService(t)
	ctx := context.Background()

	for _, content := range []string{"v0", "v1"} {
		_, err := s.CreateVersion(ctx, testInfo, &artifact.Document{
			ID:      "doc-1",
			Kind:    artifact.KindText,
			Content: content,
		})
		require.NoError(t, err)
	}

	fake.mu.Lock()
	_, has0 := fake.objects["app/user/sess/doc-1/0"]
	_, has1 := fake.objects["app/user/sess/doc-1/1"]
	fake.mu.Unlock()
	assert.True(t, has0)
	assert.True(t, has1)
}

func TestCreateVersionValidation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.CreateVersion(ctx, testInfo, nil)
	assert.Error(t, err)
	_, err = s.CreateVersion(ctx, testInfo, &artifact.Document{})
	assert.Error(t, err)
}

func TestListVersionsReturnsCreationOrder(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	// Eleven versions force numeric ordering: lexicographically "10"
	// sorts before "2".
	for i := 0; i < 11; i++ {
		_, err := s.CreateVersion(ctx, testInfo, &artifact.Document{
			ID:      "doc-1",
			Kind:    artifact.KindText,
			Content: string(rune('a' + i)),
		})
		require.NoError(t, err)
	}

	versions, err := s.ListVersions(ctx, testInfo, "doc-1")
	require.NoError(t, err)
	require.Len(t, versions, 11)
	assert.Equal(t, "a", versions[0].Content)
	assert.Equal(t, "k", versions[10].Content)
}

func TestGetDocumentReturnsLatest(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.CreateVersion(ctx, testInfo, &artifact.Document{ID: "doc-1", Content: "old"})
	require.NoError(t, err)
	_, err = s.CreateVersion(ctx, testInfo, &artifact.Document{ID: "doc-1", Content: "new"})
	require.NoError(t, err)

	doc, err := s.GetDocument(ctx, testInfo, "doc-1")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "new", doc.Content)
}

func TestGetDocumentUnknownIdentity(t *testing.T) {
	s, _ := newTestService(t)

	doc, err := s.GetDocument(context.Background(), testInfo, "missing")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestDeleteDocumentRemovesAllVersions(t *testing.T) {
	s, fake := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.CreateVersion(ctx, testInfo, &artifact.Document{ID: "doc-1", Content: "v"})
		require.NoError(t, err)
	}

	require.NoError(t, s.DeleteDocument(ctx, testInfo, "doc-1"))

	fake.mu.Lock()
	remaining := len(fake.objects)
	fake.mu.Unlock()
	assert.Zero(t, remaining)

	doc, err := s.GetDocument(ctx, testInfo, "doc-1")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestNonVersionObjectsAreIgnored(t *testing.T) {
	s, fake := newTestService(t)
	ctx := context.Background()

	_, err := s.CreateVersion(ctx, testInfo, &artifact.Document{ID: "doc-1", Content: "v0"})
	require.NoError(t, err)

	fake.mu.Lock()
	fake.objects["app/user/sess/doc-1/metadata.json"] = []byte("{}")
	fake.mu.Unlock()

	versions, err := s.ListVersions(ctx, testInfo, "doc-1")
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}
