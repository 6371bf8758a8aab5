//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-artifact-go/artifact"
	"trpc.group/trpc-go/trpc-artifact-go/artifact/code"
	"trpc.group/trpc-go/trpc-artifact-go/artifact/inmemory"
	"trpc.group/trpc-go/trpc-artifact-go/artifact/text"
)

var testInfo = artifact.SessionInfo{AppName: "app", UserID: "user", SessionID: "sess"}

func newTestServer(t *testing.T) (*httptest.Server, *inmemory.Service) {
	t.Helper()
	registry := artifact.NewRegistry()
	require.NoError(t, registry.Register(text.New()))
	require.NoError(t, registry.Register(code.New()))

	service := inmemory.NewService()
	s, err := New(registry, service, WithSessionInfo(testInfo))
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, service
}

func TestListKinds(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/kinds")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var kinds []artifact.Kind
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&kinds))
	assert.Equal(t, []artifact.Kind{artifact.KindText, artifact.KindCode}, kinds)
}

func TestCreateDocumentStreamsSSE(t *testing.T) {
	ts, service := newTestServer(t)

	body := bytes.NewBufferString(`{"id":"doc-1","title":"Script","kind":"code"}`)
	resp, err := http.Post(ts.URL+"/documents", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, `"status":"running"`)
	assert.Contains(t, out, `"status":"complete"`)
	assert.Contains(t, out, "event: document")

	doc, err := service.GetDocument(context.Background(), testInfo, "doc-1")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "// Add your code here", doc.Content)
}

func TestCreateDocumentGeneratesID(t *testing.T) {
	ts, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"title":"Essay","kind":"text"}`)
	resp, err := http.Post(ts.URL+"/documents", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	// The final document event carries the generated identity.
	assert.Contains(t, string(raw), "event: document")
	assert.Contains(t, string(raw), `"id":"`)
}

func TestCreateDocumentUnknownKind(t *testing.T) {
	ts, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"title":"T","kind":"mermaid"}`)
	resp, err := http.Post(ts.URL+"/documents", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateDocumentStreamsSSE(t *testing.T) {
	ts, service := newTestServer(t)
	ctx := context.Background()

	_, err := service.CreateVersion(ctx, testInfo, &artifact.Document{
		ID:      "doc-2",
		Title:   "Greeting",
		Kind:    artifact.KindText,
		Content: "Hello",
	})
	require.NoError(t, err)

	body := bytes.NewBufferString(`{"instruction":"add a greeting"}`)
	resp, err := http.Post(ts.URL+"/documents/doc-2/update", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	io.Copy(io.Discard, resp.Body)

	doc, err := service.GetDocument(ctx, testInfo, "doc-2")
	require.NoError(t, err)
	assert.Equal(t, "Hello\n\nadd a greeting", doc.Content)
}

func TestUpdateUnknownDocument(t *testing.T) {
	ts, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"instruction":"change it"}`)
	resp, err := http.Post(ts.URL+"/documents/missing/update", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetDocument(t *testing.T) {
	ts, service := newTestServer(t)
	ctx := context.Background()

	_, err := service.CreateVersion(ctx, testInfo, &artifact.Document{
		ID:      "doc-3",
		Kind:    artifact.KindText,
		Content: "stored",
	})
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/documents/doc-3")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc artifact.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "stored", doc.Content)
}

func TestGetDocumentNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/documents/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListVersions(t *testing.T) {
	ts, service := newTestServer(t)
	ctx := context.Background()

	for _, content := range []string{"v0", "v1"} {
		_, err := service.CreateVersion(ctx, testInfo, &artifact.Document{
			ID:      "doc-4",
			Kind:    artifact.KindText,
			Content: content,
		})
		require.NoError(t, err)
	}

	resp, err := http.Get(ts.URL + "/documents/doc-4/versions")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var versions []*artifact.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&versions))
	require.Len(t, versions, 2)
	assert.Equal(t, "v0", versions[0].Content)
}

func TestExportFormats(t *testing.T) {
	ts, service := newTestServer(t)
	ctx := context.Background()

	_, err := service.CreateVersion(ctx, testInfo, &artifact.Document{
		ID:      "doc-5",
		Title:   "Essay",
		Kind:    artifact.KindText,
		Content: "# Heading",
	})
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/documents/doc-5/export?format=html")
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "<h1>Heading</h1>")

	resp, err = http.Get(ts.URL + "/documents/doc-5/export?format=pdf")
	require.NoError(t, err)
	raw, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))

	resp, err = http.Get(ts.URL + "/documents/doc-5/export?format=docx")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStopEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/documents/doc-1/stop", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
