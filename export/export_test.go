//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-artifact-go/artifact"
)

func TestHTMLRendersMarkdown(t *testing.T) {
	doc := &artifact.Document{
		ID:      "doc-1",
		Title:   "Essay",
		Kind:    artifact.KindText,
		Content: "# Heading\n\nSome **bold** prose.\n\n| a | b |\n| - | - |\n| 1 | 2 |",
	}

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, doc))

	out := buf.String()
	assert.Contains(t, out, "<h1>Heading</h1>")
	assert.Contains(t, out, "<strong>bold</strong>")
	// Tables come from the GFM extension.
	assert.Contains(t, out, "<table>")
}

func TestHTMLNilDocument(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, HTML(&buf, nil))
}

func TestPDFProducesDocument(t *testing.T) {
	doc := &artifact.Document{
		ID:      "doc-1",
		Title:   "Report",
		Kind:    artifact.KindText,
		Content: "Plain paragraph content.",
	}

	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, doc))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 500)
}

func TestPDFNilDocument(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, PDF(&buf, nil))
}
