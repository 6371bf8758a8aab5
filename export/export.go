//
// Tencent is pleased to support the open source community by making trpc-artifact-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-artifact-go is licensed under the Apache License Version 2.0.
//
//

// Package export renders document versions into portable formats.
package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"trpc.group/trpc-go/trpc-artifact-go/artifact"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// HTML renders the document's markdown content as HTML.
func HTML(w io.Writer, doc *artifact.Document) error {
	if doc == nil {
		return fmt.Errorf("export: nil document")
	}
	if err := markdown.Convert([]byte(doc.Content), w); err != nil {
		return fmt.Errorf("export: render html: %w", err)
	}
	return nil
}

// PDF renders the document as a single-column PDF with the title as
// heading.
func PDF(w io.Writer, doc *artifact.Document) error {
	if doc == nil {
		return fmt.Errorf("export: nil document")
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, doc.Title, "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 5, doc.Content, "", "L", false)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export: render pdf: %w", err)
	}
	return nil
}
