// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts plain text from PDF documents in memory.
package pdftext

import (
	"bytes"

	"github.com/ledongthuc/pdf"
)

// Extractor pulls plain text out of a PDF byte buffer.
type Extractor struct{}

// Text returns the plain text of the document. Empty or unparseable
// buffers yield empty text without an error: a broken PDF is evidence
// absence, not a pipeline failure.
func (Extractor) Text(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", nil
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", nil
	}
	return buf.String(), nil
}
