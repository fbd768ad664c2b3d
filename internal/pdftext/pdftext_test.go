// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import "testing"

func TestTextToleratesBadInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty buffer", nil},
		{"not a pdf", []byte("just some text pretending to be a document")},
		{"truncated header", []byte("%PDF-1.7\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Extractor{}.Text(tt.data)
			if err != nil {
				t.Fatalf("broken input must not error: %v", err)
			}
			if text != "" {
				t.Errorf("got text %q from broken input, want empty", text)
			}
		})
	}
}
