// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Facts holds the details verification could confirm against an official
// source. Populated only when the signal verified.
type Facts struct {
	Authority string `json:"authority" yaml:"authority"`
	Exam      string `json:"exam" yaml:"exam"`
	Year      string `json:"year" yaml:"year"`
	SourceURL string `json:"source_url" yaml:"source_url"`
}

// VerificationResult is the outcome of checking one signal against
// authoritative sources.
type VerificationResult struct {
	// Verified reports whether at least one official link was found and
	// the wrong-year veto did not fire.
	Verified bool `json:"verified" yaml:"verified"`

	// OfficialURL is the apply/official-website link on an official
	// domain, if any.
	OfficialURL string `json:"official_url,omitempty" yaml:"official_url,omitempty"`

	// OfficialPDFURL is the notification PDF link on an official domain,
	// if any.
	OfficialPDFURL string `json:"official_pdf_url,omitempty" yaml:"official_pdf_url,omitempty"`

	// ExtractedText is a bounded snippet of the text extracted from the
	// official PDF.
	ExtractedText string `json:"extracted_text,omitempty" yaml:"extracted_text,omitempty"`

	// ConfidenceScore is the additive evidence score. Verification only
	// accumulates; validation caps it to [0, 1].
	ConfidenceScore float64 `json:"confidence_score" yaml:"confidence_score"`

	// Facts is non-nil only when Verified.
	Facts *Facts `json:"facts,omitempty" yaml:"facts,omitempty"`
}
