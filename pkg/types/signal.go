// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the notice pipeline:
// discovered signals, verification results, post drafts, categories, and
// per-stage configuration.
package types

// PostType classifies what kind of notice a signal points to.
type PostType string

const (
	PostRecruitment PostType = "Recruitment"
	PostResult      PostType = "Result"
	PostAdmitCard   PostType = "Admit Card"
	PostSyllabus    PostType = "Syllabus"
	PostAnswerKey   PostType = "Answer Key"
)

// Signal is a normalized candidate notice discovered on an aggregator.
// Signals are immutable once created: discovery fills every field,
// verification and the agent only read them.
type Signal struct {
	// RawTitle is the anchor text as found on the aggregator page.
	RawTitle string `json:"raw_title" yaml:"raw_title"`

	// URL is the aggregator detail page the anchor points to (absolute).
	URL string `json:"url" yaml:"url"`

	// Authority is the issuing body matched from the ordered authority
	// table, or "Unknown" when no entry matched.
	Authority string `json:"authority" yaml:"authority"`

	// Exam is the examination name. The normalizer keeps the full raw
	// title here; splitting authority from exam reliably needs more
	// context than a title carries.
	Exam string `json:"exam" yaml:"exam"`

	// Year is the 4-digit notice year extracted from the title.
	Year string `json:"year" yaml:"year"`

	// PostType is the classified notice kind.
	PostType PostType `json:"post_type" yaml:"post_type"`

	// Source is the aggregator base URL the signal came from.
	Source string `json:"source" yaml:"source"`

	// IdempotencyKey is the deterministic digest of
	// authority|exam|year|postType used to prevent reprocessing.
	IdempotencyKey string `json:"idempotency_key" yaml:"idempotency_key"`
}
