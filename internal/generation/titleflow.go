// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dailyexamresult/notice-engine/internal/slugutil"
	"github.com/dailyexamresult/notice-engine/pkg/types"
)

// forbiddenPhrases may not appear anywhere in a title-flow draft.
var forbiddenPhrases = []string{
	"official website",
	"government portal",
	"apply here officially",
}

// flowState is the state of one title-flow attempt.
type flowState int

const (
	stateSucceeded flowState = iota
	stateRetryable
	stateTerminal
)

// attempt carries the explicit retry state between model calls: the
// attempt number, the raw prior output, and the prior validation errors.
// Nothing is captured through closures.
type attempt struct {
	number      int
	priorOutput string
	priorErrors []string
}

// TitleFlow drafts a post from a bare title with a bounded corrective
// retry loop: rejected output and its validation errors are fed back into
// the next prompt, at most MaxAttempts times.
type TitleFlow struct {
	backend     ModelBackend
	limiter     *Limiter
	maxAttempts int

	// slugExists is the repository slug lookup used to pick a unique
	// slug for the finished draft.
	slugExists func(slug string) (bool, error)

	now func() time.Time
}

// NewTitleFlow builds a TitleFlow. maxAttempts <= 0 defaults to 3.
func NewTitleFlow(backend ModelBackend, limiter *Limiter, maxAttempts int, slugExists func(string) (bool, error)) *TitleFlow {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &TitleFlow{
		backend:     backend,
		limiter:     limiter,
		maxAttempts: maxAttempts,
		slugExists:  slugExists,
		now:         time.Now,
	}
}

// Create drafts a post from title. It returns an error when the retry
// budget is exhausted or the context is cancelled; partial output is
// never persisted.
func (f *TitleFlow) Create(ctx context.Context, title string, w io.Writer) (types.PostDraft, error) {
	att := attempt{number: 1}

	for {
		state, draft, raw, issues, err := f.attemptOnce(ctx, title, att)
		switch state {
		case stateSucceeded:
			return f.finalize(draft, title)

		case stateTerminal:
			return types.PostDraft{}, err

		case stateRetryable:
			fmt.Fprintf(w, "attempt %d/%d rejected: %s\n", att.number, f.maxAttempts, strings.Join(issues, "; "))
			if att.number >= f.maxAttempts {
				return types.PostDraft{}, fmt.Errorf("after %d attempts: %s", f.maxAttempts, strings.Join(issues, "; "))
			}
			att = attempt{number: att.number + 1, priorOutput: raw, priorErrors: issues}
		}
	}
}

// attemptOnce runs a single attempt and classifies its outcome. Model
// errors and invalid output are retryable; only context cancellation is
// terminal here — the attempt cap is enforced by the caller.
func (f *TitleFlow) attemptOnce(ctx context.Context, title string, att attempt) (flowState, types.PostDraft, string, []string, error) {
	if err := f.limiter.Acquire(ctx); err != nil {
		return stateTerminal, types.PostDraft{}, "", nil, err
	}

	prompt, err := renderTitlePrompt(title, att.priorOutput, att.priorErrors)
	if err != nil {
		return stateTerminal, types.PostDraft{}, "", nil, fmt.Errorf("rendering prompt: %w", err)
	}

	raw, err := f.backend.Generate(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return stateTerminal, types.PostDraft{}, "", nil, ctx.Err()
		}
		return stateRetryable, types.PostDraft{}, "", []string{fmt.Sprintf("model call failed: %v", err)}, nil
	}

	var draft types.PostDraft
	if err := json.Unmarshal([]byte(stripFences(raw)), &draft); err != nil {
		return stateRetryable, types.PostDraft{}, raw, []string{fmt.Sprintf("output is not valid JSON: %v", err)}, nil
	}

	if issues := validateTitleDraft(draft); len(issues) > 0 {
		return stateRetryable, types.PostDraft{}, raw, issues, nil
	}

	return stateSucceeded, draft, raw, nil, nil
}

// validateTitleDraft checks the structural rules the prompt demands.
func validateTitleDraft(draft types.PostDraft) []string {
	var issues []string

	if strings.TrimSpace(draft.Title) == "" {
		issues = append(issues, "missing title")
	}
	if len(draft.MetaTitle) > 65 {
		issues = append(issues, fmt.Sprintf("metaTitle exceeds 65 characters (%d)", len(draft.MetaTitle)))
	}
	if len(draft.MetaDescription) > 150 {
		issues = append(issues, fmt.Sprintf("metaDescription exceeds 150 characters (%d)", len(draft.MetaDescription)))
	}

	serialized, err := json.Marshal(draft)
	if err == nil {
		lower := strings.ToLower(string(serialized))
		for _, phrase := range forbiddenPhrases {
			if strings.Contains(lower, phrase) {
				issues = append(issues, fmt.Sprintf("forbidden phrase used: %q", phrase))
			}
		}
	}

	return issues
}

// finalize forces draft status, resolves a unique slug, and stamps
// provenance.
func (f *TitleFlow) finalize(draft types.PostDraft, title string) (types.PostDraft, error) {
	base := draft.Slug
	if base == "" {
		base = slugutil.Make(title)
	}

	slug, err := slugutil.Unique(base, f.slugExists)
	if err != nil {
		return types.PostDraft{}, err
	}
	draft.Slug = slug

	draft.Status = types.StatusDraft
	draft.AutomationDetails = types.AutomationDetails{
		DiscoveredVia:      "manual",
		SourceType:         "title_only",
		ContentGeneratedAt: f.now(),
		AutomationVersion:  types.AgentVersion,
		AIModelUsed:        f.backend.Model(),
		AutomationStatus:   types.AutomationCompleted,
	}
	return draft, nil
}
