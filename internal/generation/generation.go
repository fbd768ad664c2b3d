// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generation turns verified facts into structured post drafts via
// a generative text model, under a shared sliding-window rate cap.
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dailyexamresult/notice-engine/internal/slugutil"
	"github.com/dailyexamresult/notice-engine/pkg/types"
)

// Service generates post drafts from verified signals.
type Service struct {
	backend ModelBackend
	limiter *Limiter
	cfg     types.GenerationConfig

	// now is swapped out by tests for deterministic provenance.
	now func() time.Time
}

// NewService builds a generation Service. The limiter is shared: pass the
// same instance to every component that calls the model.
func NewService(backend ModelBackend, limiter *Limiter, cfg types.GenerationConfig) *Service {
	return &Service{backend: backend, limiter: limiter, cfg: cfg, now: time.Now}
}

// Generate produces a draft for one verified signal. Model and parse
// failures never propagate: the pipeline always gets a processable draft
// back, degraded to a minimal fallback when needed. The returned error is
// non-nil only on context cancellation.
func (s *Service) Generate(ctx context.Context, vr types.VerificationResult, sig types.Signal, w io.Writer) (types.PostDraft, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return types.PostDraft{}, err
	}

	prompt, err := renderPostPrompt(vr, sig, s.cfg.SnippetLimit)
	if err != nil {
		fmt.Fprintf(w, "generation failed for %q: rendering prompt: %v\n", sig.RawTitle, err)
		return s.fallbackDraft(sig, fmt.Sprintf("rendering prompt: %v", err)), nil
	}

	raw, err := s.backend.Generate(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return types.PostDraft{}, ctx.Err()
		}
		fmt.Fprintf(w, "generation failed for %q: %v\n", sig.RawTitle, err)
		return s.fallbackDraft(sig, fmt.Sprintf("model call: %v", err)), nil
	}

	var draft types.PostDraft
	if err := json.Unmarshal([]byte(stripFences(raw)), &draft); err != nil {
		fmt.Fprintf(w, "generation failed for %q: unparseable model output: %v\n", sig.RawTitle, err)
		return s.fallbackDraft(sig, fmt.Sprintf("parsing model output: %v", err)), nil
	}

	if draft.Slug == "" {
		draft.Slug = slugutil.Make(draft.Title)
	}
	draft.Status = types.StatusDraft
	draft.AutomationDetails = s.provenance(vr, sig)

	fmt.Fprintf(w, "generated draft %q\n", draft.Title)
	return draft, nil
}

// fallbackDraft is the minimal draft returned when the model or the parse
// fails. It records the cause so validation and operators can see it.
func (s *Service) fallbackDraft(sig types.Signal, cause string) types.PostDraft {
	return types.PostDraft{
		Title:  sig.RawTitle,
		Slug:   slugutil.Make(sig.RawTitle),
		Status: types.StatusDraft,
		AutomationDetails: types.AutomationDetails{
			DiscoveredVia:      sig.Source,
			SourceType:         "aggregator",
			ContentGeneratedAt: s.now(),
			AutomationVersion:  types.AgentVersion,
			AIModelUsed:        s.backend.Model(),
			Issues:             []string{"generation failed: " + cause},
		},
	}
}

// provenance builds the automation details recorded on successful drafts.
func (s *Service) provenance(vr types.VerificationResult, sig types.Signal) types.AutomationDetails {
	verifiedFrom := vr.OfficialURL
	if verifiedFrom == "" {
		verifiedFrom = "aggregator_signal"
	}
	now := s.now()
	return types.AutomationDetails{
		DiscoveredVia:         sig.Source,
		SourceType:            "aggregator",
		VerifiedFrom:          verifiedFrom,
		OfficialPDFURL:        vr.OfficialPDFURL,
		VerificationTimestamp: now,
		ContentGeneratedAt:    now,
		AutomationVersion:     types.AgentVersion,
		AIModelUsed:           s.backend.Model(),
	}
}
