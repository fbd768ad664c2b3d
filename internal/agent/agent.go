// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent coordinates one end-to-end daily run: discovery,
// verification, generation, validation, and persistence. A run guard
// rejects overlapping runs; every signal is processed independently so
// one failure never aborts the batch.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/dailyexamresult/notice-engine/internal/store"
	"github.com/dailyexamresult/notice-engine/internal/validation"
	"github.com/dailyexamresult/notice-engine/pkg/types"
)

// ErrRunInProgress is returned when a run is requested while another is
// still active.
var ErrRunInProgress = errors.New("a run is already in progress")

// Discoverer produces candidate signals from aggregator sites.
type Discoverer interface {
	Discover(ctx context.Context, w io.Writer) ([]types.Signal, error)
}

// Verifier checks a signal against official sources.
type Verifier interface {
	Verify(ctx context.Context, sig types.Signal, w io.Writer) types.VerificationResult
}

// Generator drafts a post from a verified signal.
type Generator interface {
	Generate(ctx context.Context, vr types.VerificationResult, sig types.Signal, w io.Writer) (types.PostDraft, error)
}

// Repository is the content store surface the agent needs.
type Repository interface {
	Ping(ctx context.Context) error
	InsertPost(ctx context.Context, draft *types.PostDraft) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	AllCategories(ctx context.Context) ([]types.Category, error)
}

// RunSummary reports what one run accomplished.
type RunSummary struct {
	RunID      string        `json:"run_id" yaml:"run_id"`
	Discovered int           `json:"discovered" yaml:"discovered"`
	Verified   int           `json:"verified" yaml:"verified"`
	Saved      int           `json:"saved" yaml:"saved"`
	Published  int           `json:"published" yaml:"published"`
	Skipped    int           `json:"skipped" yaml:"skipped"`
	Failures   []string      `json:"failures,omitempty" yaml:"failures,omitempty"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// HasFailures reports whether any signal failed during the run.
func (r RunSummary) HasFailures() bool {
	return len(r.Failures) > 0
}

// Agent runs the daily pipeline. All collaborators are injected.
type Agent struct {
	discovery  Discoverer
	verify     Verifier
	generate   Generator
	repo       Repository
	cfg        types.AgentConfig
	validation types.ValidationConfig

	running atomic.Bool
	now     func() time.Time
}

// New assembles an agent from its stage services and configuration.
func New(d Discoverer, v Verifier, g Generator, repo Repository, cfg types.AgentConfig, scores types.ScoringConfig) *Agent {
	return &Agent{
		discovery: d,
		verify:    v,
		generate:  g,
		repo:      repo,
		cfg:       cfg,
		validation: types.ValidationConfig{
			AutoPublish: cfg.AutoPublish,
			Thresholds:  cfg.Thresholds,
			Scores:      scores,
		},
		now: time.Now,
	}
}

// Run executes one full pipeline pass. Progress is written to w. It
// returns ErrRunInProgress when another run holds the guard.
func (a *Agent) Run(ctx context.Context, w io.Writer) (RunSummary, error) {
	if !a.running.CompareAndSwap(false, true) {
		return RunSummary{}, ErrRunInProgress
	}
	defer a.running.Store(false)

	start := a.now()
	summary := RunSummary{RunID: uuid.NewString()}
	fmt.Fprintf(w, "Starting run %s\n", summary.RunID)

	if err := a.repo.Ping(ctx); err != nil {
		return summary, fmt.Errorf("content store unreachable: %w", err)
	}

	categories, err := a.repo.AllCategories(ctx)
	if err != nil {
		return summary, fmt.Errorf("loading categories: %w", err)
	}

	signals, err := a.discovery.Discover(ctx, w)
	if err != nil {
		return summary, fmt.Errorf("discovery failed: %w", err)
	}
	summary.Discovered = len(signals)
	fmt.Fprintf(w, "Discovered %d new signals\n", len(signals))

	for _, sig := range signals {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := a.processSignal(ctx, sig, categories, &summary, w); err != nil {
			summary.Failures = append(summary.Failures,
				fmt.Sprintf("%s: %v", sig.RawTitle, err))
			fmt.Fprintf(w, "  FAILED %s: %v\n", sig.RawTitle, err)
		}
	}

	summary.Duration = a.now().Sub(start)
	fmt.Fprintf(w, "Run %s finished: %d saved, %d skipped, %d failed (%s)\n",
		summary.RunID, summary.Saved, summary.Skipped, len(summary.Failures),
		summary.Duration.Round(time.Millisecond))
	return summary, nil
}

func (a *Agent) processSignal(ctx context.Context, sig types.Signal, categories []types.Category, summary *RunSummary, w io.Writer) error {
	fmt.Fprintf(w, "Processing: %s\n", sig.RawTitle)

	vr := a.verify.Verify(ctx, sig, w)
	if !vr.Verified {
		summary.Skipped++
		fmt.Fprintf(w, "  skipped: could not verify against an official source\n")
		return nil
	}
	summary.Verified++

	draft, err := a.generate.Generate(ctx, vr, sig, w)
	if err != nil {
		return fmt.Errorf("generation: %w", err)
	}

	draft.AutomationDetails.RunID = summary.RunID
	draft.AutomationDetails.IdempotencyKey = sig.IdempotencyKey
	draft = validation.Validate(draft, vr, a.validation, a.now())
	a.assignCategory(&draft, sig, categories)

	saved, err := a.savePost(ctx, &draft, w)
	if err != nil {
		return err
	}
	if !saved {
		summary.Skipped++
		return nil
	}
	summary.Saved++
	if draft.Status == types.StatusPublished {
		summary.Published++
	}
	fmt.Fprintf(w, "  saved %q as %s\n", draft.Slug, draft.Status)
	return nil
}

// categorySlugs maps a signal's post type to the catalog slug it belongs
// under. Recruitment notices file under the jobs listing.
var categorySlugs = map[types.PostType]string{
	types.PostRecruitment: "latest-jobs",
	types.PostResult:      "result",
	types.PostAdmitCard:   "admit-card",
	types.PostSyllabus:    "syllabus",
	types.PostAnswerKey:   "answer-key",
}

func (a *Agent) assignCategory(draft *types.PostDraft, sig types.Signal, categories []types.Category) {
	if len(categories) == 0 {
		return
	}

	wantSlug := categorySlugs[sig.PostType]
	for _, c := range categories {
		if c.Slug == wantSlug {
			draft.Category = c.Name
			draft.CategoryID = c.ID
			return
		}
	}
	// Fall back to a loose name match, then the first catalog entry.
	for _, c := range categories {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(string(sig.PostType))) {
			draft.Category = c.Name
			draft.CategoryID = c.ID
			return
		}
	}
	draft.Category = categories[0].Name
	draft.CategoryID = categories[0].ID
}

// savePost persists the draft, or writes it to the drafts directory
// during a dry run. It reports whether the draft was actually stored.
func (a *Agent) savePost(ctx context.Context, draft *types.PostDraft, w io.Writer) (bool, error) {
	if a.cfg.DryRun {
		if err := a.writeDryRunDraft(draft); err != nil {
			return false, fmt.Errorf("writing dry-run draft: %w", err)
		}
		fmt.Fprintf(w, "  dry run: draft written to %s\n",
			filepath.Join(a.cfg.DraftsDir, draft.Slug+".yaml"))
		return true, nil
	}

	exists, err := a.repo.SlugExists(ctx, draft.Slug)
	if err != nil {
		return false, fmt.Errorf("checking slug: %w", err)
	}
	if exists {
		fmt.Fprintf(w, "  skipped: a post with slug %q already exists\n", draft.Slug)
		return false, nil
	}

	err = a.repo.InsertPost(ctx, draft)
	if errors.Is(err, store.ErrDuplicateSlug) {
		fmt.Fprintf(w, "  skipped: a post with slug %q already exists\n", draft.Slug)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("saving post: %w", err)
	}
	return true, nil
}

func (a *Agent) writeDryRunDraft(draft *types.PostDraft) error {
	if err := os.MkdirAll(a.cfg.DraftsDir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(draft)
	if err != nil {
		return err
	}
	path := filepath.Join(a.cfg.DraftsDir, draft.Slug+".yaml")
	return os.WriteFile(path, data, 0o644)
}
