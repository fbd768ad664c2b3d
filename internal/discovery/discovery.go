// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discovery finds candidate notice signals on aggregator sites.
// Aggregators are pointers only; everything discovered here is unverified
// until the verification stage confirms it against an official source.
package discovery

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dailyexamresult/notice-engine/pkg/types"
)

// Fetcher abstracts page access so tests can serve canned HTML.
type Fetcher interface {
	Page(ctx context.Context, url string) (string, error)
	Robots(ctx context.Context, url string) (string, error)
}

// Repository is the slice of the content repository discovery needs for
// deduplication.
type Repository interface {
	// CompletedKeyExists reports whether a post with this idempotency key
	// already finished the pipeline.
	CompletedKeyExists(ctx context.Context, key string) (bool, error)

	// TitleExists reports whether any stored title contains the given
	// title, case-insensitively.
	TitleExists(ctx context.Context, title string) (bool, error)
}

// Service scans configured aggregators and yields new signals.
type Service struct {
	fetcher Fetcher
	repo    Repository
	cfg     types.DiscoveryConfig
}

// New builds a discovery Service with injected dependencies.
func New(fetcher Fetcher, repo Repository, cfg types.DiscoveryConfig) *Service {
	return &Service{fetcher: fetcher, repo: repo, cfg: cfg}
}

// Discover scans every configured aggregator and returns signals for the
// target year that are not already represented in the repository. A
// failing aggregator contributes zero signals; the scan continues with
// the rest.
func (s *Service) Discover(ctx context.Context, w io.Writer) ([]types.Signal, error) {
	var signals []types.Signal

	for _, aggregator := range s.cfg.Aggregators {
		if !s.allowedByRobots(ctx, aggregator) {
			fmt.Fprintf(w, "skipping %s: robots.txt disallows\n", aggregator)
			continue
		}

		found, err := s.scrapeAggregator(ctx, aggregator)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", aggregator, err)
			continue
		}

		for _, sig := range found {
			if sig.Year != s.cfg.TargetYear {
				fmt.Fprintf(w, "skipped %q: year %q, want %s\n", sig.RawTitle, sig.Year, s.cfg.TargetYear)
				continue
			}

			sig.IdempotencyKey = IdempotencyKey(sig.Authority, sig.Exam, sig.Year, sig.PostType)

			exists, err := s.alreadyKnown(ctx, sig)
			if err != nil {
				fmt.Fprintf(w, "failed  %q: dedup check: %v\n", sig.RawTitle, err)
				continue
			}
			if exists {
				continue
			}

			signals = append(signals, sig)
		}
	}

	fmt.Fprintf(w, "discovered %d new signal(s)\n", len(signals))
	return signals, nil
}

// scrapeAggregator extracts candidate signals from one aggregator page.
func (s *Service) scrapeAggregator(ctx context.Context, aggregator string) ([]types.Signal, error) {
	html, err := s.fetcher.Page(ctx, aggregator)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var signals []types.Signal
	seenLinks := make(map[string]bool)

	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Text())
		href, ok := sel.Attr("href")
		if title == "" || !ok || href == "" || seenLinks[href] {
			return
		}

		if s.isNoise(title) || !s.isRelevant(title) {
			return
		}

		authority, exam, year, postType := normalize(title, s.cfg.Authorities)
		if year == "" {
			return
		}

		signals = append(signals, types.Signal{
			RawTitle:  title,
			URL:       resolveURL(aggregator, href),
			Authority: authority,
			Exam:      exam,
			Year:      year,
			PostType:  postType,
			Source:    aggregator,
		})
		seenLinks[href] = true
	})

	return signals, nil
}

// isNoise reports whether the title contains any configured noise term.
func (s *Service) isNoise(title string) bool {
	lower := strings.ToLower(title)
	for _, term := range s.cfg.NoiseTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// isRelevant reports whether the title contains at least one relevance
// keyword.
func (s *Service) isRelevant(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range s.cfg.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// alreadyKnown checks the repository first by idempotency key against
// automation-complete records, then falls back to a case-insensitive
// title-substring match.
func (s *Service) alreadyKnown(ctx context.Context, sig types.Signal) (bool, error) {
	byKey, err := s.repo.CompletedKeyExists(ctx, sig.IdempotencyKey)
	if err != nil {
		return false, err
	}
	if byKey {
		return true, nil
	}
	return s.repo.TitleExists(ctx, sig.RawTitle)
}

// resolveURL makes href absolute against base. Unparseable inputs are
// returned as-is.
func resolveURL(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
