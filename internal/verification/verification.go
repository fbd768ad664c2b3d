// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verification confirms discovered signals against authoritative
// government sources. An aggregator page is only trusted as a pointer:
// evidence must sit on an official domain before a signal verifies.
package verification

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dailyexamresult/notice-engine/pkg/types"
)

// Fetcher abstracts page and document access.
type Fetcher interface {
	Page(ctx context.Context, url string) (string, error)
	Bytes(ctx context.Context, url string) ([]byte, error)
}

// PDFExtractor pulls plain text out of a PDF byte buffer. Implementations
// must treat empty or invalid buffers as empty text, not as an error.
type PDFExtractor interface {
	Text(data []byte) (string, error)
}

// datePatterns is checked in priority order: numeric day/month/year, then
// "Month YYYY", then a bare 4-digit year.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}`),
	regexp.MustCompile(`(?i)(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{4}`),
	regexp.MustCompile(`\d{4}`),
}

// noticeYearPattern matches any year in the 2020s window used by the
// wrong-year veto.
var noticeYearPattern = regexp.MustCompile(`202[0-9]`)

// link is one anchor found on the referring page.
type link struct {
	href string
	text string // lowercased anchor text
}

// Service verifies signals against official domains.
type Service struct {
	fetcher Fetcher
	pdf     PDFExtractor
	cfg     types.VerificationConfig
}

// New builds a verification Service with injected dependencies.
func New(fetcher Fetcher, pdf PDFExtractor, cfg types.VerificationConfig) *Service {
	return &Service{fetcher: fetcher, pdf: pdf, cfg: cfg}
}

// Verify fetches the signal's referring page, looks for official evidence,
// and scores it. Network and parse failures are non-fatal: they produce an
// unverified result, never an error.
func (s *Service) Verify(ctx context.Context, sig types.Signal, w io.Writer) types.VerificationResult {
	result := types.VerificationResult{}

	html, err := s.fetcher.Page(ctx, sig.URL)
	if err != nil {
		fmt.Fprintf(w, "unverified %q: fetching page: %v\n", sig.RawTitle, err)
		return result
	}

	links, err := collectLinks(html)
	if err != nil {
		fmt.Fprintf(w, "unverified %q: parsing page: %v\n", sig.RawTitle, err)
		return result
	}

	official := s.officialLinks(links)
	pdfLink := pickPDFCandidate(official)
	applyLink := pickApplyCandidate(official)

	if pdfLink != nil {
		result.OfficialPDFURL = pdfLink.href
		vetoed := s.inspectPDF(ctx, sig, pdfLink.href, &result, w)
		if vetoed {
			// Wrong-year evidence overrides everything found so far.
			result.Verified = false
			return result
		}
	}

	if applyLink != nil {
		result.OfficialURL = applyLink.href
		result.ConfidenceScore += s.cfg.Scores.ApplyLink
	}

	if result.OfficialURL != "" || result.OfficialPDFURL != "" {
		result.Verified = true
		sourceURL := result.OfficialURL
		if sourceURL == "" {
			sourceURL = result.OfficialPDFURL
		}
		result.Facts = &types.Facts{
			Authority: sig.Authority,
			Exam:      sig.Exam,
			Year:      sig.Year,
			SourceURL: sourceURL,
		}
	}

	return result
}

// inspectPDF downloads and lexically validates the PDF candidate. It
// returns true when the wrong-year veto fired. Scoring is only added when
// the text names the authority or exam and carries a recognizable date.
func (s *Service) inspectPDF(ctx context.Context, sig types.Signal, pdfURL string, result *types.VerificationResult, w io.Writer) bool {
	data, err := s.fetcher.Bytes(ctx, pdfURL)
	if err != nil {
		fmt.Fprintf(w, "warning: fetching PDF %s: %v\n", pdfURL, err)
		return false
	}

	text, err := s.pdf.Text(data)
	if err != nil || text == "" {
		fmt.Fprintf(w, "warning: no text extracted from %s\n", pdfURL)
		return false
	}

	result.ExtractedText = snippet(text, s.cfg.SnippetLimit)

	lower := strings.ToLower(text)
	hasKeyword := strings.Contains(lower, strings.ToLower(sig.Authority)) ||
		strings.Contains(lower, strings.ToLower(sig.Exam))
	hasDate := matchesAnyDate(text)

	if !hasKeyword || !hasDate {
		fmt.Fprintf(w, "warning: PDF failed validation for %q (keyword: %t, date: %t)\n", sig.Exam, hasKeyword, hasDate)
		return false
	}

	if s.mentionsWrongYearOnly(text) {
		fmt.Fprintf(w, "vetoed %q: PDF references a non-%s year\n", sig.RawTitle, s.cfg.TargetYear)
		return true
	}

	result.ConfidenceScore += s.cfg.Scores.PDFFound
	fmt.Fprintf(w, "validated PDF for %q\n", sig.Exam)
	return false
}

// mentionsWrongYearOnly reports whether the text names some 202x year
// other than the target while never mentioning the target itself.
func (s *Service) mentionsWrongYearOnly(text string) bool {
	if strings.Contains(text, s.cfg.TargetYear) {
		return false
	}
	for _, year := range noticeYearPattern.FindAllString(text, -1) {
		if year != s.cfg.TargetYear {
			return true
		}
	}
	return false
}

// matchesAnyDate checks the date patterns in priority order.
func matchesAnyDate(text string) bool {
	for _, pattern := range datePatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// collectLinks extracts all anchors from the page.
func collectLinks(html string) ([]link, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var links []link
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		links = append(links, link{
			href: strings.TrimSpace(href),
			text: strings.ToLower(strings.TrimSpace(sel.Text())),
		})
	})
	return links, nil
}

// officialLinks keeps only links whose hostname ends with one of the
// configured official domain suffixes.
func (s *Service) officialLinks(links []link) []link {
	var official []link
	for _, l := range links {
		if s.isOfficialDomain(l.href) {
			official = append(official, l)
		}
	}
	return official
}

// isOfficialDomain reports whether the URL's hostname carries an official
// suffix. Unparseable URLs are not official.
func (s *Service) isOfficialDomain(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := u.Hostname()
	for _, suffix := range s.cfg.OfficialDomains {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// pickPDFCandidate returns the first official link that looks like a
// notification PDF.
func pickPDFCandidate(official []link) *link {
	for i, l := range official {
		if strings.HasSuffix(strings.ToLower(l.href), ".pdf") ||
			strings.Contains(l.text, "notification") ||
			strings.Contains(l.text, "download") {
			return &official[i]
		}
	}
	return nil
}

// pickApplyCandidate returns the first official link that looks like an
// apply or official-website link.
func pickApplyCandidate(official []link) *link {
	for i, l := range official {
		if strings.Contains(l.text, "apply") ||
			strings.Contains(l.text, "official") ||
			strings.Contains(l.text, "website") {
			return &official[i]
		}
	}
	return nil
}

// snippet bounds text to limit bytes.
func snippet(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	return text[:limit]
}
