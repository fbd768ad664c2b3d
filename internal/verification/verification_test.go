// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verification

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dailyexamresult/notice-engine/pkg/types"
)

type mockFetcher struct {
	pages map[string]string // url → HTML
	docs  map[string][]byte // url → PDF bytes
}

func (m *mockFetcher) Page(ctx context.Context, url string) (string, error) {
	html, ok := m.pages[url]
	if !ok {
		return "", errors.New("page not found")
	}
	return html, nil
}

func (m *mockFetcher) Bytes(ctx context.Context, url string) ([]byte, error) {
	data, ok := m.docs[url]
	if !ok {
		return nil, errors.New("document not found")
	}
	return data, nil
}

// mockExtractor echoes the buffer back as text, letting tests control the
// "PDF" content with plain strings.
type mockExtractor struct{}

func (mockExtractor) Text(data []byte) (string, error) {
	return string(data), nil
}

func testConfig() types.VerificationConfig {
	return types.VerificationConfig{
		OfficialDomains: []string{".gov.in", ".nic.in", ".org.in", ".edu.in", ".res.in"},
		TargetYear:      "2026",
		SnippetLimit:    3000,
		Scores: types.ScoringConfig{
			PDFFound:         0.5,
			ApplyLink:        0.2,
			DatesConfirmed:   0.2,
			VacancyConfirmed: 0.1,
		},
	}
}

func testSignal() types.Signal {
	return types.Signal{
		RawTitle:  "UPSC Civil Services Online Form 2026",
		URL:       "https://aggregator.example.com/upsc-cse-2026",
		Authority: "UPSC",
		Exam:      "Civil Services",
		Year:      "2026",
		PostType:  types.PostRecruitment,
	}
}

const pageWithBothLinks = `<html><body>
<a href="https://upsc.gov.in/notice-2026.pdf">Notification PDF</a>
<a href="https://upsc.gov.in/apply">Apply Online</a>
<a href="https://randomblog.example.com/upsc.pdf">Mirror download</a>
</body></html>`

func TestVerifyWithPDFAndApplyLink(t *testing.T) {
	fetcher := &mockFetcher{
		pages: map[string]string{
			"https://aggregator.example.com/upsc-cse-2026": pageWithBothLinks,
		},
		docs: map[string][]byte{
			"https://upsc.gov.in/notice-2026.pdf": []byte(
				"UPSC Civil Services Examination 2026. Last date 14/02/2026. Vacancies: 1200."),
		},
	}
	s := New(fetcher, mockExtractor{}, testConfig())

	var buf bytes.Buffer
	result := s.Verify(context.Background(), testSignal(), &buf)

	if !result.Verified {
		t.Fatalf("expected verified result, log:\n%s", buf.String())
	}
	if result.OfficialPDFURL != "https://upsc.gov.in/notice-2026.pdf" {
		t.Errorf("OfficialPDFURL = %q", result.OfficialPDFURL)
	}
	if result.OfficialURL != "https://upsc.gov.in/apply" {
		t.Errorf("OfficialURL = %q", result.OfficialURL)
	}
	if got, want := result.ConfidenceScore, 0.7; got != want {
		t.Errorf("ConfidenceScore = %v, want %v (pdf + apply)", got, want)
	}
	if !strings.Contains(result.ExtractedText, "Civil Services") {
		t.Errorf("ExtractedText missing PDF content: %q", result.ExtractedText)
	}
	if result.Facts == nil {
		t.Fatal("verified result must carry facts")
	}
	if result.Facts.SourceURL != "https://upsc.gov.in/apply" {
		t.Errorf("Facts.SourceURL = %q, want the apply link", result.Facts.SourceURL)
	}
	if result.Facts.Authority != "UPSC" || result.Facts.Year != "2026" {
		t.Errorf("Facts = %+v", result.Facts)
	}
}

func TestVerifyWrongYearVeto(t *testing.T) {
	fetcher := &mockFetcher{
		pages: map[string]string{
			"https://aggregator.example.com/upsc-cse-2026": pageWithBothLinks,
		},
		docs: map[string][]byte{
			// Keyword and date present, but only a stale year is named.
			"https://upsc.gov.in/notice-2026.pdf": []byte(
				"UPSC Civil Services Examination 2024. Last date 14/02/2024."),
		},
	}
	s := New(fetcher, mockExtractor{}, testConfig())

	var buf bytes.Buffer
	result := s.Verify(context.Background(), testSignal(), &buf)

	if result.Verified {
		t.Error("wrong-year PDF must veto verification outright")
	}
	if result.Facts != nil {
		t.Error("vetoed result must not carry facts")
	}
	if !strings.Contains(buf.String(), "vetoed") {
		t.Errorf("expected a veto message, log:\n%s", buf.String())
	}
}

func TestVerifyPDFMissingKeywordStillVerifiesByLink(t *testing.T) {
	fetcher := &mockFetcher{
		pages: map[string]string{
			"https://aggregator.example.com/upsc-cse-2026": pageWithBothLinks,
		},
		docs: map[string][]byte{
			"https://upsc.gov.in/notice-2026.pdf": []byte("Unrelated circular 2026"),
		},
	}
	s := New(fetcher, mockExtractor{}, testConfig())

	var buf bytes.Buffer
	result := s.Verify(context.Background(), testSignal(), &buf)

	// The PDF earns no score, but the official apply link still verifies.
	if !result.Verified {
		t.Fatal("expected verification via the apply link")
	}
	if got, want := result.ConfidenceScore, 0.2; got != want {
		t.Errorf("ConfidenceScore = %v, want %v (apply link only)", got, want)
	}
}

func TestVerifyNoOfficialLinks(t *testing.T) {
	fetcher := &mockFetcher{
		pages: map[string]string{
			"https://aggregator.example.com/upsc-cse-2026": `<html><body>
				<a href="https://randomblog.example.com/notice.pdf">Notification</a>
			</body></html>`,
		},
	}
	s := New(fetcher, mockExtractor{}, testConfig())

	var buf bytes.Buffer
	result := s.Verify(context.Background(), testSignal(), &buf)

	if result.Verified {
		t.Error("non-official evidence must never verify a signal")
	}
	if result.ConfidenceScore != 0 {
		t.Errorf("ConfidenceScore = %v, want 0", result.ConfidenceScore)
	}
}

func TestVerifyFetchFailureIsNonFatal(t *testing.T) {
	s := New(&mockFetcher{}, mockExtractor{}, testConfig())

	var buf bytes.Buffer
	result := s.Verify(context.Background(), testSignal(), &buf)

	if result.Verified {
		t.Error("unreachable page must yield an unverified result")
	}
	if !strings.Contains(buf.String(), "unverified") {
		t.Errorf("expected an unverified message, log:\n%s", buf.String())
	}
}

func TestVerifyUnreadablePDFKeepsLinkEvidence(t *testing.T) {
	fetcher := &mockFetcher{
		pages: map[string]string{
			"https://aggregator.example.com/upsc-cse-2026": pageWithBothLinks,
		},
		// The PDF URL resolves to nothing; Bytes fails.
	}
	s := New(fetcher, mockExtractor{}, testConfig())

	var buf bytes.Buffer
	result := s.Verify(context.Background(), testSignal(), &buf)

	if !result.Verified {
		t.Fatal("a failed PDF download must not block link-based verification")
	}
	if result.OfficialPDFURL == "" {
		t.Error("the PDF candidate URL should still be recorded")
	}
	if got, want := result.ConfidenceScore, 0.2; got != want {
		t.Errorf("ConfidenceScore = %v, want %v", got, want)
	}
}

func TestIsOfficialDomain(t *testing.T) {
	s := New(&mockFetcher{}, mockExtractor{}, testConfig())

	tests := []struct {
		url  string
		want bool
	}{
		{"https://upsc.gov.in/notice", true},
		{"https://ssc.nic.in/portal", true},
		{"https://ibps.org.in/crp", true},
		{"https://randomblog.example.com/notice", false},
		{"https://gov.in.example.com/phish", false},
		{"not a url", false},
		{"/relative/path.pdf", false},
	}

	for _, tt := range tests {
		if got := s.isOfficialDomain(tt.url); got != tt.want {
			t.Errorf("isOfficialDomain(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestPickCandidates(t *testing.T) {
	official := []link{
		{href: "https://upsc.gov.in/about", text: "about the commission"},
		{href: "https://upsc.gov.in/notice.pdf", text: "exam notice"},
		{href: "https://upsc.gov.in/advt", text: "download notification"},
		{href: "https://upsc.gov.in/apply", text: "apply online"},
	}

	pdf := pickPDFCandidate(official)
	if pdf == nil || pdf.href != "https://upsc.gov.in/notice.pdf" {
		t.Errorf("pickPDFCandidate = %+v, want the .pdf link", pdf)
	}

	apply := pickApplyCandidate(official)
	if apply == nil || apply.href != "https://upsc.gov.in/apply" {
		t.Errorf("pickApplyCandidate = %+v, want the apply link", apply)
	}

	if pickPDFCandidate(nil) != nil || pickApplyCandidate(nil) != nil {
		t.Error("empty candidate lists must yield nil")
	}
}

func TestMatchesAnyDate(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Last date: 14/02/2026", true},
		{"Last date: 14-02-26", true},
		{"Exam held in February 2026", true},
		{"Advertisement 2026", true},
		{"No dates here at all", false},
	}

	for _, tt := range tests {
		if got := matchesAnyDate(tt.text); got != tt.want {
			t.Errorf("matchesAnyDate(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestMentionsWrongYearOnly(t *testing.T) {
	s := New(&mockFetcher{}, mockExtractor{}, testConfig())

	tests := []struct {
		text string
		want bool
	}{
		{"Recruitment 2024", true},
		{"Recruitment 2024 and 2026", false},
		{"Recruitment 2026", false},
		{"No year at all", false},
		{"Founded 1999", false},
	}

	for _, tt := range tests {
		if got := s.mentionsWrongYearOnly(tt.text); got != tt.want {
			t.Errorf("mentionsWrongYearOnly(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestSnippetBoundsExtractedText(t *testing.T) {
	cfg := testConfig()
	cfg.SnippetLimit = 40

	long := "UPSC Civil Services 2026 " + strings.Repeat("padding ", 50) + " 01/01/2026"
	fetcher := &mockFetcher{
		pages: map[string]string{
			"https://aggregator.example.com/upsc-cse-2026": pageWithBothLinks,
		},
		docs: map[string][]byte{
			"https://upsc.gov.in/notice-2026.pdf": []byte(long),
		},
	}
	s := New(fetcher, mockExtractor{}, cfg)

	var buf bytes.Buffer
	result := s.Verify(context.Background(), testSignal(), &buf)
	if len(result.ExtractedText) != 40 {
		t.Errorf("len(ExtractedText) = %d, want 40", len(result.ExtractedText))
	}
}

func TestMatchesAnyDateInWrongYearText(t *testing.T) {
	// "Civil Services" keyword present and "2024" is a valid date, so the
	// veto path, not the validation warning, must decide the outcome.
	s := New(&mockFetcher{
		pages: map[string]string{
			"https://aggregator.example.com/upsc-cse-2026": pageWithBothLinks,
		},
		docs: map[string][]byte{
			"https://upsc.gov.in/notice-2026.pdf": []byte("Civil Services 2024"),
		},
	}, mockExtractor{}, testConfig())

	var buf bytes.Buffer
	result := s.Verify(context.Background(), testSignal(), &buf)
	if result.Verified {
		t.Error("expected veto on stale-year evidence")
	}
}
