// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/dailyexamresult/notice-engine/pkg/types"
)

var testNow = time.Date(2026, 2, 14, 2, 0, 0, 0, time.UTC)

func testCfg(autoPublish bool) types.ValidationConfig {
	return types.ValidationConfig{
		AutoPublish: autoPublish,
		Thresholds: types.ThresholdConfig{
			PublishConfidence:   0.95,
			PublishCompleteness: 95,
		},
		Scores: types.ScoringConfig{
			PDFFound:         0.5,
			ApplyLink:        0.2,
			DatesConfirmed:   0.2,
			VacancyConfirmed: 0.1,
		},
	}
}

func intp(n int) *int { return &n }

// fullDraft fills every critical and secondary completeness field.
func fullDraft() types.PostDraft {
	return types.PostDraft{
		Title:                    "UPSC Civil Services Examination 2026",
		Slug:                     "upsc-cse-2026",
		ShortDescription:         "UPSC invites applications for CSE 2026.",
		Category:                 "Latest Jobs",
		PostDate:                 "2026-02-10",
		LastDate:                 "2026-03-10",
		PrimaryActionLink:        "https://upsc.gov.in/apply",
		Fees:                     "Rs 100 (Gen)",
		AgeLimit:                 "21-32 years",
		EducationalQualification: "Any bachelor's degree",
		TotalPosts:               intp(1200),
		AvailabilityNote:         "Admit card expected in April",
		PhysicalStandardTest:     &types.PhysicalStandardTest{},
		PhysicalEfficiencyTest:   []types.PhysicalEfficiencyRow{{Category: "Running"}},
		ImportantDates:           []types.ImportantDate{{Label: "Application Begin", Date: "2026-02-10"}},
		Status:                   types.StatusDraft,
	}
}

func TestCompletenessScoring(t *testing.T) {
	tests := []struct {
		name  string
		draft types.PostDraft
		want  float64
	}{
		{"empty draft", types.PostDraft{}, 0},
		// All 6 critical (90) plus all 7 secondary (17.5) clamps to 100.
		{"full draft", fullDraft(), 100},
		{
			"criticals only",
			types.PostDraft{
				Title:             "T",
				ShortDescription:  "S",
				Category:          "C",
				PostDate:          "2026-02-10",
				LastDate:          "2026-03-10",
				PrimaryActionLink: "https://upsc.gov.in",
			},
			90,
		},
		{
			"category id counts as category",
			types.PostDraft{CategoryID: 3},
			15,
		},
		{
			"zero vacancy count earns nothing",
			types.PostDraft{TotalPosts: intp(0)},
			0,
		},
		{
			"one secondary",
			types.PostDraft{Fees: "Rs 100"},
			2.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := completeness(tt.draft); got != tt.want {
				t.Errorf("completeness = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateConfidenceAccumulatesAndClamps(t *testing.T) {
	draft := fullDraft()
	vr := types.VerificationResult{ConfidenceScore: 0.9}

	out := Validate(draft, vr, testCfg(false), testNow)

	// 0.9 + 0.2 (dates) + 0.1 (vacancy) clamps at 1.0.
	if got := out.AutomationDetails.ConfidenceScore; got != 1.0 {
		t.Errorf("ConfidenceScore = %v, want 1.0", got)
	}
	if got := out.AutomationDetails.CompletenessScore; got != 100 {
		t.Errorf("CompletenessScore = %v, want 100", got)
	}
}

func TestValidatePublishGate(t *testing.T) {
	vr := types.VerificationResult{ConfidenceScore: 0.7}

	tests := []struct {
		name        string
		autoPublish bool
		mutate      func(*types.PostDraft)
		want        types.PostStatus
	}{
		{
			name:        "gates met with auto-publish",
			autoPublish: true,
			mutate:      func(d *types.PostDraft) {},
			want:        types.StatusPublished,
		},
		{
			name:        "auto-publish off keeps draft",
			autoPublish: false,
			mutate:      func(d *types.PostDraft) {},
			want:        types.StatusDraft,
		},
		{
			name:        "incomplete draft stays draft",
			autoPublish: true,
			mutate:      func(d *types.PostDraft) { d.PrimaryActionLink = "" },
			want:        types.StatusDraft,
		},
		{
			name:        "invalid draft stays draft",
			autoPublish: true,
			mutate:      func(d *types.PostDraft) { d.TotalPosts = intp(-5) },
			want:        types.StatusDraft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := fullDraft()
			tt.mutate(&draft)
			out := Validate(draft, vr, testCfg(tt.autoPublish), testNow)
			if out.Status != tt.want {
				t.Errorf("Status = %q, want %q (confidence %v, completeness %v)",
					out.Status, tt.want,
					out.AutomationDetails.ConfidenceScore,
					out.AutomationDetails.CompletenessScore)
			}
		})
	}
}

func TestValidateLowConfidenceStaysDraft(t *testing.T) {
	draft := fullDraft()
	vr := types.VerificationResult{ConfidenceScore: 0.5}

	// 0.5 + 0.2 + 0.1 = 0.8 < 0.95 threshold.
	out := Validate(draft, vr, testCfg(true), testNow)
	if out.Status != types.StatusPublished && out.AutomationDetails.ConfidenceScore >= 0.95 {
		t.Fatal("test setup wrong")
	}
	if out.Status != types.StatusDraft {
		t.Errorf("Status = %q, want draft below the confidence threshold", out.Status)
	}
}

func TestValidateNegativeVacancyFailsAutomation(t *testing.T) {
	draft := fullDraft()
	draft.TotalPosts = intp(-5)

	out := Validate(draft, types.VerificationResult{}, testCfg(false), testNow)

	if out.AutomationDetails.AutomationStatus != types.AutomationFailed {
		t.Errorf("AutomationStatus = %q, want failed", out.AutomationDetails.AutomationStatus)
	}
	found := false
	for _, issue := range out.AutomationDetails.Issues {
		if strings.Contains(issue, "negative vacancy") {
			found = true
		}
	}
	if !found {
		t.Errorf("Issues = %v, want a negative vacancy entry", out.AutomationDetails.Issues)
	}
}

func TestValidatePastLastDateIsIssueOnly(t *testing.T) {
	draft := fullDraft()
	draft.LastDate = "2025-12-31"

	out := Validate(draft, types.VerificationResult{}, testCfg(false), testNow)

	if out.AutomationDetails.AutomationStatus != types.AutomationCompleted {
		t.Errorf("a past last date must not fail automation, got %q",
			out.AutomationDetails.AutomationStatus)
	}
	found := false
	for _, issue := range out.AutomationDetails.Issues {
		if strings.Contains(issue, "past") {
			found = true
		}
	}
	if !found {
		t.Errorf("Issues = %v, want a past-date entry", out.AutomationDetails.Issues)
	}
}

func TestValidatePreservesExistingIssues(t *testing.T) {
	draft := fullDraft()
	draft.AutomationDetails.Issues = []string{"generation failed: model call: quota"}
	draft.TotalPosts = intp(-1)

	out := Validate(draft, types.VerificationResult{}, testCfg(false), testNow)

	if len(out.AutomationDetails.Issues) != 2 {
		t.Fatalf("Issues = %v, want the prior issue plus the new one", out.AutomationDetails.Issues)
	}
	if out.AutomationDetails.Issues[0] != "generation failed: model call: quota" {
		t.Errorf("prior issue lost: %v", out.AutomationDetails.Issues)
	}
}

func TestValidateUnparseableLastDateIgnored(t *testing.T) {
	draft := fullDraft()
	draft.LastDate = "March 2026"

	out := Validate(draft, types.VerificationResult{}, testCfg(false), testNow)
	for _, issue := range out.AutomationDetails.Issues {
		if strings.Contains(issue, "past") {
			t.Errorf("unparseable date must not trigger the past-date issue: %v", issue)
		}
	}
}
