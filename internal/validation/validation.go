// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validation scores a generated draft and decides its publication
// status. It never rejects a draft outright: bad input is downgraded to a
// failed draft, not discarded.
package validation

import (
	"fmt"
	"math"
	"time"

	"github.com/dailyexamresult/notice-engine/pkg/types"
)

const (
	criticalFieldWeight  = 15.0
	secondaryFieldWeight = 2.5
	dateLayout           = "2006-01-02"
)

// report is the transient scoring record; its fields are folded into the
// draft's automation details before return.
type report struct {
	isValid           bool
	issues            []string
	confidenceScore   float64
	completenessScore float64
}

// Validate finalizes a draft: sanity checks, completeness and confidence
// scoring, the publish gate, and the automation status. now anchors the
// past-date check so callers and tests stay deterministic.
func Validate(draft types.PostDraft, vr types.VerificationResult, cfg types.ValidationConfig, now time.Time) types.PostDraft {
	r := report{isValid: true, confidenceScore: vr.ConfidenceScore}

	// A closing date in the past is questionable for a fresh notice but
	// not fatal; the operator sees it as an issue.
	if draft.LastDate != "" {
		if last, err := time.Parse(dateLayout, draft.LastDate); err == nil && last.Before(now) {
			r.issues = append(r.issues, "last date is in the past")
		}
	}

	if draft.TotalPosts != nil && *draft.TotalPosts < 0 {
		r.issues = append(r.issues, fmt.Sprintf("negative vacancy count (%d)", *draft.TotalPosts))
		r.isValid = false
	}

	r.completenessScore = completeness(draft)

	if len(draft.ImportantDates) > 0 {
		r.confidenceScore += cfg.Scores.DatesConfirmed
	}
	if hasVacancyCount(draft) {
		r.confidenceScore += cfg.Scores.VacancyConfirmed
	}
	r.confidenceScore = math.Min(r.confidenceScore, 1.0)

	highConfidence := r.confidenceScore >= cfg.Thresholds.PublishConfidence
	complete := r.completenessScore >= cfg.Thresholds.PublishCompleteness

	if cfg.AutoPublish && highConfidence && complete && r.isValid {
		draft.Status = types.StatusPublished
	} else {
		draft.Status = types.StatusDraft
	}

	status := types.AutomationCompleted
	if !r.isValid {
		status = types.AutomationFailed
	}

	draft.AutomationDetails.ConfidenceScore = r.confidenceScore
	draft.AutomationDetails.CompletenessScore = r.completenessScore
	draft.AutomationDetails.AutomationStatus = status
	draft.AutomationDetails.Issues = append(draft.AutomationDetails.Issues, r.issues...)

	return draft
}

// completeness sums fixed weights for filled critical and secondary
// fields, clamped to 100.
func completeness(draft types.PostDraft) float64 {
	critical := []bool{
		draft.Title != "",
		draft.ShortDescription != "",
		draft.Category != "" || draft.CategoryID != 0,
		draft.PostDate != "",
		draft.LastDate != "",
		draft.PrimaryActionLink != "",
	}
	secondary := []bool{
		draft.Fees != "",
		draft.AgeLimit != "",
		draft.EducationalQualification != "",
		hasVacancyCount(draft),
		draft.AvailabilityNote != "",
		draft.PhysicalStandardTest != nil,
		len(draft.PhysicalEfficiencyTest) > 0,
	}

	score := 0.0
	for _, filled := range critical {
		if filled {
			score += criticalFieldWeight
		}
	}
	for _, filled := range secondary {
		if filled {
			score += secondaryFieldWeight
		}
	}
	return math.Min(score, 100)
}

// hasVacancyCount reports whether the draft states a usable vacancy
// count. Zero counts as absent: the model emits it for "not stated".
func hasVacancyCount(draft types.PostDraft) bool {
	return draft.TotalPosts != nil && *draft.TotalPosts != 0
}
