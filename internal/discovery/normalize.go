// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/dailyexamresult/notice-engine/pkg/types"
)

// yearPattern matches a notice year strictly within the 2020s.
var yearPattern = regexp.MustCompile(`202[0-9]`)

// postTypeRule maps a lowercase title substring to a notice kind.
type postTypeRule struct {
	substr   string
	postType types.PostType
}

// postTypeRules is evaluated in declared priority; the first matching rule
// wins. Titles matching none default to Recruitment, which also covers
// "apply online" and "online form" anchors.
var postTypeRules = []postTypeRule{
	{"result", types.PostResult},
	{"admit card", types.PostAdmitCard},
	{"syllabus", types.PostSyllabus},
	{"answer key", types.PostAnswerKey},
}

// classifyPostType returns the notice kind for a raw title.
func classifyPostType(title string) types.PostType {
	lower := strings.ToLower(title)
	for _, rule := range postTypeRules {
		if strings.Contains(lower, rule.substr) {
			return rule.postType
		}
	}
	return types.PostRecruitment
}

// matchAuthority returns the first entry of the ordered authority table
// contained in the title, or "Unknown". List order is the tie-break when
// several entries match; no longest-match refinement is attempted.
func matchAuthority(title string, authorities []string) string {
	for _, auth := range authorities {
		if strings.Contains(title, auth) {
			return auth
		}
	}
	return "Unknown"
}

// extractYear returns the first 4-digit 202x year in the title, or "".
func extractYear(title string) string {
	return yearPattern.FindString(title)
}

// normalize turns a raw anchor title into the structured fields of a
// Signal. The exam keeps the full title: splitting authority from exam
// reliably would need more context than a title carries.
func normalize(rawTitle string, authorities []string) (authority, exam, year string, postType types.PostType) {
	return matchAuthority(rawTitle, authorities),
		rawTitle,
		extractYear(rawTitle),
		classifyPostType(rawTitle)
}

// IdempotencyKey returns the deterministic digest of a signal's identity.
// Equal (authority, exam, year, postType) tuples always produce equal keys.
func IdempotencyKey(authority, exam, year string, postType types.PostType) string {
	sum := sha256.Sum256([]byte(authority + "|" + exam + "|" + year + "|" + string(postType)))
	return hex.EncodeToString(sum[:])
}
