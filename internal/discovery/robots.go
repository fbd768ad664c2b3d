// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"context"
	"net/url"
	"regexp"
)

// disallowAllPattern matches a blanket "Disallow: /" rule.
var disallowAllPattern = regexp.MustCompile(`(?i)Disallow:\s*/\s*(\r?\n|$)`)

// allowedByRobots reports whether base may be scraped. Only a blanket
// disallow is honored; a missing or unreachable robots.txt counts as
// allowed.
func (s *Service) allowedByRobots(ctx context.Context, base string) bool {
	baseURL, err := url.Parse(base)
	if err != nil {
		return true
	}
	robotsURL := baseURL.ResolveReference(&url.URL{Path: "/robots.txt"}).String()

	body, err := s.fetcher.Robots(ctx, robotsURL)
	if err != nil {
		return true
	}
	return !disallowAllPattern.MatchString(body)
}
