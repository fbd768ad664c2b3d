// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package slugutil derives URL slugs for posts and resolves collisions.
package slugutil

import (
	"fmt"

	"github.com/gosimple/slug"
)

// Make returns a lowercase URL-friendly slug for text.
func Make(text string) string {
	return slug.Make(text)
}

// Unique returns base, or base with the lowest numeric suffix for which
// exists reports false. exists is typically a repository slug lookup.
func Unique(base string, exists func(string) (bool, error)) (string, error) {
	candidate := base
	for counter := 1; ; counter++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", fmt.Errorf("checking slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}
