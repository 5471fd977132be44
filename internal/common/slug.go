package common

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// Slugify converts a title into a URL-safe slug: lowercase, every run of
// characters outside [a-z0-9-] becomes a single hyphen, consecutive hyphens
// collapse, edge hyphens are trimmed. An empty result falls back to
// "untitled" so a slug is never blank.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = slugHyphenRuns.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "untitled"
	}
	return slug
}

// UniqueSlug returns base if unused, otherwise base-2, base-3, … until
// exists reports the candidate as free. exists is expected to match
// case-insensitively against live (non-deleted) slugs.
func UniqueSlug(base string, exists func(slug string) bool) string {
	if !exists(base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !exists(candidate) {
			return candidate
		}
	}
}
