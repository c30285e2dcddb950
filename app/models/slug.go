package models

import (
	"regexp"
	"strings"
)

var (
	slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)
	slugPattern    = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// DeriveSlug converts a title into a URL-safe identifier: lower-case, every
// run of characters outside [a-z0-9] collapsed to one hyphen, and no leading
// or trailing hyphen. Distinct titles may collide ("A/B" and "A B").
func DeriveSlug(title string) string {
	s := slugSeparators.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.TrimPrefix(s, "-")
	return strings.TrimSuffix(s, "-")
}

// IsValidSlug reports whether s can be used as a post file name stem.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
