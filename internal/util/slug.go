// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
)

var (
	wordSeparatorRe   = regexp.MustCompile(`[\s_/.]+`)
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9-]`)
	multipleDashRe    = regexp.MustCompile(`-+`)
)

// NameSlug turns what a user types into the name the API looks Pokemon up
// by: lowercase, word separators as single dashes, other punctuation
// dropped.
//
//	"Mr. Mime"   → "mr-mime"
//	"Farfetch'd" → "farfetchd"
//	"ho_oh"      → "ho-oh"
func NameSlug(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = wordSeparatorRe.ReplaceAllString(s, "-")
	s = nonAlphanumericRe.ReplaceAllString(s, "")
	s = multipleDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
