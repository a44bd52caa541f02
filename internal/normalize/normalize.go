// Package normalize turns free-form recipe text into stable search tags.
package normalize

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any run of characters that are not ASCII letters or digits.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches runs of whitespace.
	whitespace = regexp.MustCompile(`\s+`)
)

// Slug converts text to a lowercase, ASCII, hyphen-separated slug.
//
//	"Crème fraîche" -> "creme-fraiche"
//	"Self-Raising Flour" -> "self-raising-flour"
//	"Jalapeño (seeded)" -> "jalapeno-seeded"
func Slug(s string) string {
	// Decompose so accents separate from their base letters.
	s = norm.NFKD.String(s)

	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Text trims and collapses internal whitespace. NFC normalization keeps
// visually identical names byte-identical.
func Text(s string) string {
	s = norm.NFC.String(s)
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// Tags converts ingredient keywords into a sorted, deduplicated tag set.
// Keywords that slug to nothing are dropped.
func Tags(keywords []string) []string {
	tags := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if slug := Slug(k); slug != "" {
			tags = append(tags, slug)
		}
	}
	slices.Sort(tags)
	return slices.Compact(tags)
}
