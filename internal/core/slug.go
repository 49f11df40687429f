package core

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Slugify derives the external identifier of an article from its title:
// lower-cased, whitespace turned into hyphens, everything outside [a-z0-9-]
// stripped, plus a random suffix so two articles with the same title never
// collide. A title with no usable characters still yields a valid slug
// consisting of the suffix alone.
func Slugify(title string) string {
	base := slugBase(title)
	suffix := uuid.New().String()[:8]

	if base == "" {
		return suffix
	}

	return base + "-" + suffix
}

func slugBase(title string) string {
	var builder strings.Builder

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsSpace(r):
			builder.WriteRune('-')
		case r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			builder.WriteRune(r)
		}
	}

	slug := builder.String()

	// Collapse runs of hyphens left behind by stripped characters.
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	return strings.Trim(slug, "-")
}
