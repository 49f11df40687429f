package core

import (
	"regexp"
	"strings"
	"testing"
)

var slugShape = regexp.MustCompile(`^[a-z0-9-]+$`)

func TestSlugifyShape(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple title", "How to train your dragon", "how-to-train-your-dragon-"},
		{"punctuation stripped", "Hello, World!", "hello-world-"},
		{"multiple spaces collapsed", "a  b", "a-b-"},
		{"leading and trailing noise", "  ?!Dragons!?  ", "dragons-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug := Slugify(tt.title)
			if !strings.HasPrefix(slug, tt.want) {
				t.Errorf("Slugify(%q) = %q, want prefix %q", tt.title, slug, tt.want)
			}
			if !slugShape.MatchString(slug) {
				t.Errorf("Slugify(%q) = %q, not a valid slug", tt.title, slug)
			}
		})
	}
}

func TestSlugifyAllSymbolTitle(t *testing.T) {
	slug := Slugify("???!!!***")
	if slug == "" {
		t.Fatal("expected non-empty slug for all-symbol title")
	}
	if !slugShape.MatchString(slug) {
		t.Errorf("Slugify of all-symbol title = %q, not a valid slug", slug)
	}
}

func TestSlugifyNeverCollides(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		slug := Slugify("How to train your dragon")
		if seen[slug] {
			t.Fatalf("duplicate slug %q for identical titles", slug)
		}
		seen[slug] = true
	}
}

func TestSlugifyDistinctTitles(t *testing.T) {
	if Slugify("first title") == Slugify("second title") {
		t.Error("distinct titles produced the same slug")
	}
}
