package index

import (
	"strings"

	"github.com/fwojciec/kbase"
)

// DefaultSnippetRadius is the number of words kept on each side of a match.
const DefaultSnippetRadius = 12

// Snippet returns a window of words around the posting's position in the
// article. Title and heading matches fall back to the opening words of the
// matched section's body, or of the first non-empty section for titles.
func Snippet(a *kbase.Article, p kbase.Posting, radius int) string {
	if radius <= 0 {
		radius = DefaultSnippetRadius
	}

	if p.Field == kbase.FieldBody && p.Section > 0 && p.Section <= len(a.Sections) {
		return window(Words(a.Sections[p.Section-1].Body), p.Offset, radius)
	}

	if p.Section > 0 && p.Section <= len(a.Sections) {
		if body := a.Sections[p.Section-1].Body; body != "" {
			return window(Words(body), 0, radius)
		}
	}
	for _, s := range a.Sections {
		if s.Body != "" {
			return window(Words(s.Body), 0, radius)
		}
	}
	return a.Title
}

func window(words []string, center, radius int) string {
	if len(words) == 0 {
		return ""
	}
	start := max(0, center-radius)
	end := min(len(words), center+radius+1)
	if start >= end {
		start = max(0, end-2*radius-1)
	}

	s := strings.Join(words[start:end], " ")
	if start > 0 {
		s = "..." + s
	}
	if end < len(words) {
		s += "..."
	}
	return s
}
