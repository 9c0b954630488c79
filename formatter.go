package kbase

import "strings"

// FormatArticle renders an article back to Markdown with normalized front
// matter and canonical section headings.
func FormatArticle(a *Article) string {
	var b strings.Builder

	title := a.Title
	if title == "" {
		title = a.ID
	}
	b.WriteString("# " + title + "\n\n")

	writeField := func(key, value string) {
		if value == "" {
			return
		}
		b.WriteString("**" + key + ":** " + value + "\n")
	}
	writeField("Article ID", a.ID)
	writeField("Difficulty", string(a.Difficulty))
	writeField("Last Updated", a.LastUpdated)
	writeField("Estimated Time", a.EstimatedTime)
	if a.Deprecated {
		writeField("Status", "Deprecated")
	}

	for _, s := range a.Sections {
		b.WriteString("\n" + strings.Repeat("#", s.Level) + " ")
		if s.Level == 2 {
			b.WriteString(s.Heading)
		} else {
			b.WriteString(s.Title)
		}
		b.WriteString("\n")
		if s.Body != "" {
			b.WriteString("\n" + s.Body + "\n")
		}
	}

	return b.String()
}

// FormatArticles formats articles for display, separated by blank lines.
func FormatArticles(articles []*Article) string {
	if len(articles) == 0 {
		return ""
	}

	parts := make([]string, 0, len(articles))
	for _, a := range articles {
		parts = append(parts, FormatArticle(a))
	}

	return strings.Join(parts, "\n\n")
}
