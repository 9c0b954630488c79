package kbase

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Canonical section headings of a knowledge-base article.
const (
	SectionOverview        = "Overview"
	SectionPrerequisites   = "Prerequisites"
	SectionSteps           = "Steps"
	SectionTroubleshooting = "Troubleshooting"
	SectionTips            = "Tips"
	SectionRelated         = "Related Articles"
	SectionSources         = "Sources"
)

// canonicalHeadings maps lowercased heading text to its canonical form.
var canonicalHeadings = map[string]string{
	"overview":         SectionOverview,
	"prerequisites":    SectionPrerequisites,
	"steps":            SectionSteps,
	"troubleshooting":  SectionTroubleshooting,
	"tips":             SectionTips,
	"related articles": SectionRelated,
	"related":          SectionRelated,
	"sources":          SectionSources,
	"references":       SectionSources,
}

// Section represents a heading in a markdown document and the text that
// follows it up to the next heading.
type Section struct {
	Level   int    `json:"level"`
	Title   string `json:"title"`   // Heading text as written
	Heading string `json:"heading"` // Canonical heading
	Anchor  string `json:"anchor"`
	Body    string `json:"body"`
}

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+?)(?:\s+#+)?\s*$`)

// ExtractSections parses markdown and returns all headings (H1-H6) with
// their bodies. Headings inside fenced code blocks are ignored.
// It generates URL-safe anchors and handles duplicates with numeric suffixes.
func ExtractSections(markdown string) []Section {
	if markdown == "" {
		return nil
	}

	var sections []Section
	var body []string
	anchorCounts := make(map[string]int)
	inFence := false

	flush := func() {
		if len(sections) > 0 {
			sections[len(sections)-1].Body = strings.TrimSpace(strings.Join(body, "\n"))
		}
		body = body[:0]
	}

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			body = append(body, line)
			continue
		}

		match := headingRe.FindStringSubmatch(line)
		if inFence || match == nil {
			body = append(body, line)
			continue
		}

		flush()

		title := strings.TrimSpace(match[2])
		baseAnchor := generateAnchor(title)

		// Handle duplicates
		anchor := baseAnchor
		if count, exists := anchorCounts[baseAnchor]; exists {
			anchor = baseAnchor + "-" + strconv.Itoa(count)
			anchorCounts[baseAnchor]++
		} else {
			anchorCounts[baseAnchor] = 1
		}

		sections = append(sections, Section{
			Level:   len(match[1]),
			Title:   title,
			Heading: CanonicalHeading(title),
			Anchor:  anchor,
		})
	}
	flush()

	return sections
}

// CanonicalHeading normalizes heading case so that "OVERVIEW", "overview"
// and "Overview" compare equal. Known article headings map to their
// canonical spelling; other headings are title-cased word by word.
func CanonicalHeading(title string) string {
	fields := strings.Fields(strings.Trim(title, " :*_"))
	key := strings.ToLower(strings.Join(fields, " "))
	if canonical, ok := canonicalHeadings[key]; ok {
		return canonical
	}

	for i, f := range fields {
		runes := []rune(strings.ToLower(f))
		runes[0] = unicode.ToUpper(runes[0])
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}

// generateAnchor creates a URL-safe anchor from a title.
// Converts to lowercase, replaces spaces with hyphens, removes special chars.
func generateAnchor(title string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if unicode.IsSpace(r) || r == '-' {
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	result := sb.String()
	// Trim trailing hyphen
	return strings.TrimSuffix(result, "-")
}
