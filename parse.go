package kbase

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// bundleSepRe matches the sentinel that separates articles concatenated
// into a single blob, e.g. <|RELATED_DOC_SEP-3|>.
var bundleSepRe = regexp.MustCompile(`<\|RELATED_DOC_SEP-[^|>]*\|>`)

// Blob is raw source text holding one or more articles.
type Blob struct {
	Origin  string // File path or URL the blob was read from
	Content string
}

// RawDocument is a single article's text split out of a Blob.
type RawDocument struct {
	Origin   string
	Position int // Index within the originating blob
	Content  string
}

// SplitBundle splits a blob on the bundle separator sentinel.
// Blank parts are dropped; a blob without separators yields one document.
func SplitBundle(blob *Blob) []RawDocument {
	parts := bundleSepRe.Split(blob.Content, -1)
	docs := make([]RawDocument, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		docs = append(docs, RawDocument{
			Origin:   blob.Origin,
			Position: len(docs),
			Content:  part,
		})
	}
	return docs
}

// Front-matter field names after key normalization.
const (
	fieldID            = "id"
	fieldTitle         = "title"
	fieldDifficulty    = "difficulty"
	fieldLastUpdated   = "last updated"
	fieldEstimatedTime = "estimated time"
	fieldStatus        = "status"
)

var fieldAliases = map[string]string{
	"article id":       fieldID,
	"article":          fieldID,
	"kb id":            fieldID,
	"kb-id":            fieldID,
	"id":               fieldID,
	"title":            fieldTitle,
	"difficulty":       fieldDifficulty,
	"difficulty level": fieldDifficulty,
	"level":            fieldDifficulty,
	"last updated":     fieldLastUpdated,
	"updated":          fieldLastUpdated,
	"last modified":    fieldLastUpdated,
	"estimated time":   fieldEstimatedTime,
	"time":             fieldEstimatedTime,
	"reading time":     fieldEstimatedTime,
	"time required":    fieldEstimatedTime,
	"status":           fieldStatus,
}

var (
	kbTokenRe    = regexp.MustCompile(`(?i)\bKB-\d+\b`)
	bulletRe     = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+(.*)$`)
	leadingRefRe = regexp.MustCompile("^[\\s*_\\[(`]*(?i:(KB-\\d+))\\b")
	linkTargetRe = regexp.MustCompile(`\]\([^)]*\)`)
	mdLinkRe     = regexp.MustCompile(`\[([^\]]*)\]\(\s*([^)\s]*)\s*\)`)
	schemeURLRe  = regexp.MustCompile(`\b[a-zA-Z][a-zA-Z0-9+.-]*://[^\s)>\]]+`)
	hostPathRe   = regexp.MustCompile(`\b[\w-]+(?:\.[\w-]+)+/[^\s)>\]]*`)
	accessedRe   = regexp.MustCompile(`(?i)accessed(?: on)?:?\s*([^)\]]+)`)
)

var dateLayouts = []string{"2006-01-02", "January 2, 2006", "Jan 2, 2006", "2 January 2006", "01/02/2006", "January 2006"}

const (
	// maxKeyWords bounds the key of a front-matter field; longer keys are prose.
	maxKeyWords = 4

	refTrimChars  = " \t:-–—*_]|"
	citeTrimChars = " \t:-–—*_|,"
)

// ParseArticle parses a single article's Markdown into an Article.
// Returns EMALFORMED if the front matter has no well-formed KB-ID.
// ParseArticle has no side effects.
func ParseArticle(doc RawDocument) (*Article, error) {
	content := strings.TrimSpace(doc.Content)
	fields, title := scanFrontMatter(content)

	rawID, ok := fields[fieldID]
	if !ok || strings.TrimSpace(rawID) == "" {
		return nil, Errorf(EMALFORMED, "%s: article ID missing from front matter", originLabel(doc))
	}
	id := NormalizeID(kbTokenRe.FindString(rawID))
	if !IsValidID(id) {
		return nil, Errorf(EMALFORMED, "%s: invalid article ID %q", originLabel(doc), rawID)
	}

	if title == "" {
		title = fields[fieldTitle]
	}

	a := &Article{
		ID:            id,
		Title:         title,
		Difficulty:    ParseDifficulty(fields[fieldDifficulty]),
		LastUpdated:   fields[fieldLastUpdated],
		UpdatedAt:     parseDate(fields[fieldLastUpdated]),
		EstimatedTime: fields[fieldEstimatedTime],
		Content:       content,
		ContentHash:   HashContent(content),
		Origin:        doc.Origin,
		Deprecated:    strings.EqualFold(strings.TrimSpace(fields[fieldStatus]), "deprecated"),
	}

	for k, v := range fields {
		if isKnownField(k) {
			continue
		}
		if a.Metadata == nil {
			a.Metadata = make(map[string]string)
		}
		a.Metadata[k] = v
	}

	for _, s := range ExtractSections(content) {
		if s.Level < 2 {
			continue
		}
		a.Sections = append(a.Sections, s)
		switch s.Heading {
		case SectionRelated:
			a.Related = append(a.Related, ParseReferences(s.Body)...)
		case SectionSources:
			a.Sources = append(a.Sources, ParseCitations(s.Body)...)
		}
	}

	return a, nil
}

func originLabel(doc RawDocument) string {
	if doc.Origin == "" {
		return "document " + strconv.Itoa(doc.Position)
	}
	if doc.Position > 0 {
		return doc.Origin + "#" + strconv.Itoa(doc.Position)
	}
	return doc.Origin
}

func isKnownField(key string) bool {
	switch key {
	case fieldID, fieldTitle, fieldDifficulty, fieldLastUpdated, fieldEstimatedTime, fieldStatus:
		return true
	}
	return false
}

// scanFrontMatter tolerantly scans the lines before the first "##" heading
// for "key: value" fields. It also returns the first H1 title it finds.
func scanFrontMatter(content string) (map[string]string, string) {
	fields := make(map[string]string)
	var title string

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			break
		}
		if m := headingRe.FindStringSubmatch(trimmed); m != nil {
			if len(m[1]) > 1 {
				break
			}
			if title == "" {
				title = strings.TrimSpace(m[2])
			}
			continue
		}

		for _, part := range splitFieldParts(trimmed) {
			key, value, ok := splitField(part)
			if !ok {
				continue
			}
			if canonical, alias := fieldAliases[key]; alias {
				key = canonical
			}
			if _, exists := fields[key]; !exists {
				fields[key] = value
			}
		}
	}

	return fields, title
}

// splitFieldParts splits a line that may hold several delimiter-separated
// fields. Table rows ("| Key | Value |") become a single "Key: Value" part.
func splitFieldParts(line string) []string {
	if line == "" || strings.Trim(line, "-=*_ ") == "" {
		return nil
	}
	if strings.HasPrefix(line, "|") {
		var cells []string
		for _, c := range strings.Split(strings.Trim(line, "|"), "|") {
			cells = append(cells, strings.TrimSpace(c))
		}
		if len(cells) == 2 && strings.Trim(cells[0], "-: ") != "" && !strings.Contains(cells[0], ":") {
			return []string{cells[0] + ": " + cells[1]}
		}
		return cells
	}
	return strings.Split(line, "|")
}

// splitField parses one "key: value" part. Markdown list and emphasis
// markers are ignored. Parts whose key looks like prose are rejected.
func splitField(part string) (key, value string, ok bool) {
	part = strings.TrimSpace(part)
	part = strings.TrimLeft(part, "-*+> ")
	part = strings.ReplaceAll(part, "**", "")
	part = strings.ReplaceAll(part, "__", "")

	idx := strings.Index(part, ":")
	if idx <= 0 {
		return "", "", false
	}
	key = strings.ToLower(strings.Join(strings.Fields(strings.Trim(part[:idx], "*_ ")), " "))
	value = strings.TrimSpace(strings.Trim(part[idx+1:], "*_ "))
	if key == "" || len(strings.Fields(key)) > maxKeyWords {
		return "", "", false
	}
	return key, value, true
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseReferences extracts references from a Related Articles section body.
// Only bullets whose text starts with a KB-ID token yield a reference;
// repeated targets keep their first occurrence.
func ParseReferences(body string) []Reference {
	var refs []Reference
	seen := make(map[string]bool)

	for _, line := range strings.Split(body, "\n") {
		m := bulletRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		item := m[1]
		loc := leadingRefRe.FindStringSubmatchIndex(item)
		if loc == nil {
			continue
		}
		target := NormalizeID(item[loc[2]:loc[3]])
		if seen[target] {
			continue
		}
		seen[target] = true

		text := linkTargetRe.ReplaceAllString(item[loc[1]:], "")
		refs = append(refs, Reference{
			TargetID: target,
			Text:     strings.Trim(text, refTrimChars),
		})
	}

	return refs
}

// ParseCitations extracts source citations from a Sources section body.
// Each bullet yields at most one citation: the first Markdown link target,
// otherwise the first URL-like token. Bullets without any URL-like text
// yield a citation with an empty URL.
func ParseCitations(body string) []SourceCitation {
	var cites []SourceCitation

	for _, line := range strings.Split(body, "\n") {
		m := bulletRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		item := strings.TrimSpace(m[1])
		if item == "" {
			continue
		}

		var c SourceCitation
		if am := accessedRe.FindStringSubmatch(item); am != nil {
			c.AccessedAt = strings.TrimSpace(am[1])
			item = strings.TrimSpace(strings.Replace(item, am[0], "", 1))
			item = strings.TrimSuffix(strings.TrimSpace(strings.TrimSuffix(item, "()")), "(")
		}

		if lm := mdLinkRe.FindStringSubmatchIndex(item); lm != nil {
			c.Title = strings.TrimSpace(item[lm[2]:lm[3]])
			c.URL = item[lm[4]:lm[5]]
		} else if loc := schemeURLRe.FindStringIndex(item); loc != nil {
			c.URL = strings.TrimRight(item[loc[0]:loc[1]], ".,;")
			c.Title = strings.Trim(item[:loc[0]], citeTrimChars)
		} else if loc := hostPathRe.FindStringIndex(item); loc != nil {
			c.URL = strings.TrimRight(item[loc[0]:loc[1]], ".,;")
			c.Title = strings.Trim(item[:loc[0]], citeTrimChars)
		} else {
			c.Title = strings.Trim(item, citeTrimChars)
		}
		c.Title = strings.Trim(c.Title, citeTrimChars+"()")

		cites = append(cites, c)
	}

	return cites
}
