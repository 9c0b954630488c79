// Package goquery isolates article content in HTML exports using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/kbase"
)

// Ensure Extractor implements kbase.Extractor at compile time.
var _ kbase.Extractor = (*Extractor)(nil)

// contentSelectors locate the article body, most specific first. The
// framework containers cover HTML exported from common documentation
// generators; the generic selectors catch hand-written pages.
var contentSelectors = []string{
	"[data-kb-article]",
	".theme-doc-markdown", // Docusaurus
	".md-content__inner",  // MkDocs Material
	"#VPContent .vp-doc",  // VitePress
	".theme-default-content",
	"[role='main'] .document", // Sphinx
	"article",
	"main",
	"[role='main']",
	".content",
	"body",
}

// chromeSelectors match page furniture removed before conversion.
var chromeSelectors = []string{
	"script", "style", "noscript", "template",
	"nav", "header", "footer", "aside",
	"[role='navigation']", ".sidebar", ".toc", ".breadcrumbs", ".edit-this-page",
}

// Extractor selects the main article element and strips navigation chrome.
type Extractor struct {
	// RequireContainer makes Extract fail with ENOTFOUND instead of falling
	// back to the whole <body> when no content container matches, so that
	// a heuristic extractor later in an ExtractorChain gets a turn.
	RequireContainer bool
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and body HTML. The title is the first
// h1 inside the article, falling back to the document <title>.
func (e *Extractor) Extract(html string) (*kbase.ExtractResult, error) {
	if strings.TrimSpace(html) == "" {
		return nil, kbase.Errorf(kbase.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, kbase.Errorf(kbase.EINVALID, "failed to parse HTML: %v", err)
	}

	content, ok := selectContent(doc)
	if !ok && e.RequireContainer {
		return nil, kbase.Errorf(kbase.ENOTFOUND, "no article container found")
	}
	for _, sel := range chromeSelectors {
		content.Find(sel).Remove()
	}

	title := strings.TrimSpace(content.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	body, err := content.Html()
	if err != nil {
		return nil, kbase.Errorf(kbase.EINVALID, "failed to render content: %v", err)
	}
	if strings.TrimSpace(body) == "" {
		return nil, kbase.Errorf(kbase.EINVALID, "no article content found")
	}

	return &kbase.ExtractResult{
		Title:       title,
		ContentHTML: body,
	}, nil
}

// selectContent returns the first non-empty match of contentSelectors.
// ok is false when only <body> (or nothing) matched.
func selectContent(doc *goquery.Document) (sel *goquery.Selection, ok bool) {
	for _, s := range contentSelectors {
		match := doc.Find(s).First()
		if match.Length() > 0 && strings.TrimSpace(match.Text()) != "" {
			return match, s != "body"
		}
	}
	return doc.Selection, false
}
