package kbase

import "strings"

// ExtractResult holds the content extracted from an HTML article export.
type ExtractResult struct {
	// Title is the document title.
	Title string

	// ContentHTML is the article body with page chrome removed.
	ContentHTML string
}

// Extractor isolates the article body of an HTML page.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// ExtractorChain tries each extractor in order and returns the first result
// with non-blank content. If every extractor fails, the first error is
// returned.
type ExtractorChain []Extractor

// Extract implements Extractor.
func (c ExtractorChain) Extract(html string) (*ExtractResult, error) {
	if strings.TrimSpace(html) == "" {
		return nil, Errorf(EINVALID, "empty HTML input")
	}

	var first error
	for _, e := range c {
		res, err := e.Extract(html)
		if err == nil && res != nil && strings.TrimSpace(res.ContentHTML) != "" {
			return res, nil
		}
		if err == nil {
			err = Errorf(ENOTFOUND, "no article content found")
		}
		if first == nil {
			first = err
		}
	}
	if first == nil {
		first = Errorf(EINVALID, "no extractors configured")
	}
	return nil, first
}
