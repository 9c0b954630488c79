// Package readability extracts article bodies from arbitrary HTML pages
// using the go-readability content scoring heuristics. It serves pages whose
// markup matches none of the known documentation containers.
package readability

import (
	"strings"

	"github.com/fwojciec/kbase"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements kbase.Extractor at compile time.
var _ kbase.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract scores the page and returns the most article-like subtree.
// Returns ENOTFOUND when readability finds nothing worth keeping.
func (e *Extractor) Extract(rawHTML string) (*kbase.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, kbase.Errorf(kbase.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, kbase.Errorf(kbase.EMALFORMED, "readability: %v", err)
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil, kbase.Errorf(kbase.ENOTFOUND, "readability found no article content")
	}

	return &kbase.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
