// Package trafilatura extracts article bodies with go-trafilatura. It is
// the last resort for exported pages the other extractors cannot isolate.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/kbase"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements kbase.Extractor at compile time.
var _ kbase.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the main content of the page. Tables and links are kept
// so that Related Articles lists and Sources survive conversion.
func (e *Extractor) Extract(rawHTML string) (*kbase.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, kbase.Errorf(kbase.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
		IncludeLinks:   true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, kbase.Errorf(kbase.EMALFORMED, "trafilatura: %v", err)
	}
	if result.ContentNode == nil {
		return nil, kbase.Errorf(kbase.ENOTFOUND, "trafilatura found no article content")
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, err
	}

	return &kbase.ExtractResult{
		Title:       strings.TrimSpace(result.Metadata.Title),
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
