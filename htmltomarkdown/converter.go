// Package htmltomarkdown converts HTML article exports to Markdown.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/kbase"
)

// Ensure Converter implements the converter interfaces at compile time.
var (
	_ kbase.Converter        = (*Converter)(nil)
	_ kbase.ArticleConverter = (*Converter)(nil)
)

// blankRunRe matches three or more consecutive newlines.
var blankRunRe = regexp.MustCompile(`\n{3,}`)

// Converter wraps html-to-markdown to convert HTML to Markdown.
// Output uses ATX headings and "-" bullets so the article parser
// sees the same structure as hand-written Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle(commonmark.HeadingStyleATX),
				commonmark.WithBulletListMarker("-"),
			),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", kbase.Errorf(kbase.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", kbase.Errorf(kbase.EMALFORMED, "convert HTML: %v", err)
	}

	result = blankRunRe.ReplaceAllString(strings.TrimSpace(result), "\n\n")
	return result + "\n", nil
}

// ConvertArticle converts an extracted article, prepending the title as an
// H1 when the body does not carry one.
func (c *Converter) ConvertArticle(res *kbase.ExtractResult) (string, error) {
	md, err := c.Convert(res.ContentHTML)
	if err != nil {
		return "", err
	}
	if res.Title == "" || strings.HasPrefix(md, "# ") {
		return md, nil
	}
	return "# " + res.Title + "\n\n" + md, nil
}
