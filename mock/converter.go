package mock

import "github.com/fwojciec/kbase"

var (
	_ kbase.Converter        = (*Converter)(nil)
	_ kbase.ArticleConverter = (*ArticleConverter)(nil)
)

// Converter is a mock implementation of kbase.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// ArticleConverter is a mock implementation of kbase.ArticleConverter.
type ArticleConverter struct {
	ConvertArticleFn func(res *kbase.ExtractResult) (string, error)
}

func (c *ArticleConverter) ConvertArticle(res *kbase.ExtractResult) (string, error) {
	return c.ConvertArticleFn(res)
}
