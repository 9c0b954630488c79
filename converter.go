package kbase

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be the article's main content (e.g., from an Extractor).
	Convert(html string) (string, error)
}

// ArticleConverter converts an extracted article to Markdown, keeping its title.
type ArticleConverter interface {
	ConvertArticle(res *ExtractResult) (string, error)
}
