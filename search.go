package kbase

import "context"

// CorpusService is the read-only query surface of a built corpus.
// It is the only view a presentation layer gets; index and graph
// structures stay internal.
type CorpusService interface {
	// GetArticle retrieves an article by KB-ID.
	// Returns ENOTFOUND if the article does not exist.
	GetArticle(ctx context.Context, id string) (*Article, error)

	// Search performs full-text search over the corpus.
	// Returns results ordered by relevance.
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)

	// GetRelated returns the IDs listed in the article's Related Articles
	// section. Returns an empty slice when there are none and ENOTFOUND if
	// the article does not exist.
	GetRelated(ctx context.Context, id string) ([]string, error)
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	// Maximum number of results to return (0 means no limit)
	Limit int `json:"limit,omitempty"`

	// Include articles marked as deprecated
	IncludeDeprecated bool `json:"includeDeprecated,omitempty"`
}

// SearchResult represents a search match.
type SearchResult struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}
