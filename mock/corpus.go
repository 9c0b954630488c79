package mock

import (
	"context"

	"github.com/fwojciec/kbase"
)

var _ kbase.CorpusService = (*CorpusService)(nil)

// CorpusService is a mock implementation of kbase.CorpusService.
type CorpusService struct {
	GetArticleFn func(ctx context.Context, id string) (*kbase.Article, error)
	SearchFn     func(ctx context.Context, query string, opts kbase.SearchOptions) ([]kbase.SearchResult, error)
	GetRelatedFn func(ctx context.Context, id string) ([]string, error)
}

func (s *CorpusService) GetArticle(ctx context.Context, id string) (*kbase.Article, error) {
	return s.GetArticleFn(ctx, id)
}

func (s *CorpusService) Search(ctx context.Context, query string, opts kbase.SearchOptions) ([]kbase.SearchResult, error) {
	return s.SearchFn(ctx, query, opts)
}

func (s *CorpusService) GetRelated(ctx context.Context, id string) ([]string, error) {
	return s.GetRelatedFn(ctx, id)
}
