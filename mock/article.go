package mock

import (
	"context"

	"github.com/fwojciec/kbase"
)

var _ kbase.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of kbase.ArticleService.
type ArticleService struct {
	SaveArticleFn      func(ctx context.Context, article *kbase.Article) error
	FindArticleByIDFn  func(ctx context.Context, id string) (*kbase.Article, error)
	FindArticlesFn     func(ctx context.Context, filter kbase.ArticleFilter) ([]*kbase.Article, error)
	DeprecateArticleFn func(ctx context.Context, id string) error
}

func (s *ArticleService) SaveArticle(ctx context.Context, article *kbase.Article) error {
	return s.SaveArticleFn(ctx, article)
}

func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*kbase.Article, error) {
	return s.FindArticleByIDFn(ctx, id)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter kbase.ArticleFilter) ([]*kbase.Article, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) DeprecateArticle(ctx context.Context, id string) error {
	return s.DeprecateArticleFn(ctx, id)
}
