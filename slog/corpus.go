package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/kbase"
)

// Ensure LoggingCorpusService implements kbase.CorpusService.
var _ kbase.CorpusService = (*LoggingCorpusService)(nil)

// LoggingCorpusService wraps a CorpusService with debug logging of queries.
type LoggingCorpusService struct {
	next   kbase.CorpusService
	logger *slog.Logger
}

// NewLoggingCorpusService creates a new LoggingCorpusService.
func NewLoggingCorpusService(next kbase.CorpusService, logger *slog.Logger) *LoggingCorpusService {
	return &LoggingCorpusService{next: next, logger: logger}
}

// GetArticle delegates to the wrapped service and logs the lookup.
func (s *LoggingCorpusService) GetArticle(ctx context.Context, id string) (a *kbase.Article, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("get article",
			"id", id,
			"duration", time.Since(begin),
			"err", kbase.ErrorCode(err),
		)
	}(time.Now())
	return s.next.GetArticle(ctx, id)
}

// Search delegates to the wrapped service and logs the query.
func (s *LoggingCorpusService) Search(ctx context.Context, query string, opts kbase.SearchOptions) (results []kbase.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("search",
			"query", query,
			"limit", opts.Limit,
			"count", len(results),
			"duration", time.Since(begin),
			"err", kbase.ErrorCode(err),
		)
	}(time.Now())
	return s.next.Search(ctx, query, opts)
}

// GetRelated delegates to the wrapped service and logs the lookup.
func (s *LoggingCorpusService) GetRelated(ctx context.Context, id string) (ids []string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("get related",
			"id", id,
			"count", len(ids),
			"duration", time.Since(begin),
			"err", kbase.ErrorCode(err),
		)
	}(time.Now())
	return s.next.GetRelated(ctx, id)
}
