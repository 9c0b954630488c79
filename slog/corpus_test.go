package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/mock"
	kbslog "github.com/fwojciec/kbase/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingCorpusService(t *testing.T) {
	t.Parallel()

	inner := &mock.CorpusService{
		GetArticleFn: func(ctx context.Context, id string) (*kbase.Article, error) {
			if id == "KB-404" {
				return nil, kbase.Errorf(kbase.ENOTFOUND, "article %s not found", id)
			}
			return &kbase.Article{ID: id}, nil
		},
		SearchFn: func(ctx context.Context, query string, opts kbase.SearchOptions) ([]kbase.SearchResult, error) {
			return []kbase.SearchResult{{ID: "KB-001"}}, nil
		},
		GetRelatedFn: func(ctx context.Context, id string) ([]string, error) {
			return []string{"KB-002", "KB-003"}, nil
		},
	}

	t.Run("logs search query and result count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		svc := kbslog.NewLoggingCorpusService(inner, debugLogger(&buf))

		results, err := svc.Search(context.Background(), "vpn", kbase.SearchOptions{Limit: 5})

		require.NoError(t, err)
		assert.Len(t, results, 1)
		output := buf.String()
		assert.Contains(t, output, "msg=search")
		assert.Contains(t, output, "query=vpn")
		assert.Contains(t, output, "limit=5")
		assert.Contains(t, output, "count=1")
	})

	t.Run("logs error code for missing article", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		svc := kbslog.NewLoggingCorpusService(inner, debugLogger(&buf))

		_, err := svc.GetArticle(context.Background(), "KB-404")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=not_found")
	})

	t.Run("logs related count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		svc := kbslog.NewLoggingCorpusService(inner, debugLogger(&buf))

		ids, err := svc.GetRelated(context.Background(), "KB-001")

		require.NoError(t, err)
		assert.Equal(t, []string{"KB-002", "KB-003"}, ids)
		assert.Contains(t, buf.String(), "count=2")
	})

	t.Run("stays quiet above debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		svc := kbslog.NewLoggingCorpusService(inner, slog.New(slog.NewTextHandler(&buf, nil)))

		_, err := svc.GetArticle(context.Background(), "KB-001")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}
