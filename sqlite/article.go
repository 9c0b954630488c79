package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/kbase"
)

// Compile-time interface verification.
var _ kbase.ArticleService = (*ArticleService)(nil)

// ArticleService implements kbase.ArticleService using SQLite.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

const articleColumns = `id, title, difficulty, last_updated, updated_at, estimated_time,
	metadata, sections, related, sources, content, content_hash, origin, deprecated`

// SaveArticle creates or replaces an article. A stored deprecated flag is
// never cleared by a save.
func (s *ArticleService) SaveArticle(ctx context.Context, a *kbase.Article) error {
	if err := a.Validate(); err != nil {
		return err
	}

	metadata, err := marshalColumn(a.Metadata, "metadata")
	if err != nil {
		return err
	}
	sections, err := marshalColumn(a.Sections, "sections")
	if err != nil {
		return err
	}
	related, err := marshalColumn(a.Related, "related")
	if err != nil {
		return err
	}
	sources, err := marshalColumn(a.Sources, "sources")
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO articles (`+articleColumns+`, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			difficulty = excluded.difficulty,
			last_updated = excluded.last_updated,
			updated_at = excluded.updated_at,
			estimated_time = excluded.estimated_time,
			metadata = excluded.metadata,
			sections = excluded.sections,
			related = excluded.related,
			sources = excluded.sources,
			content = excluded.content,
			content_hash = excluded.content_hash,
			origin = excluded.origin,
			deprecated = MAX(articles.deprecated, excluded.deprecated),
			saved_at = excluded.saved_at
	`, a.ID, a.Title, string(a.Difficulty), a.LastUpdated, formatTime(a.UpdatedAt), a.EstimatedTime,
		metadata, sections, related, sources, a.Content, a.ContentHash, a.Origin, boolToInt(a.Deprecated),
		time.Now().UTC().Format(time.RFC3339))

	return err
}

// FindArticleByID retrieves an article by ID.
func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*kbase.Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, kbase.NormalizeID(id))

	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, kbase.Errorf(kbase.ENOTFOUND, "article %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindArticles retrieves articles matching the filter, ordered by ID.
func (s *ArticleService) FindArticles(ctx context.Context, filter kbase.ArticleFilter) ([]*kbase.Article, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + articleColumns + " FROM articles WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, kbase.NormalizeID(*filter.ID))
	}
	if filter.Difficulty != nil {
		query.WriteString(" AND difficulty = ?")
		args = append(args, string(*filter.Difficulty))
	}
	if filter.Deprecated != nil {
		query.WriteString(" AND deprecated = ?")
		args = append(args, boolToInt(*filter.Deprecated))
	}

	query.WriteString(" ORDER BY id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*kbase.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	return articles, rows.Err()
}

// DeprecateArticle marks an article as superseded.
func (s *ArticleService) DeprecateArticle(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "UPDATE articles SET deprecated = 1 WHERE id = ?", kbase.NormalizeID(id))
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return kbase.Errorf(kbase.ENOTFOUND, "article %s not found", id)
	}

	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*kbase.Article, error) {
	var a kbase.Article
	var difficulty, updatedAt, metadata, sections, related, sources string
	var deprecated int

	if err := row.Scan(&a.ID, &a.Title, &difficulty, &a.LastUpdated, &updatedAt, &a.EstimatedTime,
		&metadata, &sections, &related, &sources, &a.Content, &a.ContentHash, &a.Origin, &deprecated); err != nil {
		return nil, err
	}

	a.Difficulty = kbase.Difficulty(difficulty)
	a.Deprecated = deprecated != 0

	var err error
	if a.UpdatedAt, err = parseOptionalTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(metadata, "metadata", &a.Metadata); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(sections, "sections", &a.Sections); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(related, "related", &a.Related); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(sources, "sources", &a.Sources); err != nil {
		return nil, err
	}

	return &a, nil
}
