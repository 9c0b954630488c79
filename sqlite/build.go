package sqlite

import (
	"context"
	"strings"

	"github.com/fwojciec/kbase"
)

// Compile-time interface verification.
var _ kbase.BuildService = (*BuildService)(nil)

// BuildService implements kbase.BuildService using SQLite.
type BuildService struct {
	db *DB
}

// NewBuildService creates a new BuildService.
func NewBuildService(db *DB) *BuildService {
	return &BuildService{db: db}
}

// CreateBuild stores a build report together with its violations.
func (s *BuildService) CreateBuild(ctx context.Context, r *kbase.Report) error {
	if r.ID == "" {
		return kbase.Errorf(kbase.EINVALID, "build ID required")
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO builds (id, articles, indexed, unchanged, excluded, published, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Articles, r.Indexed, r.Unchanged, r.Excluded, boolToInt(r.Published),
		formatTime(r.StartedAt), formatTime(r.FinishedAt)); err != nil {
		return err
	}

	for i, v := range r.Violations {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO violations (build_id, seq, rule, article_id, severity, detail)
			VALUES (?, ?, ?, ?, ?, ?)
		`, r.ID, i, v.Rule, v.ArticleID, string(v.Severity), v.Detail); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindBuilds returns recorded builds, newest first.
func (s *BuildService) FindBuilds(ctx context.Context, filter kbase.BuildFilter) ([]*kbase.Report, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, articles, indexed, unchanged, excluded, published, started_at, finished_at FROM builds WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Published != nil {
		query.WriteString(" AND published = ?")
		args = append(args, boolToInt(*filter.Published))
	}

	query.WriteString(" ORDER BY started_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*kbase.Report
	for rows.Next() {
		var r kbase.Report
		var published int
		var startedAt, finishedAt string

		if err := rows.Scan(&r.ID, &r.Articles, &r.Indexed, &r.Unchanged, &r.Excluded, &published,
			&startedAt, &finishedAt); err != nil {
			return nil, err
		}
		r.Published = published != 0

		var err error
		if r.StartedAt, err = parseOptionalTime(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if r.FinishedAt, err = parseOptionalTime(finishedAt, "finished_at"); err != nil {
			return nil, err
		}
		reports = append(reports, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, r := range reports {
		if r.Violations, err = s.findViolations(ctx, r.ID); err != nil {
			return nil, err
		}
	}

	return reports, nil
}

func (s *BuildService) findViolations(ctx context.Context, buildID string) ([]kbase.Violation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rule, article_id, severity, detail
		FROM violations
		WHERE build_id = ?
		ORDER BY seq
	`, buildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []kbase.Violation
	for rows.Next() {
		var v kbase.Violation
		var severity string
		if err := rows.Scan(&v.Rule, &v.ArticleID, &severity, &v.Detail); err != nil {
			return nil, err
		}
		v.Severity = kbase.Severity(severity)
		out = append(out, v)
	}
	return out, rows.Err()
}
