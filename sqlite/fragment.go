package sqlite

import (
	"context"
	"slices"

	"github.com/fwojciec/kbase"
)

// Compile-time interface verification.
var _ kbase.FragmentService = (*FragmentService)(nil)

// FragmentService implements kbase.FragmentService using SQLite.
// Postings are stored one row each and read back in insertion order,
// which preserves the per-term ordering of the saved fragment.
type FragmentService struct {
	db *DB
}

// NewFragmentService creates a new FragmentService.
func NewFragmentService(db *DB) *FragmentService {
	return &FragmentService{db: db}
}

// SaveFragment replaces the stored fragment for frag.ArticleID.
func (s *FragmentService) SaveFragment(ctx context.Context, frag *kbase.Fragment) error {
	if frag.ArticleID == "" {
		return kbase.Errorf(kbase.EINVALID, "fragment article ID required")
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM fragments WHERE article_id = ?", frag.ArticleID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO fragments (article_id, content_hash) VALUES (?, ?)",
		frag.ArticleID, frag.ContentHash); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO postings (term, article_id, section, field, position) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	terms := make([]string, 0, len(frag.Terms))
	for term := range frag.Terms {
		terms = append(terms, term)
	}
	slices.Sort(terms)

	for _, term := range terms {
		for _, p := range frag.Terms[term] {
			if _, err := stmt.ExecContext(ctx, term, frag.ArticleID, p.Section, string(p.Field), p.Offset); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// FindFragments returns every stored fragment ordered by article ID.
func (s *FragmentService) FindFragments(ctx context.Context) ([]*kbase.Fragment, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT article_id, content_hash FROM fragments ORDER BY article_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frags []*kbase.Fragment
	byID := make(map[string]*kbase.Fragment)
	for rows.Next() {
		frag := &kbase.Fragment{Terms: make(map[string][]kbase.Posting)}
		if err := rows.Scan(&frag.ArticleID, &frag.ContentHash); err != nil {
			return nil, err
		}
		frags = append(frags, frag)
		byID[frag.ArticleID] = frag
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prows, err := s.db.QueryContext(ctx, "SELECT term, article_id, section, field, position FROM postings ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer prows.Close()

	for prows.Next() {
		var term, field string
		var p kbase.Posting
		if err := prows.Scan(&term, &p.ArticleID, &p.Section, &field, &p.Offset); err != nil {
			return nil, err
		}
		p.Field = kbase.Field(field)

		frag, ok := byID[p.ArticleID]
		if !ok {
			return nil, kbase.Errorf(kbase.ECORRUPT, "posting for term %q references missing fragment %s", term, p.ArticleID)
		}
		frag.Terms[term] = append(frag.Terms[term], p)
	}

	return frags, prows.Err()
}

// DeleteFragments removes every stored fragment.
func (s *FragmentService) DeleteFragments(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM fragments")
	return err
}
