package kbase

import "context"

// Field identifies which part of an article a term occurrence came from.
type Field string

// Indexed fields in descending rank order.
const (
	FieldTitle   Field = "title"
	FieldHeading Field = "heading"
	FieldBody    Field = "body"
)

// Rank orders fields for search ranking (higher ranks first).
func (f Field) Rank() int {
	switch f {
	case FieldTitle:
		return 3
	case FieldHeading:
		return 2
	case FieldBody:
		return 1
	default:
		return 0
	}
}

// Posting records one occurrence of a term.
type Posting struct {
	ArticleID string `json:"articleId"`
	Section   int    `json:"section"` // 0 is the title, i+1 is Article.Sections[i]
	Field     Field  `json:"field"`
	Offset    int    `json:"offset"` // Word offset within the section text
}

// Fragment is one article's complete contribution to the inverted index.
// Fragments are built independently per article and merged into the
// shared index in a single reduce step.
type Fragment struct {
	ArticleID   string               `json:"articleId"`
	ContentHash string               `json:"contentHash"`
	Terms       map[string][]Posting `json:"terms"`
}

// TermEntry pairs a term with its posting list, sorted by
// (ArticleID, Section, Offset).
type TermEntry struct {
	Term     string    `json:"term"`
	Postings []Posting `json:"postings"`
}

// FragmentService persists index fragments between runs.
type FragmentService interface {
	// SaveFragment replaces the stored fragment for the fragment's article.
	SaveFragment(ctx context.Context, frag *Fragment) error

	// FindFragments returns every stored fragment.
	FindFragments(ctx context.Context) ([]*Fragment, error)
}
