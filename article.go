package kbase

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Difficulty is the skill level an article targets.
type Difficulty string

// Difficulty levels recognised in article front matter.
const (
	DifficultyUnknown      Difficulty = ""
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// ParseDifficulty maps a front-matter value to a Difficulty.
// Matching is case-insensitive; unrecognised values return DifficultyUnknown.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return DifficultyBeginner
	case "intermediate":
		return DifficultyIntermediate
	case "advanced":
		return DifficultyAdvanced
	default:
		return DifficultyUnknown
	}
}

// kbIDRe matches a KB-ID such as KB-020.
var kbIDRe = regexp.MustCompile(`^KB-\d{3,}$`)

// NormalizeID upper-cases and trims a KB-ID.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// IsValidID reports whether id is a well-formed KB-ID after normalization.
func IsValidID(id string) bool {
	return kbIDRe.MatchString(NormalizeID(id))
}

// Article represents a knowledge-base article.
type Article struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Difficulty    Difficulty        `json:"difficulty"`
	LastUpdated   string            `json:"lastUpdated"`
	UpdatedAt     time.Time         `json:"updatedAt"` // Zero when LastUpdated is not a recognised date
	EstimatedTime string            `json:"estimatedTime"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Sections      []Section         `json:"sections"`
	Related       []Reference       `json:"related"`
	Sources       []SourceCitation  `json:"sources"`
	Content       string            `json:"content"`
	ContentHash   string            `json:"contentHash"`
	Origin        string            `json:"origin"`
	Deprecated    bool              `json:"deprecated"`
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.ID == "" {
		return Errorf(EINVALID, "article ID required")
	}
	if !IsValidID(a.ID) {
		return Errorf(EINVALID, "invalid article ID %q", a.ID)
	}
	return nil
}

// Section returns the section with the given canonical heading.
func (a *Article) Section(heading string) (Section, bool) {
	want := CanonicalHeading(heading)
	for _, s := range a.Sections {
		if s.Heading == want {
			return s, true
		}
	}
	return Section{}, false
}

// RelatedIDs returns the target IDs of the article's references in list order.
func (a *Article) RelatedIDs() []string {
	ids := make([]string, 0, len(a.Related))
	for _, r := range a.Related {
		ids = append(ids, r.TargetID)
	}
	return ids
}

// Clone returns a deep copy of the article.
func (a *Article) Clone() *Article {
	other := *a
	if a.Metadata != nil {
		other.Metadata = make(map[string]string, len(a.Metadata))
		for k, v := range a.Metadata {
			other.Metadata[k] = v
		}
	}
	other.Sections = append([]Section(nil), a.Sections...)
	other.Related = append([]Reference(nil), a.Related...)
	other.Sources = append([]SourceCitation(nil), a.Sources...)
	return &other
}

// Reference is a cross-reference from one article's Related Articles list
// to another article's KB-ID.
type Reference struct {
	TargetID string `json:"targetId"`
	Text     string `json:"text"`
}

// Edge is a directed cross-reference between two articles.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text,omitempty"`
}

// SourceCitation is an external resource cited by an article.
type SourceCitation struct {
	URL        string `json:"url"`
	Title      string `json:"title,omitempty"`
	AccessedAt string `json:"accessedAt,omitempty"`
}

// ArticleService represents a service for persisting articles.
type ArticleService interface {
	// SaveArticle creates the article or replaces the stored article with the same ID.
	SaveArticle(ctx context.Context, article *Article) error

	// FindArticleByID retrieves an article by ID.
	// Returns ENOTFOUND if article does not exist.
	FindArticleByID(ctx context.Context, id string) (*Article, error)

	// FindArticles retrieves articles matching the filter.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)

	// DeprecateArticle marks an article as superseded.
	// Returns ENOTFOUND if article does not exist.
	DeprecateArticle(ctx context.Context, id string) error
}

// ArticleFilter represents a filter for FindArticles.
type ArticleFilter struct {
	ID         *string     `json:"id"`
	Difficulty *Difficulty `json:"difficulty"`
	Deprecated *bool       `json:"deprecated"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
