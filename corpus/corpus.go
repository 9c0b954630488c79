// Package corpus provides the in-memory knowledge-base corpus: the
// read-only query facade over articles, the cross-reference graph and the
// search index, and the Builder that loads batches of articles into it.
package corpus

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/graph"
	"github.com/fwojciec/kbase/index"
	"github.com/fwojciec/kbase/validate"
)

// Compile-time interface verification.
var _ kbase.CorpusService = (*Corpus)(nil)

// Corpus holds the articles of a knowledge base with their graph and index.
// It is safe for concurrent use: queries share a read lock and builds take
// the write lock only while merging.
type Corpus struct {
	mu        sync.RWMutex
	tokenizer *index.Tokenizer
	articles  map[string]*kbase.Article
	index     *index.Index
	graph     *graph.Graph
}

// New returns an empty Corpus. A nil tokenizer uses index.NewTokenizer().
func New(tokenizer *index.Tokenizer) *Corpus {
	if tokenizer == nil {
		tokenizer = index.NewTokenizer()
	}
	return &Corpus{
		tokenizer: tokenizer,
		articles:  make(map[string]*kbase.Article),
		index:     index.New(),
		graph:     graph.New(),
	}
}

// GetArticle retrieves a copy of an article by KB-ID.
func (c *Corpus) GetArticle(_ context.Context, id string) (*kbase.Article, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	a, ok := c.articles[kbase.NormalizeID(id)]
	if !ok {
		return nil, kbase.Errorf(kbase.ENOTFOUND, "article %s not found", id)
	}
	return a.Clone(), nil
}

// Search performs full-text search. A blank query is EINVALID; a query
// made only of stopwords matches nothing.
func (c *Corpus) Search(_ context.Context, query string, opts kbase.SearchOptions) ([]kbase.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, kbase.Errorf(kbase.EINVALID, "search query required")
	}
	q := c.tokenizer.ParseQuery(query)

	c.mu.RLock()
	defer c.mu.RUnlock()

	results := []kbase.SearchResult{}
	for _, h := range c.index.Search(q) {
		a, ok := c.articles[h.ArticleID]
		if !ok || (a.Deprecated && !opts.IncludeDeprecated) {
			continue
		}
		results = append(results, kbase.SearchResult{
			ID:      a.ID,
			Title:   a.Title,
			Score:   h.Score,
			Snippet: index.Snippet(a, h.Best, index.DefaultSnippetRadius),
		})
		if opts.Limit > 0 && len(results) == opts.Limit {
			break
		}
	}
	return results, nil
}

// GetRelated returns the IDs the article lists under Related Articles.
func (c *Corpus) GetRelated(_ context.Context, id string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id = kbase.NormalizeID(id)
	if _, ok := c.articles[id]; !ok {
		return nil, kbase.Errorf(kbase.ENOTFOUND, "article %s not found", id)
	}
	return c.graph.Related(id), nil
}

// Backlinks returns the IDs of articles that list id as related.
func (c *Corpus) Backlinks(_ context.Context, id string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id = kbase.NormalizeID(id)
	if _, ok := c.articles[id]; !ok {
		return nil, kbase.Errorf(kbase.ENOTFOUND, "article %s not found", id)
	}
	return c.graph.Backlinks(id), nil
}

// Len returns the number of articles in the corpus.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.articles)
}

// Digest returns the digest of the search index contents.
func (c *Corpus) Digest() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index.Digest()
}

// Articles returns copies of every article sorted by ID.
func (c *Corpus) Articles() []*kbase.Article {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sortedArticles(true)
}

// sortedArticles returns the articles sorted by ID. The caller holds the lock.
func (c *Corpus) sortedArticles(clone bool) []*kbase.Article {
	out := make([]*kbase.Article, 0, len(c.articles))
	for _, a := range c.articles {
		if clone {
			a = a.Clone()
		}
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b *kbase.Article) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Snapshot captures the publishable state of the corpus.
func (c *Corpus) Snapshot(report *kbase.Report) *kbase.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &kbase.Snapshot{
		Articles: c.sortedArticles(true),
		Terms:    c.index.Entries(),
		Edges:    c.graph.Edges(),
		Report:   report,
	}
}

// unchanged reports whether the corpus already indexes this exact content
// for the article.
func (c *Corpus) unchanged(a *kbase.Article) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	existing, ok := c.articles[a.ID]
	if !ok || existing.ContentHash != a.ContentHash {
		return false
	}
	hash, ok := c.index.ContentHash(a.ID)
	return ok && hash == a.ContentHash
}

// put stores the article and merges its fragment. The caller holds the write lock.
func (c *Corpus) put(a *kbase.Article, frag *kbase.Fragment) {
	if existing, ok := c.articles[a.ID]; ok && existing.Deprecated {
		a.Deprecated = true
	}
	c.articles[a.ID] = a
	c.graph.SetArticle(a.ID, a.Related)
	c.index.Merge(frag)
}

// reindex rebuilds the whole index from article content. The caller holds
// the write lock.
func (c *Corpus) reindex() []*kbase.Fragment {
	c.index.Reset()
	frags := make([]*kbase.Fragment, 0, len(c.articles))
	for _, a := range c.sortedArticles(false) {
		frag := c.tokenizer.Fragment(a)
		c.index.Merge(frag)
		frags = append(frags, frag)
	}
	return frags
}

// Restore loads persisted articles and index fragments. Fragments missing,
// stale or failing the index invariants trigger a full re-index from
// article content; the rebuilt fragments are returned so the caller can
// persist them. A nil slice means the stored index was used as is.
func (c *Corpus) Restore(ctx context.Context, articles kbase.ArticleService, fragments kbase.FragmentService) ([]*kbase.Fragment, error) {
	stored, err := articles.FindArticles(ctx, kbase.ArticleFilter{})
	if err != nil {
		return nil, err
	}
	frags, err := fragments.FindFragments(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.articles = make(map[string]*kbase.Article, len(stored))
	c.graph = graph.New()
	c.index.Reset()
	for _, a := range stored {
		c.articles[a.ID] = a
		c.graph.SetArticle(a.ID, a.Related)
	}
	for _, frag := range frags {
		c.index.Merge(frag)
	}

	if c.indexConsistent() {
		return nil, nil
	}
	return c.reindex(), nil
}

// indexConsistent reports whether the index passes Check and holds exactly
// the current content of every article. The caller holds the lock.
func (c *Corpus) indexConsistent() bool {
	if c.index.Check() != nil || c.index.Len() != len(c.articles) {
		return false
	}
	for id, a := range c.articles {
		if hash, ok := c.index.ContentHash(id); !ok || hash != a.ContentHash {
			return false
		}
	}
	return true
}

// Validate runs v over the current corpus, including index consistency.
func (c *Corpus) Validate(v *validate.Validator) []kbase.Violation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return v.Validate(validate.Input{
		Articles: c.sortedArticles(false),
		Graph:    c.graph,
		Index:    c.index,
	})
}
