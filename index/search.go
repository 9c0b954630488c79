package index

import (
	"cmp"
	"slices"
	"strings"

	"github.com/fwojciec/kbase"
)

// Field weights applied to each matching occurrence.
var fieldWeights = map[kbase.Field]float64{
	kbase.FieldTitle:   10,
	kbase.FieldHeading: 3,
	kbase.FieldBody:    1,
}

// Query is a parsed search query.
type Query struct {
	Tokens []Token
	Phrase bool // Terms must appear adjacent, in order, in one field
}

// ParseQuery tokenizes q exactly like indexed text. A query wrapped in
// double quotes is a phrase query.
func (t *Tokenizer) ParseQuery(q string) Query {
	q = strings.TrimSpace(q)
	phrase := len(q) > 1 && strings.HasPrefix(q, `"`) && strings.HasSuffix(q, `"`)
	if phrase {
		q = q[1 : len(q)-1]
	}
	return Query{Tokens: t.Tokenize(q), Phrase: phrase}
}

// Hit is a ranked search match.
type Hit struct {
	ArticleID string
	Tier      int     // Rank of the best matching field
	Score     float64 // Weighted occurrence count
	Best      kbase.Posting
}

// Search returns the articles matching every query term, ranked by best
// matching field first (title above heading above body), then by weighted
// term frequency, then by ID.
func (ix *Index) Search(q Query) []Hit {
	if len(q.Tokens) == 0 {
		return nil
	}

	var hits map[string]*Hit
	if q.Phrase && len(q.Tokens) > 1 {
		hits = ix.matchPhrase(q.Tokens)
	} else {
		hits = ix.matchAll(q.Tokens)
	}

	out := make([]Hit, 0, len(hits))
	for _, h := range hits {
		out = append(out, *h)
	}
	slices.SortFunc(out, func(a, b Hit) int {
		if c := cmp.Compare(b.Tier, a.Tier); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ArticleID, b.ArticleID)
	})
	return out
}

// matchAll scores articles containing every distinct query term.
func (ix *Index) matchAll(tokens []Token) map[string]*Hit {
	var terms []string
	for _, tok := range tokens {
		if !slices.Contains(terms, tok.Term) {
			terms = append(terms, tok.Term)
		}
	}

	hits := make(map[string]*Hit)
	matched := make(map[string]int)
	for _, term := range terms {
		seen := make(map[string]bool)
		for _, p := range ix.terms[term] {
			h, ok := hits[p.ArticleID]
			if !ok {
				h = &Hit{ArticleID: p.ArticleID}
				hits[p.ArticleID] = h
			}
			h.observe(p)
			if !seen[p.ArticleID] {
				seen[p.ArticleID] = true
				matched[p.ArticleID]++
			}
		}
	}

	for id := range hits {
		if matched[id] < len(terms) {
			delete(hits, id)
		}
	}
	return hits
}

type positionKey struct {
	articleID string
	section   int
	field     kbase.Field
	offset    int
}

// matchPhrase scores articles where the query terms occur at the same
// relative offsets as in the query, within one section field.
func (ix *Index) matchPhrase(tokens []Token) map[string]*Hit {
	rest := make([]map[positionKey]bool, len(tokens))
	for i := 1; i < len(tokens); i++ {
		rest[i] = make(map[positionKey]bool)
		for _, p := range ix.terms[tokens[i].Term] {
			rest[i][positionKey{p.ArticleID, p.Section, p.Field, p.Offset}] = true
		}
	}

	hits := make(map[string]*Hit)
	for _, p := range ix.terms[tokens[0].Term] {
		found := true
		for i := 1; i < len(tokens); i++ {
			want := positionKey{p.ArticleID, p.Section, p.Field, p.Offset + tokens[i].Offset - tokens[0].Offset}
			if !rest[i][want] {
				found = false
				break
			}
		}
		if !found {
			continue
		}
		h, ok := hits[p.ArticleID]
		if !ok {
			h = &Hit{ArticleID: p.ArticleID}
			hits[p.ArticleID] = h
		}
		h.observe(p)
	}
	return hits
}

// observe accounts one matching occurrence.
func (h *Hit) observe(p kbase.Posting) {
	h.Score += fieldWeights[p.Field]
	rank := p.Field.Rank()
	if rank > h.Tier {
		h.Tier = rank
		h.Best = p
	}
}
