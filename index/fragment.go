package index

import (
	"cmp"
	"slices"

	"github.com/fwojciec/kbase"
)

// Fragment builds the article's contribution to the index. The title is
// indexed as section 0; Article.Sections[i] is section i+1, with its
// heading and body indexed as separate fields. Fragment is pure and safe to
// call concurrently for different articles.
func (t *Tokenizer) Fragment(a *kbase.Article) *kbase.Fragment {
	frag := &kbase.Fragment{
		ArticleID:   a.ID,
		ContentHash: a.ContentHash,
		Terms:       make(map[string][]kbase.Posting),
	}

	add := func(text string, section int, field kbase.Field) {
		for _, tok := range t.Tokenize(text) {
			frag.Terms[tok.Term] = append(frag.Terms[tok.Term], kbase.Posting{
				ArticleID: a.ID,
				Section:   section,
				Field:     field,
				Offset:    tok.Offset,
			})
		}
	}

	add(a.Title, 0, kbase.FieldTitle)
	for i, s := range a.Sections {
		add(s.Title, i+1, kbase.FieldHeading)
		add(s.Body, i+1, kbase.FieldBody)
	}

	for term := range frag.Terms {
		slices.SortFunc(frag.Terms[term], comparePostings)
	}

	return frag
}

// comparePostings orders postings by article, section, field rank
// (title first) and offset.
func comparePostings(a, b kbase.Posting) int {
	if c := cmp.Compare(a.ArticleID, b.ArticleID); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Section, b.Section); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Field.Rank(), a.Field.Rank()); c != 0 {
		return c
	}
	return cmp.Compare(a.Offset, b.Offset)
}
