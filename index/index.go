package index

import (
	"slices"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/kbase"
)

// docEntry tracks what a merged fragment contributed.
type docEntry struct {
	hash     string
	terms    []string // sorted
	postings int
}

// Index is an inverted index mapping terms to sorted posting lists.
// Index is not safe for concurrent use; callers serialize writes.
type Index struct {
	terms map[string][]kbase.Posting
	docs  map[string]docEntry
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		terms: make(map[string][]kbase.Posting),
		docs:  make(map[string]docEntry),
	}
}

// Merge replaces the article's contribution with frag. Merging fragments of
// different articles commutes, and merging the same fragment twice leaves
// the index unchanged.
func (ix *Index) Merge(frag *kbase.Fragment) {
	ix.Remove(frag.ArticleID)

	entry := docEntry{hash: frag.ContentHash}
	for term, postings := range frag.Terms {
		if len(postings) == 0 {
			continue
		}
		entry.terms = append(entry.terms, term)
		entry.postings += len(postings)

		list := ix.terms[term]
		at := sort.Search(len(list), func(i int) bool {
			return list[i].ArticleID >= frag.ArticleID
		})
		ix.terms[term] = slices.Insert(list, at, postings...)
	}
	slices.Sort(entry.terms)

	ix.docs[frag.ArticleID] = entry
}

// Remove drops every posting contributed by the article.
func (ix *Index) Remove(articleID string) {
	entry, ok := ix.docs[articleID]
	if !ok {
		return
	}

	for _, term := range entry.terms {
		list := ix.terms[term]
		start, end := articleRange(list, articleID)
		list = slices.Delete(list, start, end)
		if len(list) == 0 {
			delete(ix.terms, term)
			continue
		}
		ix.terms[term] = list
	}

	delete(ix.docs, articleID)
}

// articleRange returns the [start, end) block of list owned by articleID.
func articleRange(list []kbase.Posting, articleID string) (int, int) {
	start := sort.Search(len(list), func(i int) bool {
		return list[i].ArticleID >= articleID
	})
	end := sort.Search(len(list), func(i int) bool {
		return list[i].ArticleID > articleID
	})
	return start, end
}

// Reset empties the index.
func (ix *Index) Reset() {
	ix.terms = make(map[string][]kbase.Posting)
	ix.docs = make(map[string]docEntry)
}

// ContentHash returns the content hash of the article's merged fragment.
func (ix *Index) ContentHash(articleID string) (string, bool) {
	entry, ok := ix.docs[articleID]
	return entry.hash, ok
}

// Len returns the number of indexed articles.
func (ix *Index) Len() int {
	return len(ix.docs)
}

// Postings returns a copy of the posting list for term.
func (ix *Index) Postings(term string) []kbase.Posting {
	return slices.Clone(ix.terms[term])
}

// Entries returns every term with its postings, sorted by term.
func (ix *Index) Entries() []kbase.TermEntry {
	terms := make([]string, 0, len(ix.terms))
	for term := range ix.terms {
		terms = append(terms, term)
	}
	slices.Sort(terms)

	entries := make([]kbase.TermEntry, 0, len(terms))
	for _, term := range terms {
		entries = append(entries, kbase.TermEntry{
			Term:     term,
			Postings: slices.Clone(ix.terms[term]),
		})
	}
	return entries
}

// Fragment reconstructs the stored fragment for an article.
func (ix *Index) Fragment(articleID string) (*kbase.Fragment, bool) {
	entry, ok := ix.docs[articleID]
	if !ok {
		return nil, false
	}

	frag := &kbase.Fragment{
		ArticleID:   articleID,
		ContentHash: entry.hash,
		Terms:       make(map[string][]kbase.Posting, len(entry.terms)),
	}
	for _, term := range entry.terms {
		list := ix.terms[term]
		start, end := articleRange(list, articleID)
		frag.Terms[term] = slices.Clone(list[start:end])
	}
	return frag, true
}

// Digest returns a hash of the canonical encoding of the index contents.
// Two indexes with equal contents have equal digests regardless of the
// order their fragments were merged in.
func (ix *Index) Digest() string {
	h := xxhash.New()
	var buf []byte

	for _, e := range ix.Entries() {
		buf = append(buf[:0], e.Term...)
		buf = append(buf, 0)
		for _, p := range e.Postings {
			buf = append(buf, p.ArticleID...)
			buf = append(buf, 0x1f)
			buf = strconv.AppendInt(buf, int64(p.Section), 10)
			buf = append(buf, 0x1f)
			buf = append(buf, string(p.Field)...)
			buf = append(buf, 0x1f)
			buf = strconv.AppendInt(buf, int64(p.Offset), 10)
			buf = append(buf, 0x1e)
		}
		_, _ = h.Write(buf)
	}

	ids := make([]string, 0, len(ix.docs))
	for id := range ix.docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		_, _ = h.WriteString(id + "\x00" + ix.docs[id].hash + "\x1e")
	}

	return strconv.FormatUint(h.Sum64(), 16)
}

// Check verifies the merge invariants: posting lists are sorted, every
// posting belongs to a merged fragment, and per-article bookkeeping matches
// the posting lists. Returns ECORRUPT describing the first violation found.
func (ix *Index) Check() error {
	counts := make(map[string]int, len(ix.docs))

	for term, list := range ix.terms {
		if len(list) == 0 {
			return kbase.Errorf(kbase.ECORRUPT, "term %q has an empty posting list", term)
		}
		for i, p := range list {
			if i > 0 && comparePostings(list[i-1], p) > 0 {
				return kbase.Errorf(kbase.ECORRUPT, "postings for term %q out of order at %d", term, i)
			}
			entry, ok := ix.docs[p.ArticleID]
			if !ok {
				return kbase.Errorf(kbase.ECORRUPT, "term %q references unindexed article %s", term, p.ArticleID)
			}
			if _, found := slices.BinarySearch(entry.terms, term); !found {
				return kbase.Errorf(kbase.ECORRUPT, "article %s missing bookkeeping for term %q", p.ArticleID, term)
			}
			counts[p.ArticleID]++
		}
	}

	for id, entry := range ix.docs {
		if counts[id] != entry.postings {
			return kbase.Errorf(kbase.ECORRUPT, "article %s has %d postings, expected %d", id, counts[id], entry.postings)
		}
	}

	return nil
}
