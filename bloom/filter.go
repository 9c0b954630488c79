// Package bloom remembers visited URLs in a fixed amount of memory.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// URLSet records URLs in a Bloom filter. A false positive makes Visit
// report an unseen URL as already visited; a visited URL is never reported
// as new again.
type URLSet struct {
	f *bloom.BloomFilter
}

// NewURLSet sizes the set for n URLs at the given false positive rate.
func NewURLSet(n uint, fpRate float64) *URLSet {
	return &URLSet{f: bloom.NewWithEstimates(n, fpRate)}
}

// Visit records u and reports whether it had not been visited before.
func (s *URLSet) Visit(u *url.URL) bool {
	return !s.f.TestAndAddString(Key(u))
}

// Visited reports whether u might have been visited.
func (s *URLSet) Visited(u *url.URL) bool {
	return s.f.TestString(Key(u))
}

// Key is the form under which u is recorded: the fragment is dropped and
// the scheme and host are lower-cased, since neither changes the document
// a server returns.
func Key(u *url.URL) string {
	k := *u
	k.Fragment = ""
	k.RawFragment = ""
	k.Scheme = strings.ToLower(k.Scheme)
	k.Host = strings.ToLower(k.Host)
	return k.String()
}
