package corpus

import "github.com/fwojciec/kbase"

// MergeFragment merges frag straight into the corpus index, bypassing the
// tokenizer, so tests can plant an inconsistent index.
func MergeFragment(c *Corpus, frag *kbase.Fragment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index.Merge(frag)
}
