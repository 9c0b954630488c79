package kbase

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// HashContent computes the xxHash of content and returns it as a
// zero-padded 16 character hex string.
func HashContent(content string) string {
	s := strconv.FormatUint(xxhash.Sum64String(content), 16)
	for len(s) < 16 {
		s = "0" + s
	}
	return s
}
