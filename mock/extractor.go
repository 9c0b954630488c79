package mock

import "github.com/fwojciec/kbase"

var _ kbase.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of kbase.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*kbase.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*kbase.ExtractResult, error) {
	return e.ExtractFn(html)
}
