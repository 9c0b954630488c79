package main

import (
	"context"
	"strings"

	"github.com/fwojciec/kbase"
)

var _ kbase.SourceReader = (*sourceRouter)(nil)

// sourceRouter dispatches a location to Remote when it is an http(s) URL
// and to Local otherwise.
type sourceRouter struct {
	Local  kbase.SourceReader
	Remote kbase.SourceReader
}

func (r *sourceRouter) Read(ctx context.Context, location string) ([]*kbase.Blob, error) {
	if isRemote(location) {
		return r.Remote.Read(ctx, location)
	}
	return r.Local.Read(ctx, location)
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
