package kbase

import "context"

// Renderer loads a page in a browser so that help centers which build their
// articles with JavaScript can still be read.
type Renderer interface {
	// Render navigates to url, waits for the page to load and returns the
	// rendered HTML.
	Render(ctx context.Context, url string) (html string, err error)

	// Close releases browser resources.
	Close() error
}
