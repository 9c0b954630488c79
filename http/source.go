// Package http reads knowledge-base articles from remote URLs.
package http

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/bloom"
	"golang.org/x/sync/errgroup"
)

// Defaults for Source.
const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultConcurrency  = 4
	DefaultRateLimit    = 2.0
)

// maxBodySize caps a single response body.
const maxBodySize = 10 << 20

// Ensure Source implements kbase.SourceReader at compile time.
var _ kbase.SourceReader = (*Source)(nil)

// Source fetches articles over HTTP. A location ending in ".txt" is a
// manifest listing one article URL per line; one ending in ".xml" is a
// sitemap (or sitemap index) of article URLs; any other location is a single
// article. Markdown responses are used as is; HTML responses are converted
// through the configured Extractor and Converter.
type Source struct {
	client      *http.Client
	timeout     time.Duration
	concurrency int
	limiter     *HostLimiter
	retryDelays []time.Duration
	logger      *slog.Logger

	extractor kbase.Extractor
	converter kbase.ArticleConverter
	renderer  kbase.Renderer
}

// Option configures a Source.
type Option func(*Source)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		s.timeout = d
	}
}

// WithConcurrency sets the number of URLs fetched in parallel.
func WithConcurrency(n int) Option {
	return func(s *Source) {
		s.concurrency = n
	}
}

// WithRateLimit sets the per-host request rate. Zero disables limiting.
func WithRateLimit(rps float64) Option {
	return func(s *Source) {
		s.limiter = NewHostLimiter(rps)
	}
}

// WithRetryDelays sets the backoff between attempts. The number of delays
// is the number of retries.
func WithRetryDelays(delays ...time.Duration) Option {
	return func(s *Source) {
		s.retryDelays = delays
	}
}

// WithLogger sets the logger used for retry messages.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// WithHTML enables HTML responses.
func WithHTML(extractor kbase.Extractor, converter kbase.ArticleConverter) Option {
	return func(s *Source) {
		s.extractor = extractor
		s.converter = converter
	}
}

// WithRenderer loads pages that are not Markdown through a browser instead
// of a plain GET. It requires WithHTML.
func WithRenderer(r kbase.Renderer) Option {
	return func(s *Source) {
		s.renderer = r
	}
}

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// NewSource creates a new Source.
func NewSource(opts ...Option) *Source {
	s := &Source{
		timeout:     DefaultFetchTimeout,
		concurrency: DefaultConcurrency,
		limiter:     NewHostLimiter(DefaultRateLimit),
		retryDelays: DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.concurrency <= 0 {
		s.concurrency = DefaultConcurrency
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	s.client = &http.Client{
		Timeout: s.timeout,
	}

	return s
}

// Read fetches the article or manifest at location.
func (s *Source) Read(ctx context.Context, location string) ([]*kbase.Blob, error) {
	u, err := url.Parse(location)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, kbase.Errorf(kbase.EINVALID, "invalid source URL %q", location)
	}

	switch strings.ToLower(path.Ext(u.Path)) {
	case ".xml":
		urls, err := s.sitemapURLs(ctx, u)
		if err != nil {
			return nil, err
		}
		return s.ReadURLs(ctx, urls)
	case ".txt":
		body, _, err := s.fetch(ctx, u)
		if err != nil {
			return nil, err
		}
		urls, err := parseManifest(u, body)
		if err != nil {
			return nil, err
		}
		return s.ReadURLs(ctx, urls)
	}

	return s.ReadURLs(ctx, []string{location})
}

// ReadURLs fetches each URL concurrently and returns blobs in input order.
// The first failure cancels the remaining fetches.
func (s *Source) ReadURLs(ctx context.Context, urls []string) ([]*kbase.Blob, error) {
	blobs := make([]*kbase.Blob, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, raw := range urls {
		g.Go(func() error {
			u, err := url.Parse(raw)
			if err != nil {
				return kbase.Errorf(kbase.EINVALID, "invalid source URL %q", raw)
			}
			blob, err := s.readOne(gctx, u)
			if err != nil {
				return err
			}
			blobs[i] = blob
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blobs, nil
}

func (s *Source) readOne(ctx context.Context, u *url.URL) (*kbase.Blob, error) {
	var body, contentType string
	var err error
	if s.renderer != nil && !isMarkdown(u) {
		body, err = s.render(ctx, u)
		contentType = "text/html"
	} else {
		body, contentType, err = s.fetch(ctx, u)
	}
	if err != nil {
		return nil, err
	}

	if !isHTML(u, contentType) {
		return &kbase.Blob{Origin: u.String(), Content: body}, nil
	}
	if s.extractor == nil || s.converter == nil {
		return nil, kbase.Errorf(kbase.EINVALID, "%s: HTML sources are not enabled", u)
	}

	res, err := s.extractor.Extract(body)
	if err != nil {
		return nil, kbase.Errorf(kbase.EMALFORMED, "%s: %s", u, kbase.ErrorMessage(err))
	}
	md, err := s.converter.ConvertArticle(res)
	if err != nil {
		return nil, kbase.Errorf(kbase.EMALFORMED, "%s: %s", u, kbase.ErrorMessage(err))
	}
	return &kbase.Blob{Origin: u.String(), Content: md}, nil
}

func isMarkdown(u *url.URL) bool {
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".md", ".markdown", ".txt":
		return true
	}
	return false
}

func isHTML(u *url.URL, contentType string) bool {
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".md", ".markdown", ".txt":
		return false
	case ".html", ".htm":
		return true
	}
	return strings.HasPrefix(strings.ToLower(contentType), "text/html")
}

// fetch retrieves u with per-host rate limiting and retries. Client errors
// other than 429 are not retried.
func (s *Source) fetch(ctx context.Context, u *url.URL) (string, string, error) {
	maxAttempts := len(s.retryDelays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := s.limiter.Wait(ctx, u.Host); err != nil {
			return "", "", err
		}

		body, contentType, err := s.get(ctx, u)
		if err == nil {
			return body, contentType, nil
		}
		lastErr = err

		if !retryable(err) || attempt >= maxAttempts-1 {
			break
		}

		s.logger.Warn("retrying fetch", "url", u.String(), "attempt", attempt+2, "err", err)

		select {
		case <-ctx.Done():
			return "", "", ctx.Err()
		case <-time.After(s.retryDelays[attempt]):
		}
	}

	return "", "", lastErr
}

// render loads u in the browser, sharing the per-host rate limit with fetch.
func (s *Source) render(ctx context.Context, u *url.URL) (string, error) {
	if err := s.limiter.Wait(ctx, u.Host); err != nil {
		return "", err
	}
	html, err := s.renderer.Render(ctx, u.String())
	if err != nil {
		return "", fmt.Errorf("render %s: %w", u, err)
	}
	return html, nil
}

// statusError is a non-200 response.
type statusError struct {
	url  string
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.code, e.url)
}

// retryable reports whether err may be transient. Application errors such
// as ENOTFOUND are final.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	var ke *kbase.Error
	return !errors.As(err, &ke)
}

func (s *Source) get(ctx context.Context, u *url.URL) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", "", kbase.Errorf(kbase.ENOTFOUND, "source %s not found", u)
	case resp.StatusCode != http.StatusOK:
		return "", "", &statusError{url: u.String(), code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", "", err
	}

	return string(body), resp.Header.Get("Content-Type"), nil
}

// parseManifest resolves each non-blank, non-comment line against base.
func parseManifest(base *url.URL, body string) ([]string, error) {
	var urls []string
	seen := bloom.NewURLSet(expectedURLs, urlFPRate)
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ref, err := url.Parse(line)
		if err != nil {
			return nil, kbase.Errorf(kbase.EINVALID, "manifest %s: invalid URL %q", base, line)
		}
		if abs := base.ResolveReference(ref); seen.Visit(abs) {
			urls = append(urls, bloom.Key(abs))
		}
	}
	return urls, sc.Err()
}
