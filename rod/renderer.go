// Package rod renders JavaScript-built knowledge-base pages with a headless
// Chrome driven by go-rod.
package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/kbase"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Renderer implements kbase.Renderer at compile time.
var _ kbase.Renderer = (*Renderer)(nil)

// Defaults for Renderer.
const (
	DefaultMaxPages      = 75
	DefaultRenderTimeout = 30 * time.Second
)

// Renderer renders pages in a headless browser. The browser is relaunched
// after MaxPages renders because Chrome's baseline memory only grows.
// Renderer is safe for concurrent use.
type Renderer struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int
	closed   bool

	maxPages int
	timeout  time.Duration
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMaxPages sets how many pages are rendered before the browser is
// relaunched.
func WithMaxPages(n int) Option {
	return func(r *Renderer) {
		r.maxPages = n
	}
}

// WithRenderTimeout bounds a single Render call.
func WithRenderTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// NewRenderer launches a headless browser. Close must be called when the
// Renderer is no longer needed. Fails if Chrome cannot be found or started.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		maxPages: DefaultMaxPages,
		timeout:  DefaultRenderTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	browser, l, err := launch()
	if err != nil {
		return nil, err
	}
	r.browser, r.launcher = browser, l
	return r, nil
}

// Render navigates to url and returns the rendered HTML.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	browser, err := r.acquire()
	if err != nil {
		return "", err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	return page.HTML()
}

// Close shuts the browser down. Close is safe to call more than once.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.shutdown()
}

// acquire returns the browser to render the next page with, relaunching it
// once the page budget is spent. A failed relaunch keeps the old browser.
func (r *Renderer) acquire() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, kbase.Errorf(kbase.EINVALID, "renderer is closed")
	}

	if r.maxPages > 0 && r.pages >= r.maxPages {
		if browser, l, err := launch(); err == nil {
			_ = r.shutdown()
			r.browser, r.launcher = browser, l
			r.pages = 0
		}
	}
	r.pages++
	return r.browser, nil
}

// shutdown closes the browser and kills the launcher. The caller holds mu.
func (r *Renderer) shutdown() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

func launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, l, nil
}
