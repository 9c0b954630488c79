//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHTML(t *testing.T, body string, delay time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(delay)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	t.Run("returns JavaScript-built article", func(t *testing.T) {
		t.Parallel()

		srv := serveHTML(t, `<!DOCTYPE html>
<html><head><title>KB</title></head>
<body><main id="kb">Loading...</main>
<script>
document.getElementById('kb').innerHTML = '<h1>VPN Setup</h1><p>Article ID: KB-001</p>';
</script>
</body></html>`, 0)

		r, err := rod.NewRenderer()
		require.NoError(t, err)
		defer r.Close()

		html, err := r.Render(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Contains(t, html, "Article ID: KB-001")
		assert.NotContains(t, html, "Loading...")
	})

	t.Run("times out on slow page", func(t *testing.T) {
		t.Parallel()

		srv := serveHTML(t, `<html><body>late</body></html>`, 500*time.Millisecond)

		r, err := rod.NewRenderer(rod.WithRenderTimeout(100 * time.Millisecond))
		require.NoError(t, err)
		defer r.Close()

		_, err = r.Render(context.Background(), srv.URL)

		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("relaunches browser after page budget", func(t *testing.T) {
		t.Parallel()

		srv := serveHTML(t, `<html><body><main>KB-002</main></body></html>`, 0)

		r, err := rod.NewRenderer(rod.WithMaxPages(1))
		require.NoError(t, err)
		defer r.Close()

		for range 3 {
			html, err := r.Render(context.Background(), srv.URL)
			require.NoError(t, err)
			assert.Contains(t, html, "KB-002")
		}
	})

	t.Run("fails after close", func(t *testing.T) {
		t.Parallel()

		r, err := rod.NewRenderer()
		require.NoError(t, err)
		require.NoError(t, r.Close())
		require.NoError(t, r.Close())

		_, err = r.Render(context.Background(), "http://example.com")

		assert.Equal(t, kbase.EINVALID, kbase.ErrorCode(err))
	})
}
