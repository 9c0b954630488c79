package htmltomarkdown_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts headings to ATX style", func(t *testing.T) {
		t.Parallel()

		html := `<h1>Title</h1><h2>Overview</h2><h3>Details</h3>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "# Title")
		assert.Contains(t, md, "## Overview")
		assert.Contains(t, md, "### Details")
	})

	t.Run("keeps front matter fields parseable", func(t *testing.T) {
		t.Parallel()

		html := `<p><strong>Article ID:</strong> KB-001</p><p><strong>Difficulty:</strong> Beginner</p>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "**Article ID:** KB-001")
		assert.Contains(t, md, "**Difficulty:** Beginner")
	})

	t.Run("converts related articles list with dash bullets", func(t *testing.T) {
		t.Parallel()

		html := `<h2>Related Articles</h2><ul><li>KB-002 Printer Setup</li><li>KB-003 Email</li></ul>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "- KB-002 Printer Setup")
		assert.Contains(t, md, "- KB-003 Email")
	})

	t.Run("converts source links", func(t *testing.T) {
		t.Parallel()

		html := `<ul><li><a href="https://example.com/vpn">Vendor VPN guide</a></li></ul>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "[Vendor VPN guide](https://example.com/vpn)")
	})

	t.Run("converts code blocks with language hint", func(t *testing.T) {
		t.Parallel()

		html := `<pre><code class="language-bash">sudo systemctl restart vpn</code></pre>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "```bash")
		assert.Contains(t, md, "sudo systemctl restart vpn")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>Setting</th><th>Value</th></tr></thead>
<tbody><tr><td>Port</td><td>443</td></tr></tbody>
</table>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Setting")
		assert.Contains(t, md, "443")
		assert.Contains(t, md, "|")
	})

	t.Run("collapses blank runs and ends with newline", func(t *testing.T) {
		t.Parallel()

		html := `<p>One</p><br><br><br><p>Two</p>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.NotContains(t, md, "\n\n\n")
		assert.True(t, strings.HasSuffix(md, "\n"))
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("")

		require.Error(t, err)
		assert.Equal(t, kbase.EINVALID, kbase.ErrorCode(err))
	})
}

func TestConverter_ConvertArticle(t *testing.T) {
	t.Parallel()

	t.Run("prepends missing title", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().ConvertArticle(&kbase.ExtractResult{
			Title:       "Setting Up VPN",
			ContentHTML: `<p><strong>Article ID:</strong> KB-001</p>`,
		})

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(md, "# Setting Up VPN\n\n"))
	})

	t.Run("keeps existing title", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().ConvertArticle(&kbase.ExtractResult{
			Title:       "Page title",
			ContentHTML: `<h1>Setting Up VPN</h1><p>Body</p>`,
		})

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(md, "# Setting Up VPN"))
		assert.NotContains(t, md, "Page title")
	})
}
