package readability_test

import (
	"testing"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kbPage = `<!DOCTYPE html>
<html>
<head><title>Resetting Your Password</title></head>
<body>
<div class="topbar"><a href="/">Helpdesk Home</a><a href="/tickets">Open a Ticket</a></div>
<div class="wrapper">
  <div id="post">
    <h1>Resetting Your Password</h1>
    <p>Article ID: KB-009. Difficulty: Beginner. This guide walks through resetting a forgotten account password using the self-service portal, including what to do when the verification email never arrives.</p>
    <h2>Overview</h2>
    <p>Passwords expire every ninety days. When you are locked out, the self-service portal lets you pick a new password after confirming your identity with a one-time code sent to your recovery address.</p>
    <h2>Steps</h2>
    <ol><li>Open the portal.</li><li>Enter your username.</li><li>Type the code from the email.</li></ol>
    <h2>Related Articles</h2>
    <ul><li><a href="/kb/KB-020">KB-020 Account Lockout</a></li></ul>
  </div>
</div>
<div class="footer-links">Copyright Example Corp</div>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("keeps article body and title", func(t *testing.T) {
		t.Parallel()

		got, err := readability.NewExtractor().Extract(kbPage)

		require.NoError(t, err)
		assert.Equal(t, "Resetting Your Password", got.Title)
		assert.Contains(t, got.ContentHTML, "self-service portal")
		assert.Contains(t, got.ContentHTML, "KB-020 Account Lockout")
		assert.NotContains(t, got.ContentHTML, "Open a Ticket")
	})

	t.Run("preserves lists and links", func(t *testing.T) {
		t.Parallel()

		got, err := readability.NewExtractor().Extract(kbPage)

		require.NoError(t, err)
		assert.Contains(t, got.ContentHTML, "<li>")
		assert.Contains(t, got.ContentHTML, "href=")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := readability.NewExtractor().Extract("  ")

		require.Error(t, err)
		assert.Equal(t, kbase.EINVALID, kbase.ErrorCode(err))
	})

	t.Run("page without text is not found", func(t *testing.T) {
		t.Parallel()

		_, err := readability.NewExtractor().Extract(`<html><head><title>x</title></head><body></body></html>`)

		require.Error(t, err)
	})
}
