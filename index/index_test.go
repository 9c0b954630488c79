package index_test

import (
	"testing"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func article(id, title string, sections ...kbase.Section) *kbase.Article {
	return &kbase.Article{
		ID:          id,
		Title:       title,
		Sections:    sections,
		ContentHash: kbase.HashContent(id + title),
	}
}

func section(title, body string) kbase.Section {
	return kbase.Section{Level: 2, Title: title, Heading: kbase.CanonicalHeading(title), Body: body}
}

func TestTokenizer_Tokenize(t *testing.T) {
	t.Parallel()

	t.Run("lowercases, strips punctuation and drops stopwords", func(t *testing.T) {
		t.Parallel()

		got := index.NewTokenizer().Tokenize("How to reset the VPN-client, v2!")

		assert.Equal(t, []index.Token{
			{Term: "reset", Offset: 2},
			{Term: "vpn", Offset: 4},
			{Term: "client", Offset: 5},
			{Term: "v2", Offset: 6},
		}, got)
	})

	t.Run("extra stopwords are dropped", func(t *testing.T) {
		t.Parallel()

		tok := index.NewTokenizer(" Xcode ", "")

		assert.True(t, tok.IsStopword("XCODE"))
		assert.Equal(t, []index.Token{{Term: "install", Offset: 0}}, tok.Tokenize("install Xcode"))
	})

	t.Run("keeps non-ASCII letters", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"Café", "Wi", "Fi"}, index.Words("Café: Wi-Fi"))
	})
}

func TestTokenizer_Fragment(t *testing.T) {
	t.Parallel()

	a := article("KB-001", "VPN Setup", section("Overview", "Connect the VPN first."))

	frag := index.NewTokenizer().Fragment(a)

	assert.Equal(t, "KB-001", frag.ArticleID)
	assert.Equal(t, a.ContentHash, frag.ContentHash)
	assert.Equal(t, []kbase.Posting{
		{ArticleID: "KB-001", Section: 0, Field: kbase.FieldTitle, Offset: 0},
		{ArticleID: "KB-001", Section: 1, Field: kbase.FieldBody, Offset: 2},
	}, frag.Terms["vpn"])
	assert.Equal(t, []kbase.Posting{
		{ArticleID: "KB-001", Section: 1, Field: kbase.FieldHeading, Offset: 0},
	}, frag.Terms["overview"])
	assert.NotContains(t, frag.Terms, "the")
}

func TestIndex_Merge(t *testing.T) {
	t.Parallel()

	tok := index.NewTokenizer()
	a := tok.Fragment(article("KB-001", "VPN Setup", section("Overview", "Connect to the VPN.")))
	b := tok.Fragment(article("KB-002", "Printer Setup", section("Steps", "Join the VPN, then add the printer.")))

	t.Run("merge order does not change the digest", func(t *testing.T) {
		t.Parallel()

		x := index.New()
		x.Merge(a)
		x.Merge(b)
		y := index.New()
		y.Merge(b)
		y.Merge(a)

		assert.Equal(t, x.Digest(), y.Digest())
		assert.Equal(t, x.Entries(), y.Entries())
		require.NoError(t, x.Check())
	})

	t.Run("merging the same fragment again is idempotent", func(t *testing.T) {
		t.Parallel()

		ix := index.New()
		ix.Merge(a)
		ix.Merge(b)
		before := ix.Digest()

		ix.Merge(a)

		assert.Equal(t, before, ix.Digest())
		assert.Equal(t, 2, ix.Len())
		require.NoError(t, ix.Check())
	})

	t.Run("postings stay sorted by article", func(t *testing.T) {
		t.Parallel()

		ix := index.New()
		ix.Merge(b)
		ix.Merge(a)

		got := ix.Postings("vpn")
		require.Len(t, got, 3)
		assert.Equal(t, "KB-001", got[0].ArticleID)
		assert.Equal(t, "KB-002", got[2].ArticleID)
	})

	t.Run("replacing a fragment drops stale terms", func(t *testing.T) {
		t.Parallel()

		ix := index.New()
		ix.Merge(a)
		updated := tok.Fragment(article("KB-001", "Wi-Fi Setup", section("Overview", "Join the network.")))

		ix.Merge(updated)

		assert.Empty(t, ix.Postings("vpn"))
		assert.NotEmpty(t, ix.Postings("wi"))
		hash, ok := ix.ContentHash("KB-001")
		require.True(t, ok)
		assert.Equal(t, updated.ContentHash, hash)
		require.NoError(t, ix.Check())
	})

	t.Run("remove restores the previous digest", func(t *testing.T) {
		t.Parallel()

		only := index.New()
		only.Merge(a)

		ix := index.New()
		ix.Merge(a)
		ix.Merge(b)
		ix.Remove("KB-002")
		ix.Remove("KB-404")

		assert.Equal(t, only.Digest(), ix.Digest())
		_, ok := ix.ContentHash("KB-002")
		assert.False(t, ok)
	})

	t.Run("fragment round-trips through the index", func(t *testing.T) {
		t.Parallel()

		ix := index.New()
		ix.Merge(a)
		ix.Merge(b)

		got, ok := ix.Fragment("KB-002")

		require.True(t, ok)
		assert.Equal(t, b, got)
		_, ok = ix.Fragment("KB-404")
		assert.False(t, ok)
	})

	t.Run("reset empties the index", func(t *testing.T) {
		t.Parallel()

		ix := index.New()
		ix.Merge(a)
		ix.Reset()

		assert.Equal(t, 0, ix.Len())
		assert.Empty(t, ix.Entries())
		assert.Equal(t, index.New().Digest(), ix.Digest())
	})
}

func TestIndex_Check(t *testing.T) {
	t.Parallel()

	t.Run("detects out-of-order postings", func(t *testing.T) {
		t.Parallel()

		ix := index.New()
		ix.Merge(&kbase.Fragment{
			ArticleID: "KB-001",
			Terms: map[string][]kbase.Posting{
				"vpn": {
					{ArticleID: "KB-001", Section: 2, Field: kbase.FieldBody, Offset: 0},
					{ArticleID: "KB-001", Section: 1, Field: kbase.FieldBody, Offset: 0},
				},
			},
		})

		err := ix.Check()

		require.Error(t, err)
		assert.Equal(t, kbase.ECORRUPT, kbase.ErrorCode(err))
	})

	t.Run("detects postings for unindexed articles", func(t *testing.T) {
		t.Parallel()

		ix := index.New()
		ix.Merge(&kbase.Fragment{
			ArticleID: "KB-001",
			Terms: map[string][]kbase.Posting{
				"vpn": {{ArticleID: "KB-999", Field: kbase.FieldBody}},
			},
		})

		assert.Equal(t, kbase.ECORRUPT, kbase.ErrorCode(ix.Check()))
	})

	t.Run("empty index is consistent", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, index.New().Check())
	})
}
