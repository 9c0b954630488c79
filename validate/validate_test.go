package validate_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/graph"
	"github.com/fwojciec/kbase/index"
	"github.com/fwojciec/kbase/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validArticle returns an article that passes every rule on its own.
func validArticle(id string, related ...string) *kbase.Article {
	a := &kbase.Article{
		ID:            id,
		Title:         "Article " + id,
		Difficulty:    kbase.DifficultyBeginner,
		LastUpdated:   "2024-03-01",
		EstimatedTime: "5 minutes",
		Sections: []kbase.Section{
			{Level: 2, Title: "Overview", Heading: kbase.SectionOverview, Body: "About " + id + "."},
			{Level: 2, Title: "Related Articles", Heading: kbase.SectionRelated},
			{Level: 2, Title: "Sources", Heading: kbase.SectionSources},
		},
		Sources: []kbase.SourceCitation{{URL: "https://support.example.com/" + id, Title: "Vendor docs"}},
		Origin:  id + ".md",
	}
	for _, r := range related {
		a.Related = append(a.Related, kbase.Reference{TargetID: r, Text: r})
	}
	a.ContentHash = kbase.HashContent(a.ID + a.Title)
	return a
}

func input(articles ...*kbase.Article) validate.Input {
	g, _ := graph.Build(articles)
	return validate.Input{Articles: articles, Graph: g}
}

func rules(vs []kbase.Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.ArticleID + " " + v.Rule + " " + string(v.Severity)
	}
	return out
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	t.Run("clean corpus has no violations", func(t *testing.T) {
		t.Parallel()

		got := (&validate.Validator{}).Validate(input(validArticle("KB-001", "KB-002"), validArticle("KB-002", "KB-001")))

		assert.Empty(t, got)
	})

	t.Run("one dangling reference yields exactly one warning", func(t *testing.T) {
		t.Parallel()

		got := (&validate.Validator{}).Validate(input(validArticle("KB-009", "KB-020")))

		require.Len(t, got, 1)
		assert.Equal(t, kbase.Violation{
			Rule:      kbase.RuleDanglingReference,
			ArticleID: "KB-009",
			Severity:  kbase.SeverityWarning,
			Detail:    "KB-009 -> KB-020: referenced article not found",
		}, got[0])
	})

	t.Run("two dangling references yield two warnings", func(t *testing.T) {
		t.Parallel()

		got := (&validate.Validator{}).Validate(input(validArticle("KB-024", "KB-025", "KB-026")))

		assert.Equal(t, []string{
			"KB-024 dangling-reference warning",
			"KB-024 dangling-reference warning",
		}, rules(got))
		assert.Contains(t, got[0].Detail, "KB-025")
		assert.Contains(t, got[1].Detail, "KB-026")
	})

	t.Run("strict mode makes dangling references errors", func(t *testing.T) {
		t.Parallel()

		got := (&validate.Validator{Strict: true}).Validate(input(validArticle("KB-009", "KB-020")))

		assert.Equal(t, []string{"KB-009 dangling-reference error"}, rules(got))
	})

	t.Run("missing mandatory section is an error", func(t *testing.T) {
		t.Parallel()

		a := validArticle("KB-001")
		a.Sections = a.Sections[:2]

		got := (&validate.Validator{}).Validate(input(a))

		require.Len(t, got, 1)
		assert.Equal(t, kbase.RuleMissingSection, got[0].Rule)
		assert.Equal(t, kbase.SeverityError, got[0].Severity)
		assert.Equal(t, `missing section "Sources"`, got[0].Detail)
	})

	t.Run("custom mandatory sections replace the defaults", func(t *testing.T) {
		t.Parallel()

		a := validArticle("KB-001")
		v := &validate.Validator{MandatorySections: []string{"Overview", "Steps"}}

		got := v.Validate(input(a))

		assert.Equal(t, []string{"KB-001 missing-section error"}, rules(got))
		assert.Contains(t, got[0].Detail, "Steps")
	})

	t.Run("duplicate IDs are reported with their origins", func(t *testing.T) {
		t.Parallel()

		a := validArticle("KB-001")
		b := validArticle("KB-001")
		b.Origin = "copy/KB-001.md"

		got := (&validate.Validator{}).Validate(input(a, b))

		require.Len(t, got, 1)
		assert.Equal(t, kbase.RuleDuplicateID, got[0].Rule)
		assert.Equal(t, "defined 2 times: KB-001.md, copy/KB-001.md", got[0].Detail)
	})

	t.Run("excluded documents are malformed-metadata errors", func(t *testing.T) {
		t.Parallel()

		in := input(validArticle("KB-001"))
		in.Failures = []validate.Failure{{Origin: "bad.md", Err: kbase.Errorf(kbase.EMALFORMED, "bad.md: no Article ID")}}

		got := (&validate.Validator{}).Validate(in)

		require.Len(t, got, 1)
		assert.Equal(t, kbase.RuleMalformedMetadata, got[0].Rule)
		assert.Equal(t, kbase.SeverityError, got[0].Severity)
		assert.Equal(t, "bad.md: no Article ID", got[0].Detail)
	})

	t.Run("self-reference is a warning", func(t *testing.T) {
		t.Parallel()

		got := (&validate.Validator{}).Validate(input(validArticle("KB-001", "KB-001")))

		assert.Equal(t, []string{"KB-001 self-reference warning"}, rules(got))
	})

	t.Run("missing metadata is a warning per field", func(t *testing.T) {
		t.Parallel()

		a := validArticle("KB-001")
		a.Difficulty = kbase.DifficultyUnknown
		a.EstimatedTime = ""

		got := (&validate.Validator{}).Validate(input(a))

		require.Len(t, got, 2)
		assert.Equal(t, "difficulty missing or unrecognised", got[0].Detail)
		assert.Equal(t, "estimated time missing or unrecognised", got[1].Detail)
	})

	t.Run("invalid citation URLs are errors", func(t *testing.T) {
		t.Parallel()

		a := validArticle("KB-001")
		a.Sources = []kbase.SourceCitation{
			{Title: "No URL"},
			{URL: "ftp://files.example.com/x"},
			{URL: "https:///path"},
		}

		got := (&validate.Validator{}).Validate(input(a))

		assert.Equal(t, []string{
			"KB-001 invalid-source-url error",
			"KB-001 invalid-source-url error",
			"KB-001 invalid-source-url error",
		}, rules(got))
	})

	t.Run("violations are sorted by article then rule", func(t *testing.T) {
		t.Parallel()

		b := validArticle("KB-002", "KB-404")
		b.Sections = b.Sections[:1]
		a := validArticle("KB-001", "KB-001")

		got := (&validate.Validator{}).Validate(input(b, a))

		assert.Equal(t, []string{
			"KB-001 self-reference warning",
			"KB-002 dangling-reference warning",
			"KB-002 missing-section error",
			"KB-002 missing-section error",
		}, rules(got))
	})

	t.Run("does not mutate its input", func(t *testing.T) {
		t.Parallel()

		a := validArticle("KB-009", "KB-020")
		before := a.Clone()

		_ = (&validate.Validator{Strict: true}).Validate(input(a))

		assert.Equal(t, before, a)
	})
}

func TestValidator_Validate_Index(t *testing.T) {
	t.Parallel()

	tok := index.NewTokenizer()

	t.Run("consistent index passes", func(t *testing.T) {
		t.Parallel()

		a := validArticle("KB-001")
		in := input(a)
		in.Index = index.New()
		in.Index.Merge(tok.Fragment(a))

		assert.Empty(t, (&validate.Validator{}).Validate(in))
	})

	t.Run("unindexed and stale articles are errors", func(t *testing.T) {
		t.Parallel()

		a := validArticle("KB-001")
		b := validArticle("KB-002")
		in := input(a, b)
		in.Index = index.New()
		stale := tok.Fragment(a)
		stale.ContentHash = "0000000000000000"
		in.Index.Merge(stale)

		got := (&validate.Validator{}).Validate(in)

		require.Len(t, got, 2)
		assert.Equal(t, "KB-001", got[0].ArticleID)
		assert.Contains(t, got[0].Detail, "stale")
		assert.Equal(t, "KB-002", got[1].ArticleID)
		assert.Equal(t, "article is not indexed", got[1].Detail)
	})

	t.Run("corrupt index is reported", func(t *testing.T) {
		t.Parallel()

		a := validArticle("KB-001")
		in := input(a)
		in.Index = index.New()
		frag := tok.Fragment(a)
		frag.Terms["zzz"] = []kbase.Posting{{ArticleID: "KB-999", Field: kbase.FieldBody}}
		in.Index.Merge(frag)

		got := (&validate.Validator{}).Validate(in)

		require.Len(t, got, 1)
		assert.Equal(t, kbase.RuleIndexConsistency, got[0].Rule)
		assert.Empty(t, got[0].ArticleID)
	})
}

func TestValidator_Validate_PlainError(t *testing.T) {
	t.Parallel()

	// Plain errors still produce a readable detail.
	in := validate.Input{Failures: []validate.Failure{{Origin: "x.md", Err: errors.New("boom")}}}

	got := (&validate.Validator{}).Validate(in)

	require.Len(t, got, 1)
	assert.Equal(t, "Internal error.", got[0].Detail)
}
