package kbase_test

import (
	"testing"

	"github.com/fwojciec/kbase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "KB-020", kbase.NormalizeID("  kb-020 "))
	assert.True(t, kbase.IsValidID("kb-020"))
	assert.True(t, kbase.IsValidID("KB-1234"))
	assert.False(t, kbase.IsValidID("KB-20"))
	assert.False(t, kbase.IsValidID("KB020"))
	assert.False(t, kbase.IsValidID(""))
}

func TestParseDifficulty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, kbase.DifficultyBeginner, kbase.ParseDifficulty(" beginner "))
	assert.Equal(t, kbase.DifficultyIntermediate, kbase.ParseDifficulty("INTERMEDIATE"))
	assert.Equal(t, kbase.DifficultyAdvanced, kbase.ParseDifficulty("Advanced"))
	assert.Equal(t, kbase.DifficultyUnknown, kbase.ParseDifficulty("expert"))
}

func TestArticle_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (&kbase.Article{ID: "KB-001"}).Validate())

	err := (&kbase.Article{}).Validate()
	assert.Equal(t, kbase.EINVALID, kbase.ErrorCode(err))

	err = (&kbase.Article{ID: "article-1"}).Validate()
	assert.Equal(t, kbase.EINVALID, kbase.ErrorCode(err))
}

func TestArticle_Section(t *testing.T) {
	t.Parallel()

	a := &kbase.Article{Sections: []kbase.Section{
		{Level: 2, Title: "OVERVIEW", Heading: kbase.SectionOverview, Body: "Intro."},
	}}

	s, ok := a.Section("overview")
	require.True(t, ok)
	assert.Equal(t, "Intro.", s.Body)

	_, ok = a.Section(kbase.SectionSources)
	assert.False(t, ok)
}

func TestArticle_Clone(t *testing.T) {
	t.Parallel()

	a := &kbase.Article{
		ID:       "KB-009",
		Metadata: map[string]string{"platform": "macOS"},
		Sections: []kbase.Section{{Heading: kbase.SectionOverview}},
		Related:  []kbase.Reference{{TargetID: "KB-020"}},
		Sources:  []kbase.SourceCitation{{URL: "https://swift.org"}},
	}

	c := a.Clone()
	c.Metadata["platform"] = "iOS"
	c.Sections[0].Heading = "Changed"
	c.Related[0].TargetID = "KB-999"
	c.Sources[0].URL = "https://example.com"

	assert.Equal(t, "macOS", a.Metadata["platform"])
	assert.Equal(t, kbase.SectionOverview, a.Sections[0].Heading)
	assert.Equal(t, []string{"KB-020"}, a.RelatedIDs())
	assert.Equal(t, "https://swift.org", a.Sources[0].URL)
}

func TestHashContent(t *testing.T) {
	t.Parallel()

	h := kbase.HashContent("Article ID: KB-001")

	assert.Len(t, h, 16)
	assert.Equal(t, h, kbase.HashContent("Article ID: KB-001"))
	assert.NotEqual(t, h, kbase.HashContent("Article ID: KB-002"))
	assert.Len(t, kbase.HashContent(""), 16)
}

func TestReport_Counts(t *testing.T) {
	t.Parallel()

	r := &kbase.Report{Violations: []kbase.Violation{
		{Rule: kbase.RuleDanglingReference, Severity: kbase.SeverityWarning},
		{Rule: kbase.RuleDanglingReference, Severity: kbase.SeverityWarning},
		{Rule: kbase.RuleMissingSection, Severity: kbase.SeverityError},
	}}

	assert.True(t, r.HasErrors())
	assert.Equal(t, 2, r.Count(kbase.SeverityWarning))
	assert.Equal(t, 1, r.Count(kbase.SeverityError))
	assert.Len(t, r.ByRule(kbase.RuleDanglingReference), 2)
	assert.Empty(t, r.ByRule(kbase.RuleDuplicateID))
	assert.False(t, (&kbase.Report{}).HasErrors())
}
