package kbase_test

import (
	"testing"

	"github.com/fwojciec/kbase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSections(t *testing.T) {
	t.Parallel()

	t.Run("captures level, heading and body", func(t *testing.T) {
		t.Parallel()

		markdown := "# VPN Setup\n\nIntro.\n\n## Overview\n\nConnect first.\nThen sign in.\n\n### Windows\n\nUse the client."

		sections := kbase.ExtractSections(markdown)

		require.Len(t, sections, 3)
		assert.Equal(t, 1, sections[0].Level)
		assert.Equal(t, "Intro.", sections[0].Body)
		assert.Equal(t, 2, sections[1].Level)
		assert.Equal(t, kbase.SectionOverview, sections[1].Heading)
		assert.Equal(t, "Connect first.\nThen sign in.", sections[1].Body)
		assert.Equal(t, 3, sections[2].Level)
		assert.Equal(t, "Use the client.", sections[2].Body)
	})

	t.Run("canonicalizes heading case", func(t *testing.T) {
		t.Parallel()

		sections := kbase.ExtractSections("## OVERVIEW\n## related articles\n## References\n## common PROBLEMS")

		require.Len(t, sections, 4)
		assert.Equal(t, "OVERVIEW", sections[0].Title)
		assert.Equal(t, kbase.SectionOverview, sections[0].Heading)
		assert.Equal(t, kbase.SectionRelated, sections[1].Heading)
		assert.Equal(t, kbase.SectionSources, sections[2].Heading)
		assert.Equal(t, "Common Problems", sections[3].Heading)
	})

	t.Run("generates URL-safe anchors", func(t *testing.T) {
		t.Parallel()

		sections := kbase.ExtractSections("# Setting Up Xcode (v15.2)")

		require.Len(t, sections, 1)
		assert.Equal(t, "setting-up-xcode-v152", sections[0].Anchor)
	})

	t.Run("handles duplicate headings with numeric suffixes", func(t *testing.T) {
		t.Parallel()

		sections := kbase.ExtractSections("# Steps\n## Steps\n### Steps")

		require.Len(t, sections, 3)
		assert.Equal(t, "steps", sections[0].Anchor)
		assert.Equal(t, "steps-1", sections[1].Anchor)
		assert.Equal(t, "steps-2", sections[2].Anchor)
	})

	t.Run("returns nothing without headings", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, kbase.ExtractSections(""))
		assert.Empty(t, kbase.ExtractSections("Just some text\n\nWith paragraphs."))
	})

	t.Run("ignores headings inside code fences", func(t *testing.T) {
		t.Parallel()

		markdown := "## Steps\n\n```bash\n# not a heading\nsudo reboot\n```\n\n## Tips"

		sections := kbase.ExtractSections(markdown)

		require.Len(t, sections, 2)
		assert.Equal(t, kbase.SectionSteps, sections[0].Heading)
		assert.Contains(t, sections[0].Body, "# not a heading")
		assert.Equal(t, kbase.SectionTips, sections[1].Heading)
	})
}

func TestCanonicalHeading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"overview", kbase.SectionOverview},
		{"  Related   Articles: ", kbase.SectionRelated},
		{"**Sources**", kbase.SectionSources},
		{"TROUBLESHOOTING", kbase.SectionTroubleshooting},
		{"known issues", "Known Issues"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, kbase.CanonicalHeading(tt.in))
		})
	}
}
