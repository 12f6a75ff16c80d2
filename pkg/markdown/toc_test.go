package markdown_test

import (
	"testing"

	"github.com/aretw0/snipcat/pkg/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTOC(t *testing.T) {
	doc := parseFixture(t)

	want := `- [DQL](#dql)
  - [Get Single Row or Null](#get-single-row-or-null)
  - [Count Rows Without Hydration](#count-rows-without-hydration)
- [Performance](#performance)
  - [Batch Processing](#batch-processing)
- [Raw Access](#raw-access)
  - [Native SQL with ResultSetMapping](#native-sql-with-resultsetmapping)
`
	assert.Equal(t, want, markdown.RenderTOC(doc))
}

func TestReplaceTOC(t *testing.T) {
	t.Run("Replaces Existing Block", func(t *testing.T) {
		src := "# T\n\n## Table of Contents\n\n- [Old](#old)\n\n## DQL\n\n### New Entry\n"
		doc, err := markdown.ParseString("x", src, markdown.Options{})
		require.NoError(t, err)

		out, err := markdown.ReplaceTOC(src, markdown.RenderTOC(doc), markdown.Options{})
		require.NoError(t, err)

		want := "# T\n\n## Table of Contents\n\n- [DQL](#dql)\n  - [New Entry](#new-entry)\n\n## DQL\n\n### New Entry\n"
		assert.Equal(t, want, out)
	})

	t.Run("Inserts Before First Section", func(t *testing.T) {
		src := "# T\n\nIntro.\n\n## DQL\n\n### A\n"
		doc, err := markdown.ParseString("x", src, markdown.Options{})
		require.NoError(t, err)

		out, err := markdown.ReplaceTOC(src, markdown.RenderTOC(doc), markdown.Options{})
		require.NoError(t, err)

		reparsed, err := markdown.ParseString("x", out, markdown.Options{})
		require.NoError(t, err)
		assert.True(t, reparsed.HasTOC)
		assert.Len(t, reparsed.TOC, 2)
		assert.Len(t, reparsed.Categories, 1)
	})

	t.Run("Ignores TOC Heading In Code", func(t *testing.T) {
		src := "## DQL\n\n### A\n\n```md\n## Table of Contents\n```\n"
		out, err := markdown.ReplaceTOC(src, "- [DQL](#dql)\n", markdown.Options{})
		require.NoError(t, err)
		assert.Equal(t, "## Table of Contents\n\n- [DQL](#dql)\n\n## DQL\n\n### A\n\n```md\n## Table of Contents\n```\n", out)
	})

	t.Run("Fails Without Sections", func(t *testing.T) {
		_, err := markdown.ReplaceTOC("# Only a title\n", "", markdown.Options{})
		assert.Error(t, err)
	})

	t.Run("Round Trip Is Stable", func(t *testing.T) {
		doc := parseFixture(t)
		out, err := markdown.ReplaceTOC(doc.Content, markdown.RenderTOC(doc), markdown.Options{})
		require.NoError(t, err)
		assert.Equal(t, doc.Content, out)
	})
}
