package core_test

import (
	"errors"
	"testing"

	"github.com/aretw0/snipcat/pkg/core"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(category, title, anchor string) core.Entry {
	return core.Entry{Category: category, Title: title, Anchor: anchor, Document: "README"}
}

func sampleDocs() []core.Document {
	return []core.Document{
		{
			ID: "README",
			Categories: []core.Category{
				{
					Name:   "DQL",
					Anchor: "dql",
					Entries: []core.Entry{
						entry("DQL", "Get Single Row or Null", "get-single-row-or-null"),
						entry("DQL", "Count Rows", "count-rows"),
					},
				},
				{
					Name:        "Performance",
					Anchor:      "performance",
					Description: "Make it fast.",
					Entries: []core.Entry{
						entry("Performance", "Batch Processing", "batch-processing"),
					},
				},
			},
		},
		{
			ID: "extra",
			Categories: []core.Category{
				{
					Name:   "DQL",
					Anchor: "dql",
					Entries: []core.Entry{
						entry("DQL", "Count Rows", "count-rows"),
						entry("DQL", "Partial Objects", "partial-objects"),
					},
				},
				{
					Name:   "Raw Access",
					Anchor: "raw-access",
					Entries: []core.Entry{
						entry("Raw Access", "Native Query", "native-query"),
					},
				},
			},
		},
	}
}

func TestCatalog_ListCategories(t *testing.T) {
	c := core.NewCatalog(sampleDocs()...)

	want := []string{"DQL", "Performance", "Raw Access"}
	if diff := cmp.Diff(want, c.ListCategories()); diff != "" {
		t.Errorf("ListCategories mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalog_ListEntries(t *testing.T) {
	c := core.NewCatalog(sampleDocs()...)

	t.Run("Merged In Document Order", func(t *testing.T) {
		var titles []string
		for _, e := range c.ListEntries("DQL") {
			titles = append(titles, e.Title)
		}
		assert.Equal(t, []string{"Get Single Row or Null", "Count Rows", "Partial Objects"}, titles)
	})

	t.Run("Unknown Category Is Empty", func(t *testing.T) {
		entries := c.ListEntries("Nope")
		require.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("Matches By Anchor", func(t *testing.T) {
		assert.Len(t, c.ListEntries("raw-access"), 1)
	})

	t.Run("Returned Slice Is A Copy", func(t *testing.T) {
		entries := c.ListEntries("Performance")
		entries[0].Title = "mutated"
		assert.Equal(t, "Batch Processing", c.ListEntries("Performance")[0].Title)
	})
}

func TestCatalog_GetEntry(t *testing.T) {
	c := core.NewCatalog(sampleDocs()...)

	t.Run("Exact Title", func(t *testing.T) {
		e, err := c.GetEntry("DQL", "Get Single Row or Null")
		require.NoError(t, err)
		assert.Equal(t, "get-single-row-or-null", e.Anchor)
	})

	t.Run("By Anchor", func(t *testing.T) {
		e, err := c.GetEntry("dql", "#partial-objects")
		require.NoError(t, err)
		assert.Equal(t, "Partial Objects", e.Title)
		assert.Equal(t, "extra", e.Document)
	})

	t.Run("First Duplicate Wins", func(t *testing.T) {
		e, err := c.GetEntry("DQL", "Count Rows")
		require.NoError(t, err)
		assert.Equal(t, "README", e.Document)
		require.Len(t, c.Duplicates(), 1)
		assert.Equal(t, "extra", c.Duplicates()[0].Document)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := c.GetEntry("DQL", "Missing")
		assert.True(t, errors.Is(err, core.ErrNotFound))

		_, err = c.GetEntry("Missing", "Count Rows")
		assert.True(t, errors.Is(err, core.ErrNotFound))
	})
}

func TestCatalog_TOC(t *testing.T) {
	c := core.NewCatalog(sampleDocs()[0])

	want := []core.TOCItem{
		{Title: "DQL", Anchor: "dql", Depth: 0},
		{Title: "Get Single Row or Null", Anchor: "get-single-row-or-null", Depth: 1},
		{Title: "Count Rows", Anchor: "count-rows", Depth: 1},
		{Title: "Performance", Anchor: "performance", Depth: 0},
		{Title: "Batch Processing", Anchor: "batch-processing", Depth: 1},
	}
	if diff := cmp.Diff(want, c.TOC()); diff != "" {
		t.Errorf("TOC mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, c.Len())
}

func TestCatalog_Empty(t *testing.T) {
	c := core.NewCatalog()
	assert.Empty(t, c.ListCategories())
	assert.Empty(t, c.TOC())
	assert.Equal(t, 0, c.Len())
}

func richDoc() core.Document {
	e := entry("DQL", "Get Single Row or Null", "get-single-row-or-null")
	e.Snippets = []core.Snippet{{Language: "php", Code: "$q->getOneOrNullResult();"}}
	e.References = []core.Reference{{Marker: "1", Label: "DQL reference", URL: "https://example.com/dql"}}
	e.Markers = []string{"1"}
	return core.Document{
		ID:         "README",
		Categories: []core.Category{{Name: "DQL", Anchor: "dql", Entries: []core.Entry{e}}},
	}
}

func TestCatalog_EntriesAreImmutable(t *testing.T) {
	c := core.NewCatalog(richDoc())

	got, err := c.GetEntry("DQL", "Get Single Row or Null")
	require.NoError(t, err)
	got.Snippets[0].Code = "MUTATED"
	got.References[0].URL = "https://evil.example"
	got.Markers[0] = "9"

	listed := c.ListEntries("DQL")
	listed[0].Snippets[0].Language = "hacked"

	cats := c.Categories()
	cats[0].Entries[0].References[0].Label = "hacked"

	cat, ok := c.Category("dql")
	require.True(t, ok)
	cat.Entries[0].Snippets[0].Code = "hacked"

	again, err := c.GetEntry("DQL", "Get Single Row or Null")
	require.NoError(t, err)
	if diff := cmp.Diff(richDoc().Categories[0].Entries[0], again); diff != "" {
		t.Errorf("snapshot changed through a returned value (-want +got):\n%s", diff)
	}
}

func TestCatalog_Category(t *testing.T) {
	doc := sampleDocs()[0]
	doc.Categories = append(doc.Categories, core.Category{Name: "Notes", Anchor: "notes", Description: "Prose only."})
	c := core.NewCatalog(doc)

	cat, ok := c.Category("notes")
	require.True(t, ok)
	assert.Equal(t, "Notes", cat.Name)
	assert.Empty(t, cat.Entries)

	_, ok = c.Category("Nope")
	assert.False(t, ok)
}
