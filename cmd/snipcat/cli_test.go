package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/snipcat/pkg/core"
)

const readme = `# Doctrine Snippets

## Table of Contents

- [DQL](#dql)
  - [Get Single Row or Null](#get-single-row-or-null)

## DQL

### Get Single Row or Null

Returns null instead of throwing [1].

` + "```php\n$q->getOneOrNullResult();\n```\n" + `
[1]: https://www.doctrine-project.org/projects/doctrine-orm/en/latest/reference/dql-doctrine-query-language.html "DQL reference"

## Performance

### Batch Processing

` + "```php\n$em->flush();\n$em->clear();\n```\n"

// run executes the CLI in-process against a fresh flag state.
func run(t *testing.T, args ...string) string {
	t.Helper()
	verbose, dir, configPath, dbPath = false, "", "", ""
	categoriesJSON, listJSON, showJSON, lintJSON, lintLinks, diffJSON = false, false, false, false, false, false
	tocWrite, tocDoc, watchPattern = false, "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func setupCatalog(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte(readme), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".snipcat.yaml"), []byte("cache: false\n"), 0644))
	return root
}

func TestCLI_Categories(t *testing.T) {
	root := setupCatalog(t)
	out := run(t, "categories", "--dir", root)
	assert.Equal(t, "DQL (1)\nPerformance (1)\n", out)
}

func TestCLI_List(t *testing.T) {
	root := setupCatalog(t)

	out := run(t, "list", "--dir", root)
	assert.Equal(t, "DQL\n  Get Single Row or Null  #get-single-row-or-null\nPerformance\n  Batch Processing  #batch-processing\n", out)

	out = run(t, "list", "performance", "--dir", root)
	assert.Equal(t, "Performance\n  Batch Processing  #batch-processing\n", out)
}

func TestCLI_List_DocumentOrder(t *testing.T) {
	root := t.TempDir()
	content := "# Order\n\n## Zeta\n\n### Last Letter\n\n## Alpha\n\n### First Letter\n\n## Empty\n\nNothing here yet.\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte(content), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".snipcat.yaml"), []byte("cache: false\n"), 0644))

	out := run(t, "list", "--json", "--dir", root)
	var categories []core.Category
	require.NoError(t, json.Unmarshal([]byte(out), &categories))

	var names []string
	for _, c := range categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Zeta", "Alpha", "Empty"}, names)
	require.Len(t, categories[0].Entries, 1)
	assert.Equal(t, "Last Letter", categories[0].Entries[0].Title)

	t.Run("Empty Category", func(t *testing.T) {
		out := run(t, "list", "Empty", "--dir", root)
		assert.Equal(t, "Empty\n", out)
	})
}

func TestCLI_Show(t *testing.T) {
	root := setupCatalog(t)

	out := run(t, "show", "DQL", "get-single-row-or-null", "--dir", root)
	assert.True(t, strings.HasPrefix(out, "### Get Single Row or Null\n(DQL, #get-single-row-or-null, README:10)\n"))
	assert.Contains(t, out, "```php\n$q->getOneOrNullResult();\n```")
	assert.Contains(t, out, "[1] DQL reference <https://www.doctrine-project.org/")
}

func TestCLI_TOC(t *testing.T) {
	root := setupCatalog(t)

	out := run(t, "toc", "--dir", root)
	want := "- [DQL](#dql)\n  - [Get Single Row or Null](#get-single-row-or-null)\n- [Performance](#performance)\n  - [Batch Processing](#batch-processing)\n"
	assert.Equal(t, want, out)

	out = run(t, "toc", "--write", "--dir", root)
	assert.Equal(t, "updated README\n", out)

	data, err := os.ReadFile(filepath.Join(root, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), want)

	// Idempotent once in sync.
	out = run(t, "toc", "--write", "--dir", root)
	assert.Empty(t, out)
}

func TestCLI_LintAndDiff(t *testing.T) {
	root := setupCatalog(t)

	// The TOC is incomplete: only a warning.
	out := run(t, "lint", "--dir", root)
	assert.Contains(t, out, "heading-missing-toc")
	assert.True(t, strings.HasSuffix(out, "1 documents, 0 errors, 2 warnings\n"))

	require.NoError(t, os.WriteFile(filepath.Join(root, "README.ja.md"), []byte(readme), 0644))
	out = run(t, "diff", "README", "README.ja", "--dir", root)
	assert.Empty(t, out)
}

func TestCLI_ExportAndReadSnapshot(t *testing.T) {
	root := setupCatalog(t)
	db := filepath.Join(t.TempDir(), "catalog.db")

	out := run(t, "export", "--dir", root, "--db", db)
	assert.Equal(t, "exported 1 documents, 2 entries, 2 snippets, 1 references to "+db+"\n", out)

	out = run(t, "categories", "--dir", t.TempDir(), "--db", db)
	assert.Equal(t, "DQL (1)\nPerformance (1)\n", out)
}

func TestCLI_Version(t *testing.T) {
	out := run(t, "version")
	assert.True(t, strings.HasPrefix(out, "snipcat version "))
}
