package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/snipcat/pkg/adapters/fs"
	"github.com/aretw0/snipcat/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dqlDoc = `# Snippets

## Table of Contents

- [DQL](#dql)
  - [Get Single Row or Null](#get-single-row-or-null)

## DQL

### Get Single Row or Null

` + "```php\n$q->getOneOrNullResult();\n```\n"

const perfDoc = `# Performance

## Performance

### Batch Processing

Flush in batches.
`

// setupRepo creates a catalog root with a couple of documents.
func setupRepo(t *testing.T, opts ...func(*fs.Config)) (*fs.Repository, string) {
	t.Helper()

	root := t.TempDir()
	writeFile(t, root, "README.md", dqlDoc)
	writeFile(t, root, "docs/performance.md", perfDoc)
	writeFile(t, root, "docs/notes.txt", "not a catalog file")
	writeFile(t, root, ".git/HEAD.md", "# ignored")

	cfg := fs.Config{Path: root}
	for _, opt := range opts {
		opt(&cfg)
	}

	repo := fs.NewRepository(cfg)
	require.NoError(t, repo.Initialize(context.Background()))
	return repo, root
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog")
		repo := fs.NewRepository(fs.Config{Path: path})

		require.NoError(t, repo.Initialize(context.Background()))
		_, err := os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		repo := fs.NewRepository(fs.Config{Path: filepath.Join(t.TempDir(), "nope"), MustExist: true})
		assert.Error(t, repo.Initialize(context.Background()))
	})

	t.Run("Read Only Never Creates", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nope")
		repo := fs.NewRepository(fs.Config{Path: path, ReadOnly: true})
		assert.Error(t, repo.Initialize(context.Background()))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Rejects Invalid Pattern", func(t *testing.T) {
		repo := fs.NewRepository(fs.Config{Path: t.TempDir(), Include: []string{"[unclosed"}})
		assert.Error(t, repo.Initialize(context.Background()))
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("Finds Markdown In Lexical Order", func(t *testing.T) {
		repo, _ := setupRepo(t)

		docs, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "README", docs[0].ID)
		assert.Equal(t, "README.md", docs[0].Path)
		assert.Equal(t, "docs/performance", docs[1].ID)
		assert.Equal(t, "Batch Processing", docs[1].Categories[0].Entries[0].Title)
	})

	t.Run("Honours Include And Exclude", func(t *testing.T) {
		repo, _ := setupRepo(t, func(c *fs.Config) {
			c.Include = []string{"docs/**/*.md", "README.md"}
			c.Exclude = []string{"README.md"}
		})

		docs, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "docs/performance", docs[0].ID)
	})

	t.Run("Writes Cache And Serves Hits", func(t *testing.T) {
		repo, root := setupRepo(t)

		_, err := repo.List(ctx)
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(root, ".snipcat", "index.json"))
		require.NoError(t, err, "expected cache file")

		docs, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, docs, 2)

		state := repo.State().(fs.RepositoryState)
		assert.Equal(t, 2, state.CacheSize)
		assert.NotNil(t, state.LastList)
	})

	t.Run("Cache Misses After Edit", func(t *testing.T) {
		repo, root := setupRepo(t)
		_, err := repo.List(ctx)
		require.NoError(t, err)

		writeFile(t, root, "docs/performance.md", perfDoc+"\n### Second Level Cache\n")
		future := time.Now().Add(2 * time.Second)
		require.NoError(t, os.Chtimes(filepath.Join(root, "docs", "performance.md"), future, future))

		docs, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, docs[1].Categories[0].Entries, 2)
	})

	t.Run("No Cache Leaves No Trace", func(t *testing.T) {
		repo, root := setupRepo(t, func(c *fs.Config) { c.NoCache = true })
		_, err := repo.List(ctx)
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(root, ".snipcat"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Read Only Does Not Persist Cache", func(t *testing.T) {
		repo, root := setupRepo(t, func(c *fs.Config) { c.ReadOnly = true })
		_, err := repo.List(ctx)
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(root, ".snipcat"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Honours Cancelled Context", func(t *testing.T) {
		repo, _ := setupRepo(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.List(cancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGet(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	t.Run("By ID Without Extension", func(t *testing.T) {
		doc, err := repo.Get(ctx, "docs/performance")
		require.NoError(t, err)
		assert.Equal(t, "Performance", doc.Title)
	})

	t.Run("By ID With Extension", func(t *testing.T) {
		doc, err := repo.Get(ctx, "README.md")
		require.NoError(t, err)
		assert.Equal(t, "README", doc.ID)
		assert.True(t, doc.HasTOC)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := repo.Get(ctx, "ghost")
		assert.True(t, errors.Is(err, core.ErrNotFound))
	})

	t.Run("Dotted ID", func(t *testing.T) {
		repo, root := setupRepo(t)
		writeFile(t, root, "README.ja.md", "# 日本語\n\n## DQL\n\n- [Count Rows](#count-rows)\n")

		docs, err := repo.List(ctx)
		require.NoError(t, err)
		var ids []string
		for _, d := range docs {
			ids = append(ids, d.ID)
		}
		require.Contains(t, ids, "README.ja")

		doc, err := repo.Get(ctx, "README.ja")
		require.NoError(t, err)
		assert.Equal(t, "README.ja", doc.ID)
		assert.Equal(t, "README.ja.md", doc.Path)
	})

	t.Run("Non-Markdown Extension Kept In ID", func(t *testing.T) {
		repo, _ := setupRepo(t, func(c *fs.Config) {
			c.Include = []string{"**/*.md", "**/*.txt"}
		})

		doc, err := repo.Get(ctx, "docs/notes.txt")
		require.NoError(t, err)
		assert.Equal(t, "docs/notes.txt", doc.ID)
	})
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("Writes Content", func(t *testing.T) {
		repo, root := setupRepo(t)
		require.NoError(t, repo.Save(ctx, core.Document{ID: "docs/new", Content: "## New\n"}))

		data, err := os.ReadFile(filepath.Join(root, "docs", "new.md"))
		require.NoError(t, err)
		assert.Equal(t, "## New\n", string(data))
	})

	t.Run("Prefers Path", func(t *testing.T) {
		repo, root := setupRepo(t)
		require.NoError(t, repo.Save(ctx, core.Document{ID: "README", Path: "README.md", Content: "# Changed\n"}))

		data, err := os.ReadFile(filepath.Join(root, "README.md"))
		require.NoError(t, err)
		assert.Equal(t, "# Changed\n", string(data))
	})

	t.Run("Read Only", func(t *testing.T) {
		repo, _ := setupRepo(t, func(c *fs.Config) { c.ReadOnly = true })
		err := repo.Save(ctx, core.Document{ID: "x", Content: "x"})
		assert.True(t, errors.Is(err, core.ErrReadOnly))
	})

	t.Run("Requires Identity", func(t *testing.T) {
		repo, _ := setupRepo(t)
		assert.Error(t, repo.Save(ctx, core.Document{Content: "x"}))
	})
}

func TestServiceOverRepository(t *testing.T) {
	repo, _ := setupRepo(t)
	svc := core.NewService(repo)
	require.NoError(t, svc.Load(context.Background()))

	assert.Equal(t, []string{"DQL", "Performance"}, svc.ListCategories())
	e, err := svc.GetEntry("DQL", "get-single-row-or-null")
	require.NoError(t, err)
	assert.Equal(t, "php", e.Snippets[0].Language)

	state := svc.State().(core.ServiceState)
	assert.Equal(t, "fs-repository", state.RepositoryType)
	assert.Equal(t, 2, state.Entries)
}
