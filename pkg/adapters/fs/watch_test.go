package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/snipcat/pkg/adapters/fs"
	"github.com/aretw0/snipcat/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_FileModification(t *testing.T) {
	repo, root := setupRepo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := repo.Watch(ctx, "**/*.md")
	require.NoError(t, err)

	// Wait a bit to ensure watcher is ready (naive)
	time.Sleep(100 * time.Millisecond)

	writeFile(t, root, "docs/performance.md", perfDoc+"\n### Iterate\n")

	select {
	case e := <-events:
		assert.Equal(t, "docs/performance", e.ID)
		assert.Contains(t, []core.EventType{core.EventModify, core.EventCreate}, e.Type)
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}

	assert.True(t, repo.State().(fs.RepositoryState).WatcherActive)
}

func TestWatch_IgnoresNonCatalogFiles(t *testing.T) {
	repo, root := setupRepo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	events, err := repo.Watch(ctx, "")
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "notes.txt"), []byte("changed"), 0644))

	select {
	case e := <-events:
		t.Fatalf("unexpected event %v", e)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatch_NewDirectory(t *testing.T) {
	repo, root := setupRepo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := repo.Watch(ctx, "**/*.md")
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "extra"), 0755))
	time.Sleep(100 * time.Millisecond)
	writeFile(t, root, "extra/raw.md", "## Raw Access\n")

	select {
	case e := <-events:
		assert.Equal(t, "extra/raw", e.ID)
	case <-ctx.Done():
		t.Fatal("timed out waiting for event in new directory")
	}
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx, cancel := context.WithCancel(context.Background())

	events, err := repo.Watch(ctx, "**/*.md")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok, "expected closed channel")
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatch_InvalidPattern(t *testing.T) {
	repo, _ := setupRepo(t)
	_, err := repo.Watch(context.Background(), "[")
	assert.Error(t, err)
}
