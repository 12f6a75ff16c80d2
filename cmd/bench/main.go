package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/snipcat"
)

func main() {
	docs := flag.Int("docs", 200, "Number of catalog documents to generate")
	entries := flag.Int("entries", 20, "Entries per document")
	keep := flag.Bool("keep", false, "Keep the benchmark catalog after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "snipcat_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d documents x %d entries in %s...\n", *docs, *entries, benchDir)
	startGen := time.Now()
	for i := 0; i < *docs; i++ {
		filename := filepath.Join(benchDir, fmt.Sprintf("catalog_%d.md", i))
		if err := os.WriteFile(filename, []byte(generate(i, *entries)), 0644); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := context.Background()

	// Run 1: Cold (parses everything, writes .snipcat/index.json)
	fmt.Println("Loading (Run 1 - Cold)...")
	start := time.Now()
	svc, err := snipcat.Open(ctx, benchDir, snipcat.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	cold := time.Since(start)
	fmt.Printf("Run 1 Result: %v (Entries: %d)\n", cold, svc.Catalog().Len())

	// Run 2: Warm. A new service simulates a new CLI invocation reading the cache.
	fmt.Println("Loading (Run 2 - Warm)...")
	start = time.Now()
	svc2, err := snipcat.Open(ctx, benchDir, snipcat.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	warm := time.Since(start)
	fmt.Printf("Run 2 Result: %v (Entries: %d)\n", warm, svc2.Catalog().Len())

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d entries):\n", *docs**entries)
	fmt.Printf("  Cold: %v\n", cold)
	fmt.Printf("  Warm: %v\n", warm)
	fmt.Printf("--------------------------------------------------\n")
}

// generate builds one document with a TOC, a single category and n entries.
func generate(doc, n int) string {
	var toc, body strings.Builder
	category := fmt.Sprintf("Category %d", doc)
	anchor := fmt.Sprintf("category-%d", doc)
	fmt.Fprintf(&toc, "- [%s](#%s)\n", category, anchor)
	fmt.Fprintf(&body, "## %s\n\n", category)

	for i := 0; i < n; i++ {
		title := fmt.Sprintf("Tip %d %d", doc, i)
		fmt.Fprintf(&toc, "  - [%s](#tip-%d-%d)\n", title, doc, i)
		fmt.Fprintf(&body, "### %s\n\nSee [1].\n\n```php\n$em->find(User::class, %d);\n```\n\n[1]: https://example.com/%d/%d\n\n", title, i, doc, i)
	}

	return fmt.Sprintf("# Benchmark %d\n\n## Table of Contents\n\n%s\n%s", doc, toc.String(), body.String())
}
