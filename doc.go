// Package snipcat is the composition root for the snippet catalog reader.
//
// It connects the catalog domain (pkg/core) with its sources: Markdown files
// on disk (pkg/adapters/fs) or a SQLite snapshot (pkg/adapters/sqlite).
//
// A catalog is one or more Markdown documents where every H2 is a category
// and every H3 an entry, each carrying fenced code snippets and reference
// links. Entries are read-only: the catalog is rebuilt whenever a source
// document changes.
//
// Usage:
//
//	svc, err := snipcat.New("./docs", snipcat.WithReadOnly(true))
//	if err != nil { ... }
//	if err := svc.Load(ctx); err != nil { ... }
//
//	for _, name := range svc.ListCategories() {
//		fmt.Println(name)
//	}
//	entry, err := svc.GetEntry("DQL", "Get Single Row or Null")
package snipcat
