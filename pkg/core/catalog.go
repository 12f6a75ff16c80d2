package core

import (
	"fmt"
	"strings"
)

// Catalog is an immutable, ordered view of entries grouped by category.
// It is safe for concurrent use by any number of readers.
type Catalog struct {
	categories []Category
	byName     map[string]int
	byKey      map[EntryKey]int
	duplicates []Entry
}

// NewCatalog builds a catalog from parsed documents.
//
// Categories are merged by name in order of first appearance across the
// documents. When a title repeats inside a category the first entry wins and
// the later one is kept aside (see Duplicates).
func NewCatalog(docs ...Document) *Catalog {
	c := &Catalog{
		byName: make(map[string]int),
		byKey:  make(map[EntryKey]int),
	}

	for _, doc := range docs {
		for _, cat := range doc.Categories {
			idx, ok := c.byName[cat.Name]
			if !ok {
				idx = len(c.categories)
				c.byName[cat.Name] = idx
				c.categories = append(c.categories, Category{
					Name:        cat.Name,
					Anchor:      cat.Anchor,
					Description: cat.Description,
					Line:        cat.Line,
				})
			} else if c.categories[idx].Description == "" {
				c.categories[idx].Description = cat.Description
			}

			for _, e := range cat.Entries {
				key := EntryKey{Category: cat.Name, Title: e.Title}
				if _, dup := c.byKey[key]; dup {
					c.duplicates = append(c.duplicates, e)
					continue
				}
				c.byKey[key] = len(c.categories[idx].Entries)
				c.categories[idx].Entries = append(c.categories[idx].Entries, e)
			}
		}
	}

	return c
}

// ListCategories returns the category names in document order.
func (c *Catalog) ListCategories() []string {
	names := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		names = append(names, cat.Name)
	}
	return names
}

// ListEntries returns the entries of a category in document order.
// An unknown category yields an empty slice.
func (c *Catalog) ListEntries(category string) []Entry {
	idx, ok := c.findCategory(category)
	if !ok {
		return []Entry{}
	}
	entries := cloneEntries(c.categories[idx].Entries)
	if entries == nil {
		return []Entry{}
	}
	return entries
}

// GetEntry returns the entry with the given title in category.
// Both arguments match the exact name first and the anchor (slug) second.
func (c *Catalog) GetEntry(category, title string) (Entry, error) {
	idx, ok := c.findCategory(category)
	if !ok {
		return Entry{}, fmt.Errorf("category %q: %w", category, ErrNotFound)
	}
	cat := c.categories[idx]

	if pos, ok := c.byKey[EntryKey{Category: cat.Name, Title: title}]; ok {
		return cloneEntry(cat.Entries[pos]), nil
	}

	anchor := normalizeAnchor(title)
	for _, e := range cat.Entries {
		if strings.EqualFold(e.Title, title) || e.Anchor == anchor {
			return cloneEntry(e), nil
		}
	}
	return Entry{}, fmt.Errorf("entry %q in %q: %w", title, cat.Name, ErrNotFound)
}

// Categories returns every category with its entries.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = cloneCategory(cat)
	}
	return out
}

// Category returns one category with its entries, matched like GetEntry
// matches categories.
func (c *Catalog) Category(name string) (Category, bool) {
	idx, ok := c.findCategory(name)
	if !ok {
		return Category{}, false
	}
	return cloneCategory(c.categories[idx]), true
}

// TOC returns the table-of-contents view: categories at depth 0 followed by
// their entries at depth 1.
func (c *Catalog) TOC() []TOCItem {
	var items []TOCItem
	for _, cat := range c.categories {
		items = append(items, TOCItem{Title: cat.Name, Anchor: cat.Anchor, Depth: 0})
		for _, e := range cat.Entries {
			items = append(items, TOCItem{Title: e.Title, Anchor: e.Anchor, Depth: 1})
		}
	}
	return items
}

// Len returns the number of entries in the catalog.
func (c *Catalog) Len() int {
	return len(c.byKey)
}

// Duplicates returns entries dropped because their (category, title) was already taken.
func (c *Catalog) Duplicates() []Entry {
	return cloneEntries(c.duplicates)
}

func (c *Catalog) findCategory(name string) (int, bool) {
	if idx, ok := c.byName[name]; ok {
		return idx, true
	}
	anchor := normalizeAnchor(name)
	for i, cat := range c.categories {
		if strings.EqualFold(cat.Name, name) || cat.Anchor == anchor {
			return i, true
		}
	}
	return 0, false
}

func normalizeAnchor(s string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "#"))
}
