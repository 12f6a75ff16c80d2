package core

import (
	"maps"
	"slices"
)

// Readers get copies; the snapshot itself is never handed out.

func cloneEntry(e Entry) Entry {
	e.Snippets = slices.Clone(e.Snippets)
	e.References = slices.Clone(e.References)
	e.Markers = slices.Clone(e.Markers)
	return e
}

func cloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = cloneEntry(e)
	}
	return out
}

func cloneCategory(c Category) Category {
	c.Entries = cloneEntries(c.Entries)
	return c
}

func cloneDocument(d Document) Document {
	d.Metadata = maps.Clone(d.Metadata)
	d.Headings = slices.Clone(d.Headings)
	d.TOC = slices.Clone(d.TOC)
	d.Fences = slices.Clone(d.Fences)
	if d.Categories != nil {
		cats := make([]Category, len(d.Categories))
		for i, c := range d.Categories {
			cats[i] = cloneCategory(c)
		}
		d.Categories = cats
	}
	return d
}
