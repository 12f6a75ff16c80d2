package lint

import (
	"slices"

	"github.com/aretw0/snipcat/pkg/core"
)

// Comparison lists how two variants of a catalog diverge.
type Comparison struct {
	A string `json:"a"`
	B string `json:"b"`

	OnlyInA []core.EntryKey `json:"only_in_a,omitempty"`
	OnlyInB []core.EntryKey `json:"only_in_b,omitempty"`
	// Changed entries exist in both but differ in body, snippets or references.
	Changed []core.EntryKey `json:"changed,omitempty"`
}

// Identical reports whether the variants carry the same entries.
func (c Comparison) Identical() bool {
	return len(c.OnlyInA) == 0 && len(c.OnlyInB) == 0 && len(c.Changed) == 0
}

// Compare reports entries present in only one document and entries whose
// content differs. Results follow document order.
func Compare(a, b core.Document) Comparison {
	c := Comparison{A: documentName(a), B: documentName(b)}

	index := func(doc core.Document) map[core.EntryKey]core.Entry {
		m := make(map[core.EntryKey]core.Entry)
		eachEntry(doc, func(e core.Entry) {
			if _, dup := m[e.Key()]; !dup {
				m[e.Key()] = e
			}
		})
		return m
	}
	ia, ib := index(a), index(b)

	eachEntry(a, func(e core.Entry) {
		other, ok := ib[e.Key()]
		switch {
		case !ok:
			c.OnlyInA = appendUnique(c.OnlyInA, e.Key())
		case !sameContent(ia[e.Key()], other):
			c.Changed = appendUnique(c.Changed, e.Key())
		}
	})
	eachEntry(b, func(e core.Entry) {
		if _, ok := ia[e.Key()]; !ok {
			c.OnlyInB = appendUnique(c.OnlyInB, e.Key())
		}
	})
	return c
}

func sameContent(x, y core.Entry) bool {
	if x.Body != y.Body {
		return false
	}
	sameSnippet := func(p, q core.Snippet) bool { return p.Language == q.Language && p.Code == q.Code }
	sameRef := func(p, q core.Reference) bool { return p.Marker == q.Marker && p.Label == q.Label && p.URL == q.URL }
	return slices.EqualFunc(x.Snippets, y.Snippets, sameSnippet) &&
		slices.EqualFunc(x.References, y.References, sameRef)
}

func appendUnique(keys []core.EntryKey, k core.EntryKey) []core.EntryKey {
	if slices.Contains(keys, k) {
		return keys
	}
	return append(keys, k)
}
