package lint

import (
	"fmt"

	"github.com/aretw0/snipcat/pkg/core"
)

type rule struct {
	name     string
	severity Severity
	check    func(doc core.Document) []Finding
}

var structural = []rule{
	{RuleTOCMissingHeading, SeverityError, tocMissingHeading},
	{RuleHeadingMissingTOC, SeverityWarning, headingMissingTOC},
	{RuleUnclosedFence, SeverityError, unclosedFence},
	{RuleUndefinedReference, SeverityError, undefinedReference},
	{RuleUnusedReference, SeverityWarning, unusedReference},
	{RuleDuplicateTitle, SeverityError, duplicateTitle},
	{RuleMissingTOC, SeverityWarning, missingTOC},
}

// tocMissingHeading: every TOC link targets an existing heading anchor.
func tocMissingHeading(doc core.Document) []Finding {
	anchors := make(map[string]bool, len(doc.Headings))
	for _, h := range doc.Headings {
		anchors[h.Anchor] = true
	}

	var out []Finding
	for _, item := range doc.TOC {
		if !anchors[item.Anchor] {
			out = append(out, Finding{
				Line:    item.Line,
				Message: fmt.Sprintf("TOC entry %q links to #%s, which matches no heading", item.Title, item.Anchor),
			})
		}
	}
	return out
}

// headingMissingTOC: every category and entry heading is listed in the TOC.
func headingMissingTOC(doc core.Document) []Finding {
	if !doc.HasTOC {
		return nil
	}
	listed := make(map[string]bool, len(doc.TOC))
	for _, item := range doc.TOC {
		listed[item.Anchor] = true
	}

	var out []Finding
	for _, cat := range doc.Categories {
		if !listed[cat.Anchor] {
			out = append(out, Finding{Line: cat.Line, Message: fmt.Sprintf("category %q is missing from the TOC", cat.Name)})
		}
		for _, e := range cat.Entries {
			if !listed[e.Anchor] {
				out = append(out, Finding{Line: e.Line, Message: fmt.Sprintf("entry %q is missing from the TOC", e.Title)})
			}
		}
	}
	return out
}

func unclosedFence(doc core.Document) []Finding {
	var out []Finding
	for _, f := range doc.Fences {
		if !f.Closed {
			out = append(out, Finding{Line: f.Line, Message: "fenced code block is never closed"})
		}
	}
	return out
}

// undefinedReference: every [n] marker is defined in the same entry.
func undefinedReference(doc core.Document) []Finding {
	var out []Finding
	eachEntry(doc, func(e core.Entry) {
		defined := definedMarkers(e)
		for _, m := range e.Markers {
			if !defined[m] {
				out = append(out, Finding{
					Line:    e.Line,
					Message: fmt.Sprintf("reference [%s] in %q has no definition", m, e.Title),
				})
			}
		}
	})
	return out
}

func unusedReference(doc core.Document) []Finding {
	var out []Finding
	eachEntry(doc, func(e core.Entry) {
		used := make(map[string]bool, len(e.Markers))
		for _, m := range e.Markers {
			used[m] = true
		}
		for _, ref := range e.References {
			if ref.Marker != "" && !used[ref.Marker] {
				out = append(out, Finding{
					Line:    ref.Line,
					Message: fmt.Sprintf("reference [%s] is defined but never used", ref.Marker),
				})
			}
		}
	})
	return out
}

func duplicateTitle(doc core.Document) []Finding {
	var out []Finding
	for _, cat := range doc.Categories {
		seen := make(map[string]int)
		for _, e := range cat.Entries {
			if first, ok := seen[e.Title]; ok {
				out = append(out, Finding{
					Line:    e.Line,
					Message: fmt.Sprintf("entry %q duplicates the one at line %d in category %q", e.Title, first, cat.Name),
				})
				continue
			}
			seen[e.Title] = e.Line
		}
	}
	return out
}

func missingTOC(doc core.Document) []Finding {
	if doc.HasTOC || len(doc.Categories) == 0 {
		return nil
	}
	return []Finding{{Message: "document has categories but no table of contents"}}
}

func eachEntry(doc core.Document, fn func(core.Entry)) {
	for _, cat := range doc.Categories {
		for _, e := range cat.Entries {
			fn(e)
		}
	}
}

func definedMarkers(e core.Entry) map[string]bool {
	defined := make(map[string]bool, len(e.References))
	for _, ref := range e.References {
		if ref.Marker != "" {
			defined[ref.Marker] = true
		}
	}
	return defined
}
