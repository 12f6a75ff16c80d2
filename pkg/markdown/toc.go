package markdown

import (
	"fmt"
	"strings"

	"github.com/aretw0/snipcat/pkg/core"
)

// RenderTOC renders the canonical table of contents of a document: one
// bullet per category, one nested bullet per entry.
func RenderTOC(doc *core.Document) string {
	var b strings.Builder
	for _, cat := range doc.Categories {
		fmt.Fprintf(&b, "- [%s](#%s)\n", cat.Name, cat.Anchor)
		for _, e := range cat.Entries {
			fmt.Fprintf(&b, "  - [%s](#%s)\n", e.Title, e.Anchor)
		}
	}
	return b.String()
}

// ReplaceTOC swaps the list under the table-of-contents heading for toc.
//
// When the document has no such heading, one named after the first
// configured TOC heading is inserted before the first H2. Fenced code is
// never touched. Line endings are normalised to "\n".
func ReplaceTOC(content, toc string, opts Options) (string, error) {
	lines := splitLines(content)

	_, offset, err := splitFrontmatter(lines)
	if err != nil {
		return "", err
	}

	tocStart, tocEnd, firstH2 := -1, -1, -1
	var open *fence
	for i := offset; i < len(lines); i++ {
		line := lines[i]
		if open != nil {
			if open.closes(line) {
				open = nil
			}
			continue
		}
		if f, _, ok := openFence(line); ok {
			open = &f
			continue
		}
		level, text, ok := parseHeading(line)
		if !ok {
			continue
		}
		if tocStart != -1 && tocEnd == -1 {
			tocEnd = i
		}
		if level == 2 {
			if firstH2 == -1 {
				firstH2 = i
			}
			if tocStart == -1 && opts.isTOC(text) {
				tocStart = i
			}
		}
	}

	block := []string{""}
	block = append(block, splitLines(toc)...)
	block = append(block, "")

	var out []string
	switch {
	case tocStart != -1:
		if tocEnd == -1 {
			tocEnd = len(lines)
		}
		out = append(out, lines[:tocStart+1]...)
		out = append(out, block...)
		out = append(out, lines[tocEnd:]...)
	case firstH2 != -1:
		out = append(out, lines[:firstH2]...)
		out = append(out, "## "+tocHeading(opts))
		out = append(out, block...)
		out = append(out, lines[firstH2:]...)
	default:
		return "", fmt.Errorf("document has no sections to index")
	}

	return strings.Join(out, "\n") + "\n", nil
}

func tocHeading(opts Options) string {
	if len(opts.TOCHeadings) > 0 {
		return opts.TOCHeadings[0]
	}
	return DefaultTOCHeadings[0]
}
