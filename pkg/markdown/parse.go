// Package markdown reads snippet catalogs written as Markdown.
//
// The heading hierarchy carries the structure: the H1 is the document title,
// every H2 is a category, every H3 below it is an entry. One H2 (by default
// "Table of Contents" or "Contents") holds the list of in-document links
// and is not a category. Deeper headings belong to the entry body.
//
// Parsing is lenient: structural defects such as unclosed fences or
// dangling reference markers are recorded on the document for the linter
// instead of failing the parse.
package markdown

import (
	"io"
	"regexp"
	"slices"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/snipcat/pkg/core"
)

// DefaultTOCHeadings are the H2 titles recognised as the table of contents.
var DefaultTOCHeadings = []string{"Table of Contents", "Contents"}

// Options tunes the parser.
type Options struct {
	// TOCHeadings overrides DefaultTOCHeadings (case-insensitive).
	TOCHeadings []string
}

func (o Options) isTOC(text string) bool {
	headings := o.TOCHeadings
	if len(headings) == 0 {
		headings = DefaultTOCHeadings
	}
	for _, h := range headings {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(text)) {
			return true
		}
	}
	return false
}

var (
	tocItemRe    = regexp.MustCompile(`^(\s*)(?:[-*+]|\d+[.)])\s+\[(.+?)\]\(#([^)\s]*)\)`)
	refDefRe     = regexp.MustCompile(`^ {0,3}\[([^\]^]+)\]:\s*<?(\S+?)>?(?:\s+["'(](.*)["')])?\s*$`)
	refListRe    = regexp.MustCompile(`^\s*(?:[-*+]\s+)?\[(\d+)\]:?\s+<?(https?://[^\s>]+)>?\s*(.*)$`)
	markerRe     = regexp.MustCompile(`\[(\d+)\]`)
	inlineLinkRe = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)\s]+)(?:\s+"[^"]*")?\)`)
	codeSpanRe   = regexp.MustCompile("`+[^`]*`+")
)

// Parse reads a document and builds its structural model.
func Parse(id string, r io.Reader, opts Options) (*core.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseString(id, string(data), opts)
}

// ParseString is Parse over an in-memory string.
func ParseString(id, content string, opts Options) (*core.Document, error) {
	lines := splitLines(content)

	meta, offset, err := splitFrontmatter(lines)
	if err != nil {
		return nil, err
	}

	p := &parser{
		opts:    opts,
		slugger: NewSlugger(),
		doc: &core.Document{
			ID:       id,
			Metadata: meta,
			Content:  content,
		},
	}

	for i := offset; i < len(lines); i++ {
		p.line(lines[i], i+1)
	}
	p.finish()

	if t, ok := meta["title"].(string); ok && t != "" {
		p.doc.Title = t
	}
	return p.doc, nil
}

type section int

const (
	sectionNone section = iota
	sectionTOC
	sectionCategory
)

type parser struct {
	opts    Options
	slugger *Slugger
	doc     *core.Document

	section section
	entry   *core.Entry
	body    []string
	desc    []string

	open      *fence
	fenceIdx  int
	fenceLang string
	code      []string

	tocIndents []int
}

func (p *parser) line(line string, n int) {
	if p.open != nil {
		if p.open.closes(line) {
			p.doc.Fences[p.fenceIdx].Closed = true
			p.endFence()
			return
		}
		p.code = append(p.code, line)
		return
	}

	if f, info, ok := openFence(line); ok {
		p.open = &f
		p.fenceLang = language(info)
		p.fenceIdx = len(p.doc.Fences)
		p.doc.Fences = append(p.doc.Fences, core.Fence{Language: p.fenceLang, Line: n})
		p.code = nil
		return
	}

	if level, text, ok := parseHeading(line); ok {
		p.heading(level, text, n)
		return
	}

	p.prose(line, n)
}

func (p *parser) heading(level int, text string, n int) {
	anchor := p.slugger.Slug(text)
	p.doc.Headings = append(p.doc.Headings, core.Heading{Level: level, Text: text, Anchor: anchor, Line: n})

	switch {
	case level == 1:
		p.flushEntry()
		p.flushDescription()
		if p.doc.Title == "" {
			p.doc.Title = text
		}
		p.section = sectionNone
	case level == 2:
		p.flushEntry()
		p.flushDescription()
		if p.opts.isTOC(text) {
			p.section = sectionTOC
			p.doc.HasTOC = true
			return
		}
		p.section = sectionCategory
		p.doc.Categories = append(p.doc.Categories, core.Category{Name: text, Anchor: anchor, Line: n})
	case level == 3 && p.section == sectionCategory:
		p.flushEntry()
		p.flushDescription()
		cat := p.doc.Categories[len(p.doc.Categories)-1]
		p.entry = &core.Entry{
			Title:    text,
			Category: cat.Name,
			Anchor:   anchor,
			Document: p.doc.ID,
			Line:     n,
		}
	case p.entry != nil:
		p.body = append(p.body, strings.Repeat("#", level)+" "+text)
	}
}

func (p *parser) prose(line string, n int) {
	switch {
	case p.section == sectionTOC:
		p.tocLine(line, n)
	case p.entry != nil:
		p.entryLine(line, n)
	case p.section == sectionCategory:
		p.desc = append(p.desc, line)
	}
}

func (p *parser) tocLine(line string, n int) {
	m := tocItemRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	indent := indentWidth(m[1])
	if !slices.Contains(p.tocIndents, indent) {
		p.tocIndents = append(p.tocIndents, indent)
	}
	p.doc.TOC = append(p.doc.TOC, core.TOCItem{
		Title:  m[2],
		Anchor: m[3],
		Depth:  indent, // normalised in finish
		Line:   n,
	})
}

func (p *parser) entryLine(line string, n int) {
	if m := refDefRe.FindStringSubmatch(line); m != nil {
		label := m[3]
		if label == "" {
			label = m[1]
		}
		p.entry.References = append(p.entry.References, core.Reference{Marker: m[1], Label: label, URL: m[2], Line: n})
		return
	}
	if m := refListRe.FindStringSubmatch(line); m != nil {
		label := strings.TrimSpace(m[3])
		if label == "" {
			label = m[1]
		}
		p.entry.References = append(p.entry.References, core.Reference{Marker: m[1], Label: label, URL: m[2], Line: n})
		return
	}

	p.body = append(p.body, line)

	plain := codeSpanRe.ReplaceAllString(line, "")
	for _, m := range inlineLinkRe.FindAllStringSubmatch(plain, -1) {
		p.entry.References = append(p.entry.References, core.Reference{Label: m[1], URL: m[2], Line: n})
	}
	plain = inlineLinkRe.ReplaceAllString(plain, "")
	for _, m := range markerRe.FindAllStringSubmatchIndex(plain, -1) {
		// "[1](...)" is a link, "[1]:" a definition.
		if end := m[1]; end < len(plain) && (plain[end] == '(' || plain[end] == ':') {
			continue
		}
		// "x[0]" indexes, it does not cite.
		if r, _ := utf8.DecodeLastRuneInString(plain[:m[0]]); m[0] > 0 && isWordRune(r) {
			continue
		}
		marker := plain[m[2]:m[3]]
		if !slices.Contains(p.entry.Markers, marker) {
			p.entry.Markers = append(p.entry.Markers, marker)
		}
	}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (p *parser) endFence() {
	if p.entry != nil {
		p.entry.Snippets = append(p.entry.Snippets, core.Snippet{
			Language: p.fenceLang,
			Code:     strings.Join(p.code, "\n"),
			Line:     p.doc.Fences[p.fenceIdx].Line,
		})
	}
	p.open = nil
	p.code = nil
}

func (p *parser) flushEntry() {
	if p.entry == nil {
		return
	}
	p.entry.Body = strings.TrimSpace(strings.Join(p.body, "\n"))
	last := len(p.doc.Categories) - 1
	p.doc.Categories[last].Entries = append(p.doc.Categories[last].Entries, *p.entry)
	p.entry = nil
	p.body = nil
}

func (p *parser) flushDescription() {
	if len(p.desc) == 0 || len(p.doc.Categories) == 0 {
		p.desc = nil
		return
	}
	last := len(p.doc.Categories) - 1
	if p.doc.Categories[last].Description == "" {
		p.doc.Categories[last].Description = strings.TrimSpace(strings.Join(p.desc, "\n"))
	}
	p.desc = nil
}

func (p *parser) finish() {
	if p.open != nil {
		// An unclosed fence runs to the end of the document.
		p.endFence()
	}
	p.flushEntry()
	p.flushDescription()

	sort.Ints(p.tocIndents)
	for i := range p.doc.TOC {
		p.doc.TOC[i].Depth = slices.Index(p.tocIndents, p.doc.TOC[i].Depth)
	}
}
