package markdown

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// slugLinkRe matches inline links; only their text reaches the anchor.
var slugLinkRe = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)

// Slugify turns heading text into an in-document anchor the way GitHub does:
// lowercase, every space becomes a hyphen, punctuation is stripped. Letters,
// digits, marks, '-' and '_' are kept. Inline links contribute their text only.
//
//	Slugify("Get Single Row or Null") == "get-single-row-or-null"
//	Slugify("See [docs](http://x)") == "see-docs"
func Slugify(text string) string {
	text = slugLinkRe.ReplaceAllString(text, "$1")
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r), r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('-')
		}
	}
	return b.String()
}

// Slugger assigns unique anchors within one document. Repeated headings get
// "-1", "-2", ... suffixes.
type Slugger struct {
	counts map[string]int
	used   map[string]bool
}

// NewSlugger returns an empty Slugger.
func NewSlugger() *Slugger {
	return &Slugger{
		counts: make(map[string]int),
		used:   make(map[string]bool),
	}
}

// Slug returns the next unique anchor for text.
func (s *Slugger) Slug(text string) string {
	base := Slugify(text)
	n := s.counts[base]
	slug := base
	if n > 0 {
		slug = base + "-" + strconv.Itoa(n)
	}
	for s.used[slug] {
		n++
		slug = base + "-" + strconv.Itoa(n)
	}
	s.counts[base] = n + 1
	s.used[slug] = true
	return slug
}
