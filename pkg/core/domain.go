// Package core holds the catalog domain: entries, categories, documents and
// the ports used to load them.
package core

// Metadata represents the flexible key-value pairs found in a document's frontmatter.
type Metadata map[string]any

// Snippet is a single fenced code block attached to an entry.
// Language is a display label only (e.g. "php", "sql").
type Snippet struct {
	Language string `json:"language,omitempty"`
	Code     string `json:"code"`
	Line     int    `json:"line"`
}

// Reference is an external link attached to an entry.
// Marker is the bracketed number used in prose (e.g. "1"), empty for inline links.
type Reference struct {
	Marker string `json:"marker,omitempty"`
	Label  string `json:"label"`
	URL    string `json:"url"`
	Line   int    `json:"line"`
}

// Entry is one documented tip. Its identity is the (Category, Title) pair.
type Entry struct {
	Title      string      `json:"title"`
	Category   string      `json:"category"`
	Anchor     string      `json:"anchor"`
	Body       string      `json:"body,omitempty"`
	Snippets   []Snippet   `json:"snippets,omitempty"`
	References []Reference `json:"references,omitempty"`

	// Markers lists the reference markers used in the body, in order of first use.
	Markers []string `json:"markers,omitempty"`

	Document string `json:"document"`
	Line     int    `json:"line"`
}

// Key returns the identity of the entry.
func (e Entry) Key() EntryKey {
	return EntryKey{Category: e.Category, Title: e.Title}
}

// EntryKey identifies an entry within a catalog.
type EntryKey struct {
	Category string `json:"category"`
	Title    string `json:"title"`
}

func (k EntryKey) String() string {
	return k.Category + " / " + k.Title
}

// Category is a topical grouping of entries.
type Category struct {
	Name        string  `json:"name"`
	Anchor      string  `json:"anchor"`
	Description string  `json:"description,omitempty"`
	Entries     []Entry `json:"entries"`
	Line        int     `json:"line"`
}

// Heading is a Markdown heading found outside of fenced code.
type Heading struct {
	Level  int    `json:"level"`
	Text   string `json:"text"`
	Anchor string `json:"anchor"`
	Line   int    `json:"line"`
}

// TOCItem is one link of a table of contents.
type TOCItem struct {
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
	Depth  int    `json:"depth"`
	Line   int    `json:"line,omitempty"`
}

// Fence records a fenced code block opening, closed or not.
type Fence struct {
	Language string `json:"language,omitempty"`
	Line     int    `json:"line"`
	Closed   bool   `json:"closed"`
}

// Document is a parsed catalog file.
type Document struct {
	ID       string   `json:"id"`
	Path     string   `json:"path,omitempty"`
	Title    string   `json:"title"`
	Metadata Metadata `json:"metadata,omitempty"`

	Headings   []Heading  `json:"headings,omitempty"`
	TOC        []TOCItem  `json:"toc,omitempty"`
	HasTOC     bool       `json:"has_toc"`
	Fences     []Fence    `json:"fences,omitempty"`
	Categories []Category `json:"categories,omitempty"`

	// Content is the raw source text the document was parsed from.
	Content string `json:"content"`
}

// EventType represents the type of change in a catalog source.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
	EventReload EventType = "RELOAD"
)

// Event represents a change in a catalog source.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return string(e.Type) + " " + e.ID
}
