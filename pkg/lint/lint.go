// Package lint checks the structural integrity of catalog documents.
package lint

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sort"
	"time"

	"github.com/aretw0/snipcat/pkg/core"
)

// Severity of a finding. Only errors fail a lint run.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule names.
const (
	RuleTOCMissingHeading  = "toc-missing-heading"
	RuleHeadingMissingTOC  = "heading-missing-toc"
	RuleUnclosedFence      = "unclosed-fence"
	RuleUndefinedReference = "undefined-reference"
	RuleUnusedReference    = "unused-reference"
	RuleDuplicateTitle     = "duplicate-title"
	RuleMissingTOC         = "missing-toc"
	RuleDeadLink           = "dead-link"
)

// Finding is a single rule violation.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Document string   `json:"document"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s (%s)", f.Document, f.Line, f.Severity, f.Message, f.Rule)
	}
	return fmt.Sprintf("%s: %s: %s (%s)", f.Document, f.Severity, f.Message, f.Rule)
}

// Report is the outcome of a lint run.
type Report struct {
	Documents int       `json:"documents"`
	Findings  []Finding `json:"findings"`
}

// Errors counts error findings.
func (r Report) Errors() int {
	return r.count(SeverityError)
}

// Warnings counts warning findings.
func (r Report) Warnings() int {
	return r.count(SeverityWarning)
}

// OK reports whether the run produced no errors.
func (r Report) OK() bool {
	return r.Errors() == 0
}

func (r Report) count(s Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// Options configures a Linter.
type Options struct {
	// Disable lists rule names to skip.
	Disable []string

	// CheckLinks enables the dead-link rule, which performs HTTP requests.
	CheckLinks bool
	// LinkConcurrency bounds in-flight link checks (default 8).
	LinkConcurrency int
	// LinkTimeout bounds a single link check (default 10s).
	LinkTimeout time.Duration
	// Client overrides the HTTP client used for link checks.
	Client *http.Client

	Logger *slog.Logger
}

// Linter runs the enabled rules over documents.
type Linter struct {
	opts     Options
	disabled map[string]bool
}

// New validates the options and returns a Linter.
func New(opts Options) (*Linter, error) {
	disabled := make(map[string]bool, len(opts.Disable))
	for _, name := range opts.Disable {
		if !slices.Contains(Rules(), name) {
			return nil, fmt.Errorf("unknown lint rule: %q", name)
		}
		disabled[name] = true
	}
	if opts.LinkConcurrency <= 0 {
		opts.LinkConcurrency = 8
	}
	if opts.LinkTimeout <= 0 {
		opts.LinkTimeout = 10 * time.Second
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	return &Linter{opts: opts, disabled: disabled}, nil
}

// Rules returns the names of every known rule.
func Rules() []string {
	names := make([]string, 0, len(structural)+1)
	for _, r := range structural {
		names = append(names, r.name)
	}
	return append(names, RuleDeadLink)
}

// Enabled reports whether a rule runs under the current options.
func (l *Linter) Enabled(rule string) bool {
	if l.disabled[rule] {
		return false
	}
	if rule == RuleDeadLink {
		return l.opts.CheckLinks
	}
	return true
}

// Lint checks every document. The error is non-nil only when the run
// itself fails (e.g. ctx cancelled), never for findings.
func (l *Linter) Lint(ctx context.Context, docs ...core.Document) (Report, error) {
	report := Report{Documents: len(docs)}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		for _, r := range structural {
			if !l.Enabled(r.name) {
				continue
			}
			for _, f := range r.check(doc) {
				f.Rule = r.name
				f.Severity = r.severity
				f.Document = documentName(doc)
				report.Findings = append(report.Findings, f)
			}
		}
	}

	if l.Enabled(RuleDeadLink) {
		findings, err := l.checkLinks(ctx, docs)
		if err != nil {
			return report, err
		}
		report.Findings = append(report.Findings, findings...)
	}

	sort.SliceStable(report.Findings, func(i, j int) bool {
		a, b := report.Findings[i], report.Findings[j]
		if a.Document != b.Document {
			return a.Document < b.Document
		}
		return a.Line < b.Line
	})

	if l.opts.Logger != nil {
		l.opts.Logger.Debug("lint finished",
			"documents", report.Documents,
			"errors", report.Errors(),
			"warnings", report.Warnings())
	}
	return report, nil
}

func documentName(doc core.Document) string {
	if doc.Path != "" {
		return doc.Path
	}
	return doc.ID
}
