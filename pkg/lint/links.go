package lint

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/snipcat/pkg/core"
)

type linkSite struct {
	document string
	line     int
}

// checkLinks probes every distinct external URL once and reports each
// place a dead one is referenced.
func (l *Linter) checkLinks(ctx context.Context, docs []core.Document) ([]Finding, error) {
	sites := make(map[string][]linkSite)
	for _, doc := range docs {
		eachEntry(doc, func(e core.Entry) {
			for _, ref := range e.References {
				if !strings.HasPrefix(ref.URL, "http://") && !strings.HasPrefix(ref.URL, "https://") {
					continue
				}
				sites[ref.URL] = append(sites[ref.URL], linkSite{document: documentName(doc), line: ref.Line})
			}
		})
	}

	urls := make([]string, 0, len(sites))
	for u := range sites {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	var (
		mu   sync.Mutex
		dead = make(map[string]string)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.LinkConcurrency)
	for _, u := range urls {
		g.Go(func() error {
			if reason := l.probe(gctx, u); reason != "" {
				mu.Lock()
				dead[u] = reason
				mu.Unlock()
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Finding
	for _, u := range urls {
		reason, ok := dead[u]
		if !ok {
			continue
		}
		for _, s := range sites[u] {
			out = append(out, Finding{
				Rule:     RuleDeadLink,
				Severity: SeverityError,
				Document: s.document,
				Line:     s.line,
				Message:  fmt.Sprintf("link %s is unreachable: %s", u, reason),
			})
		}
	}

	if l.opts.Logger != nil {
		l.opts.Logger.Debug("links checked", "urls", len(urls), "dead", len(dead))
	}
	return out, nil
}

// probe returns an empty string for a live URL, the failure otherwise.
// Servers that reject HEAD get a second chance with GET.
func (l *Linter) probe(ctx context.Context, url string) string {
	status, err := l.request(ctx, http.MethodHead, url)
	if err == nil && status < 400 {
		return ""
	}
	if ctx.Err() != nil {
		return ""
	}

	status, err = l.request(ctx, http.MethodGet, url)
	switch {
	case err != nil:
		return err.Error()
	case status >= 400:
		return fmt.Sprintf("HTTP %d", status)
	}
	return ""
}

func (l *Linter) request(ctx context.Context, method, url string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, l.opts.LinkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "snipcat-lint")

	resp, err := l.opts.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
