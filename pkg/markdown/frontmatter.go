package markdown

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/snipcat/pkg/core"
	"gopkg.in/yaml.v3"
)

// ErrUnterminatedFrontmatter is returned when a document opens a frontmatter
// block without closing it.
var ErrUnterminatedFrontmatter = errors.New("frontmatter started but no closing delimiter found")

// splitFrontmatter separates an optional leading YAML block from the body lines.
// It returns the decoded metadata and the number of lines consumed.
func splitFrontmatter(lines []string) (core.Metadata, int, error) {
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != "---" {
		return nil, 0, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		l := strings.TrimRight(lines[i], " \t")
		if l == "---" || l == "..." {
			end = i
			break
		}
	}
	if end == -1 {
		return nil, 0, ErrUnterminatedFrontmatter
	}

	meta := make(core.Metadata)
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &meta); err != nil {
		return nil, 0, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	return meta, end + 1, nil
}
