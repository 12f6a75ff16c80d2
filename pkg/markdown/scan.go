package markdown

import (
	"strings"
)

// fence tracks an open fenced code block.
type fence struct {
	char byte
	size int
}

// indentWidth returns the visual width of the leading whitespace (tab = 4).
func indentWidth(line string) int {
	w := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			w++
		case '\t':
			w += 4 - w%4
		default:
			return w
		}
	}
	return w
}

// openFence reports whether line opens a fenced code block and returns its info string.
func openFence(line string) (fence, string, bool) {
	if indentWidth(line) > 3 {
		return fence{}, "", false
	}
	trimmed := strings.TrimLeft(line, " \t")
	if len(trimmed) < 3 || (trimmed[0] != '`' && trimmed[0] != '~') {
		return fence{}, "", false
	}

	c := trimmed[0]
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	if n < 3 {
		return fence{}, "", false
	}

	info := strings.TrimSpace(trimmed[n:])
	if c == '`' && strings.Contains(info, "`") {
		return fence{}, "", false
	}
	return fence{char: c, size: n}, info, true
}

// closes reports whether line closes f.
func (f fence) closes(line string) bool {
	if indentWidth(line) > 3 {
		return false
	}
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < f.size {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != f.char {
			return false
		}
	}
	return true
}

// language extracts the language label from a fence info string.
func language(info string) string {
	if fields := strings.Fields(info); len(fields) > 0 {
		return strings.Trim(fields[0], "{}.")
	}
	return ""
}

// parseHeading parses an ATX heading ("## Title ##").
func parseHeading(line string) (int, string, bool) {
	if indentWidth(line) > 3 {
		return 0, "", false
	}
	trimmed := strings.TrimLeft(line, " ")

	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, "", false
	}

	rest := trimmed[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", false
	}

	text := strings.TrimSpace(rest)
	// Optional closing sequence.
	if stripped := strings.TrimRight(text, "#"); stripped != text {
		if stripped == "" || strings.HasSuffix(stripped, " ") || strings.HasSuffix(stripped, "\t") {
			text = strings.TrimSpace(stripped)
		}
	}
	return level, text, true
}

// splitLines splits content into lines without their terminators.
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}
