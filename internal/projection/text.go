package projection

import (
	"strings"

	"github.com/yuin/goldmark/util"
)

// NormalizeURL percent-encodes a link destination the way goldmark's HTML
// renderer does, keeping already escaped sequences intact.
func NormalizeURL(raw string) string {
	if raw == "" {
		return ""
	}
	return string(util.URLEscape([]byte(raw), true))
}

// trimLines removes spaces and tabs around line endings. Leading blanks of
// the first line and trailing blanks of the last line are kept.
func trimLines(value string) string {
	if !strings.ContainsAny(value, "\r\n") {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	start := 0
	first := true
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '\n' && c != '\r' {
			continue
		}
		end := i + 1
		if c == '\r' && end < len(value) && value[end] == '\n' {
			end++
		}
		line := strings.TrimRight(value[start:i], " \t")
		if !first {
			line = strings.TrimLeft(line, " \t")
		}
		b.WriteString(line)
		b.WriteString(value[i:end])
		first = false
		start = end
		i = end - 1
	}
	b.WriteString(strings.TrimLeft(value[start:], " \t"))
	return b.String()
}

var lineEndings = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// collapseLineEndings turns every line ending into a single space.
func collapseLineEndings(value string) string {
	return lineEndings.Replace(value)
}
