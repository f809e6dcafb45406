package parser

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-markview/pkg/mdast"
)

var fences = map[string]string{
	"---": "yaml",
	"+++": "toml",
}

type frontmatterBlock struct {
	format string
	body   []byte
	end    int
}

// cutFrontmatter finds a metadata block opening on the first line of source
// and closing on the next line holding the same fence.
func cutFrontmatter(source []byte) (frontmatterBlock, bool) {
	first, next := nextLine(source, 0)
	fence := string(bytes.TrimRight(first, " \t\r"))
	format, ok := fences[fence]
	if !ok {
		return frontmatterBlock{}, false
	}

	bodyStart := next
	for offset := next; offset < len(source); {
		line, after := nextLine(source, offset)
		if string(bytes.TrimRight(line, " \t\r")) == fence {
			return frontmatterBlock{
				format: format,
				body:   bytes.TrimRight(source[bodyStart:offset], "\r\n"),
				end:    after,
			}, true
		}
		offset = after
	}
	return frontmatterBlock{}, false
}

// nextLine returns the line starting at offset without its newline and the
// offset of the following line.
func nextLine(source []byte, offset int) ([]byte, int) {
	if i := bytes.IndexByte(source[offset:], '\n'); i >= 0 {
		return source[offset : offset+i], offset + i + 1
	}
	return source[offset:], len(source)
}

// blank returns a copy of source with the block replaced by spaces so the
// remaining offsets still point into the original text.
func (b frontmatterBlock) blank(source []byte) []byte {
	out := bytes.Clone(source)
	for i := 0; i < b.end; i++ {
		if out[i] != '\n' {
			out[i] = ' '
		}
	}
	return out
}

// decode builds the Frontmatter node. The node is returned even when decoding
// fails so the raw value stays available.
func (b frontmatterBlock) decode(source []byte) (*mdast.Frontmatter, error) {
	node := &mdast.Frontmatter{
		Base:   mdast.Base{Position: newLineIndex(source).span(0, trimNewline(source, b.end))},
		Format: b.format,
		Value:  string(b.body),
	}

	data := map[string]any{}
	if _, err := frontmatter.Parse(bytes.NewReader(source[:b.end]), &data); err != nil {
		return node, fmt.Errorf("decode %s: %w", b.format, err)
	}
	node.Data = normalizeValue(data).(map[string]any)
	return node, nil
}

func trimNewline(source []byte, end int) int {
	for end > 0 && (source[end-1] == '\n' || source[end-1] == '\r') {
		end--
	}
	return end
}

// normalizeValue rewrites the map[interface{}]interface{} values produced by
// the yaml decoder into map[string]any.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalizeValue(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
