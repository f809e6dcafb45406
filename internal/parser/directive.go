package parser

import (
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-markview/pkg/mdast"
)

var (
	KindBlockDirective = ast.NewNodeKind("BlockDirective")
	KindTextDirective  = ast.NewNodeKind("TextDirective")
)

// DirectiveData is shared by both goldmark directive nodes.
type DirectiveData struct {
	Variant mdast.DirectiveVariant
	Name    string
	Label   string
	Params  map[string]string

	fence       int
	start, stop int
}

// BlockDirective is a leaf (`::name`) or container (`:::name`) directive.
type BlockDirective struct {
	ast.BaseBlock
	DirectiveData
}

func (n *BlockDirective) Kind() ast.NodeKind { return KindBlockDirective }

func (n *BlockDirective) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Name": n.Name, "Variant": string(n.Variant)}, nil)
}

// TextDirective is an inline `:name[label]{attrs}` directive.
type TextDirective struct {
	ast.BaseInline
	DirectiveData
}

func (n *TextDirective) Kind() ast.NodeKind { return KindTextDirective }

func (n *TextDirective) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Name": n.Name}, nil)
}

type directiveExtension struct{}

// Directives adds generic directive syntax to goldmark.
var Directives goldmark.Extender = &directiveExtension{}

func (*directiveExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		gparser.WithBlockParsers(util.Prioritized(&directiveBlockParser{}, 750)),
		gparser.WithInlineParsers(util.Prioritized(&textDirectiveParser{}, 150)),
	)
}

type directiveBlockParser struct{}

func (*directiveBlockParser) Trigger() []byte { return []byte{':'} }

func (*directiveBlockParser) Open(parent ast.Node, reader text.Reader, pc gparser.Context) (ast.Node, gparser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos >= len(line) || line[pos] != ':' {
		return nil, gparser.NoChildren
	}
	colons := countColons(line[pos:])
	if colons < 2 {
		return nil, gparser.NoChildren
	}
	head, ok := scanDirective(line[pos+colons:])
	if !ok || !util.IsBlank(line[pos+colons+head.consumed:]) {
		return nil, gparser.NoChildren
	}

	start := segment.Start + pos - segment.Padding
	body := start + colons
	node := &BlockDirective{DirectiveData: DirectiveData{
		Name:   head.name,
		Label:  head.label,
		Params: head.attributes,
		fence:  colons,
		start:  start,
		stop:   body + head.consumed,
	}}
	reader.Advance(segment.Len() - 1)

	if colons == 2 {
		node.Variant = mdast.LeafDirective
		if head.hasLabel {
			node.Lines().Append(text.NewSegment(body+head.labelStart, body+head.labelStop))
		}
		return node, gparser.NoChildren
	}
	node.Variant = mdast.ContainerDirective
	return node, gparser.HasChildren
}

func (*directiveBlockParser) Continue(node ast.Node, reader text.Reader, pc gparser.Context) gparser.State {
	d := node.(*BlockDirective)
	if d.Variant == mdast.LeafDirective {
		return gparser.Close
	}

	line, segment := reader.PeekLine()
	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w < 4 && pos < len(line) {
		colons := countColons(line[pos:])
		if colons >= d.fence && util.IsBlank(line[pos+colons:]) {
			newline := 1
			if line[len(line)-1] != '\n' {
				newline = 0
			}
			d.stop = segment.Start + pos + colons - segment.Padding
			reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
			return gparser.Close
		}
	}
	return gparser.Continue | gparser.HasChildren
}

func (*directiveBlockParser) Close(ast.Node, text.Reader, gparser.Context) {}

func (*directiveBlockParser) CanInterruptParagraph() bool { return true }
func (*directiveBlockParser) CanAcceptIndentedLine() bool { return false }

type textDirectiveParser struct{}

func (*textDirectiveParser) Trigger() []byte { return []byte{':'} }

// Parse accepts `:name[label]`, `:name{attrs}` or both. A bare `:name` is
// left as text so prose such as "note:this" survives.
func (*textDirectiveParser) Parse(parent ast.Node, block text.Reader, pc gparser.Context) ast.Node {
	if prev := block.PrecendingCharacter(); prev == ':' || unicode.IsLetter(prev) || unicode.IsDigit(prev) {
		return nil
	}
	line, segment := block.PeekLine()
	if len(line) < 2 || line[1] == ':' {
		return nil
	}
	head, ok := scanDirective(line[1:])
	if !ok || (!head.hasLabel && !head.hasAttributes) {
		return nil
	}

	body := segment.Start + 1
	node := &TextDirective{DirectiveData: DirectiveData{
		Variant: mdast.TextDirective,
		Name:    head.name,
		Label:   head.label,
		Params:  head.attributes,
		start:   segment.Start,
		stop:    body + head.consumed,
	}}
	if head.hasLabel && head.labelStop > head.labelStart {
		node.AppendChild(node, ast.NewTextSegment(text.NewSegment(body+head.labelStart, body+head.labelStop)))
	}
	block.Advance(1 + head.consumed)
	return node
}

func countColons(line []byte) int {
	n := 0
	for n < len(line) && line[n] == ':' {
		n++
	}
	return n
}

type directiveHead struct {
	name          string
	label         string
	hasLabel      bool
	labelStart    int
	labelStop     int
	attributes    map[string]string
	hasAttributes bool
	consumed      int
}

// scanDirective reads `name[label]{attrs}` from the start of b. Offsets in
// the result are relative to b.
func scanDirective(b []byte) (directiveHead, bool) {
	var head directiveHead
	i := 0
	if i >= len(b) || !isASCIILetter(b[i]) {
		return head, false
	}
	for i < len(b) && isNameByte(b[i]) {
		i++
	}
	head.name = string(b[:i])

	if i < len(b) && b[i] == '[' {
		stop, ok := matchBracket(b, i)
		if !ok {
			return head, false
		}
		head.hasLabel = true
		head.labelStart, head.labelStop = i+1, stop
		head.label = string(b[i+1 : stop])
		i = stop + 1
	}

	if i < len(b) && b[i] == '{' {
		stop, ok := matchBrace(b, i)
		if !ok {
			return head, false
		}
		attrs, ok := parseAttributes(string(b[i+1 : stop]))
		if !ok {
			return head, false
		}
		head.hasAttributes = true
		head.attributes = attrs
		i = stop + 1
	}

	head.consumed = i
	return head, true
}

func matchBracket(b []byte, open int) (int, bool) {
	depth := 0
	for i := open; i < len(b); i++ {
		switch b[i] {
		case '\\':
			i++
		case '\n':
			return 0, false
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func matchBrace(b []byte, open int) (int, bool) {
	var quote byte
	for i := open + 1; i < len(b); i++ {
		c := b[i]
		switch {
		case c == '\n':
			return 0, false
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '}':
			return i, true
		}
	}
	return 0, false
}

// parseAttributes reads `#id .class key=value key="quoted" flag`. Classes
// accumulate into a single space separated "class" value.
func parseAttributes(s string) (map[string]string, bool) {
	attrs := map[string]string{}
	var classes []string

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
			continue
		case c == '#' || c == '.':
			j := i + 1
			for j < len(s) && isValueByte(s[j]) {
				j++
			}
			if j == i+1 {
				return nil, false
			}
			if c == '#' {
				attrs["id"] = s[i+1 : j]
			} else {
				classes = append(classes, s[i+1:j])
			}
			i = j
			continue
		}

		j := i
		for j < len(s) && isKeyByte(s[j]) {
			j++
		}
		if j == i {
			return nil, false
		}
		key := s[i:j]
		if j >= len(s) || s[j] != '=' {
			attrs[key] = ""
			i = j
			continue
		}

		j++
		if j < len(s) && (s[j] == '"' || s[j] == '\'') {
			end := strings.IndexByte(s[j+1:], s[j])
			if end < 0 {
				return nil, false
			}
			attrs[key] = s[j+1 : j+1+end]
			i = j + end + 2
			continue
		}
		k := j
		for k < len(s) && s[k] != ' ' && s[k] != '\t' {
			k++
		}
		attrs[key] = s[j:k]
		i = k
	}

	if len(classes) > 0 {
		if existing := attrs["class"]; existing != "" {
			classes = append([]string{existing}, classes...)
		}
		attrs["class"] = strings.Join(classes, " ")
	}
	return attrs, true
}

func isASCIILetter(c byte) bool { return (c|0x20) >= 'a' && (c|0x20) <= 'z' }
func isDigit(c byte) bool       { return c >= '0' && c <= '9' }
func isNameByte(c byte) bool    { return isASCIILetter(c) || isDigit(c) || c == '-' || c == '_' }
func isKeyByte(c byte) bool     { return isNameByte(c) || c == ':' || c == '.' }

func isValueByte(c byte) bool {
	return c != ' ' && c != '\t' && c != '#' && c != '.' && c != '"' && c != '\'' && c != '='
}
