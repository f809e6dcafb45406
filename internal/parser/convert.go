package parser

import (
	"bytes"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	gparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-markview/pkg/mdast"
)

type converter struct {
	source    []byte
	lines     lineIndex
	footnotes map[int]string
}

func newConverter(source []byte) *converter {
	return &converter{
		source:    source,
		lines:     newLineIndex(source),
		footnotes: map[int]string{},
	}
}

// document converts a goldmark document. Footnote definitions, which goldmark
// gathers into a trailing list and prunes when unreferenced, are taken from the
// parse context and restored to source order. Link reference definitions,
// which goldmark keeps only in the parse context, are appended after them.
func (c *converter) document(doc ast.Node, pc gparser.Context) *mdast.Root {
	recorded := recordedFootnotes(pc)
	for _, note := range recorded {
		if note.Index >= 0 {
			c.footnotes[note.Index] = string(note.Ref)
		}
	}

	root := &mdast.Root{Base: mdast.Base{Position: c.lines.span(0, len(c.source))}}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		root.Children = append(root.Children, c.node(n)...)
	}

	notes := make([]mdast.Node, 0, len(recorded))
	for _, note := range recorded {
		notes = append(notes, c.node(note)...)
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return startOffset(notes[i]) < startOffset(notes[j])
	})
	root.Children = append(root.Children, notes...)
	root.Children = append(root.Children, c.definitions(pc)...)
	return root
}

func (c *converter) definitions(pc gparser.Context) []mdast.Node {
	refs := pc.References()
	sort.SliceStable(refs, func(i, j int) bool {
		return bytes.Compare(refs[i].Label(), refs[j].Label()) < 0
	})

	out := make([]mdast.Node, 0, len(refs))
	for _, ref := range refs {
		label := string(ref.Label())
		def := &mdast.Definition{
			Identifier: strings.ToLower(mdast.NormalizeIdentifier(label)),
			Label:      label,
			URL:        c.unescape(ref.Destination()),
		}
		if title := ref.Title(); len(title) > 0 {
			value := c.unescape(title)
			def.Title = &value
		}
		out = append(out, def)
	}
	return out
}

func (c *converter) children(n ast.Node) []mdast.Node {
	var out []mdast.Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, c.node(child)...)
	}
	return mergeText(out)
}

func (c *converter) node(n ast.Node) []mdast.Node {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		children := c.children(n)
		if len(children) == 0 && n.Lines().Len() == 0 {
			// left behind once goldmark lifts out its reference definitions
			return nil
		}
		return one(&mdast.Paragraph{Base: c.base(n, children), Children: children})
	case *ast.Heading:
		children := c.children(n)
		return one(&mdast.Heading{Base: c.base(n, children), Depth: n.Level, Children: children})
	case *ast.ThematicBreak:
		return one(&mdast.ThematicBreak{Base: c.base(n, nil)})
	case *ast.Blockquote:
		children := c.children(n)
		return one(&mdast.Blockquote{Base: c.base(n, children), Children: children})
	case *ast.List:
		return one(c.list(n))
	case *ast.ListItem:
		return one(c.listItem(n, false))
	case *ast.FencedCodeBlock:
		return one(c.fencedCode(n))
	case *ast.CodeBlock:
		return one(&mdast.Code{Base: c.base(n, nil), Value: c.blockValue(n)})
	case *ast.HTMLBlock:
		value := c.rawLines(n)
		if n.HasClosure() {
			value += string(n.ClosureLine.Value(c.source))
		}
		return one(&mdast.HTML{Base: c.base(n, nil), Value: strings.TrimRight(value, "\n")})
	case *ast.Text:
		return c.text(n)
	case *ast.String:
		return one(&mdast.Text{Value: string(n.Value)})
	case *ast.CodeSpan:
		return one(c.codeSpan(n))
	case *ast.Emphasis:
		children := c.children(n)
		if n.Level >= 2 {
			return one(&mdast.Strong{Base: spanOf(children), Children: children})
		}
		return one(&mdast.Emphasis{Base: spanOf(children), Children: children})
	case *ast.Link:
		children := c.children(n)
		return one(&mdast.Link{
			Base:     spanOf(children),
			URL:      c.unescape(n.Destination),
			Title:    c.optional(n.Title),
			Children: children,
		})
	case *ast.Image:
		alt := c.plainText(n)
		children := c.children(n)
		return one(&mdast.Image{
			Base:  spanOf(children),
			URL:   c.unescape(n.Destination),
			Title: c.optional(n.Title),
			Alt:   &alt,
		})
	case *ast.AutoLink:
		return one(&mdast.Link{
			URL:      string(n.URL(c.source)),
			Children: []mdast.Node{&mdast.Text{Value: string(n.Label(c.source))}},
		})
	case *ast.RawHTML:
		return one(c.rawHTML(n))
	case *east.Table:
		return one(c.table(n))
	case *east.TableHeader:
		children := c.children(n)
		return one(&mdast.TableRow{Base: spanOf(children), Children: children})
	case *east.TableRow:
		children := c.children(n)
		return one(&mdast.TableRow{Base: spanOf(children), Children: children})
	case *east.TableCell:
		children := c.children(n)
		return one(&mdast.TableCell{Base: c.base(n, children), Children: children})
	case *east.Strikethrough:
		children := c.children(n)
		return one(&mdast.Delete{Base: spanOf(children), Children: children})
	case *east.TaskCheckBox, *east.FootnoteBacklink, *east.FootnoteList:
		return nil
	case *east.FootnoteLink:
		label := c.footnotes[n.Index]
		return one(&mdast.FootnoteReference{
			Identifier: strings.ToLower(mdast.NormalizeIdentifier(label)),
			Label:      label,
		})
	case *east.Footnote:
		children := trimTrailingSpace(c.children(n))
		label := string(n.Ref)
		return one(&mdast.FootnoteDefinition{
			Base:       spanOf(children),
			Identifier: strings.ToLower(mdast.NormalizeIdentifier(label)),
			Label:      label,
			Children:   children,
		})
	case *BlockDirective:
		return one(c.directive(n, &n.DirectiveData))
	case *TextDirective:
		return one(c.directive(n, &n.DirectiveData))
	default:
		children := c.children(n)
		return one(&mdast.Unknown{
			Base:     c.base(n, children),
			Type:     lowerFirst(n.Kind().String()),
			Children: children,
		})
	}
}

func (c *converter) list(n *ast.List) *mdast.List {
	list := &mdast.List{Ordered: n.IsOrdered(), Spread: !n.IsTight}
	if list.Ordered {
		start := n.Start
		list.Start = &start
	}
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		if li, ok := item.(*ast.ListItem); ok {
			list.Children = append(list.Children, c.listItem(li, !n.IsTight))
			continue
		}
		list.Children = append(list.Children, c.node(item)...)
	}
	list.Base = spanOf(list.Children)
	return list
}

func (c *converter) listItem(n *ast.ListItem, spread bool) *mdast.ListItem {
	item := &mdast.ListItem{Spread: &spread, Children: c.children(n)}
	if box := taskCheckBox(n); box != nil {
		checked := box.IsChecked
		item.Checked = &checked
		if len(item.Children) > 0 {
			if p, ok := item.Children[0].(*mdast.Paragraph); ok {
				p.Children = trimLeadingSpace(p.Children)
			}
		}
	}
	item.Base = spanOf(item.Children)
	return item
}

func taskCheckBox(n *ast.ListItem) *east.TaskCheckBox {
	first := n.FirstChild()
	if first == nil {
		return nil
	}
	box, _ := first.FirstChild().(*east.TaskCheckBox)
	return box
}

func (c *converter) fencedCode(n *ast.FencedCodeBlock) *mdast.Code {
	code := &mdast.Code{Base: c.base(n, nil), Value: c.blockValue(n)}
	if n.Info == nil {
		return code
	}
	info := strings.TrimSpace(c.unescape(n.Info.Segment.Value(c.source)))
	if info == "" {
		return code
	}
	lang, meta, _ := strings.Cut(info, " ")
	code.Lang = &lang
	if meta = strings.TrimSpace(meta); meta != "" {
		code.Meta = &meta
	}
	return code
}

func (c *converter) blockValue(n ast.Node) string {
	return strings.TrimSuffix(c.rawLines(n), "\n")
}

func (c *converter) rawLines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(c.source))
	}
	return b.String()
}

func (c *converter) text(n *ast.Text) []mdast.Node {
	raw := n.Segment.Value(c.source)
	value := string(raw)
	if !n.IsRaw() {
		value = c.unescape(raw)
	}
	if n.SoftLineBreak() {
		value += "\n"
	}
	out := []mdast.Node{&mdast.Text{
		Base:  mdast.Base{Position: c.lines.span(n.Segment.Start, n.Segment.Stop)},
		Value: value,
	}}
	if n.HardLineBreak() {
		out = append(out, &mdast.Break{
			Base: mdast.Base{Position: c.lines.span(n.Segment.Stop, n.Segment.Stop)},
		})
	}
	return out
}

func (c *converter) codeSpan(n *ast.CodeSpan) *mdast.InlineCode {
	var b strings.Builder
	start, stop := -1, -1
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(c.source))
			if start < 0 {
				start = t.Segment.Start
			}
			stop = t.Segment.Stop
		case *ast.String:
			b.Write(t.Value)
		}
	}
	code := &mdast.InlineCode{Value: strings.ReplaceAll(b.String(), "\n", " ")}
	if start >= 0 {
		code.Position = c.lines.span(start, stop)
	}
	return code
}

func (c *converter) rawHTML(n *ast.RawHTML) *mdast.HTML {
	var b strings.Builder
	for i := 0; i < n.Segments.Len(); i++ {
		segment := n.Segments.At(i)
		b.Write(segment.Value(c.source))
	}
	html := &mdast.HTML{Value: b.String()}
	if n.Segments.Len() > 0 {
		html.Position = c.lines.span(n.Segments.At(0).Start, n.Segments.At(n.Segments.Len()-1).Stop)
	}
	return html
}

func (c *converter) table(n *east.Table) *mdast.Table {
	table := &mdast.Table{Align: make([]mdast.Align, len(n.Alignments)), Children: c.children(n)}
	for i, align := range n.Alignments {
		switch align {
		case east.AlignLeft:
			table.Align[i] = mdast.AlignLeft
		case east.AlignRight:
			table.Align[i] = mdast.AlignRight
		case east.AlignCenter:
			table.Align[i] = mdast.AlignCenter
		default:
			table.Align[i] = mdast.AlignNone
		}
	}
	table.Base = spanOf(table.Children)
	return table
}

func (c *converter) directive(n ast.Node, data *DirectiveData) *mdast.Directive {
	children := c.children(n)
	d := &mdast.Directive{
		Variant:    data.Variant,
		Name:       data.Name,
		Label:      data.Label,
		Attributes: data.Params,
		Children:   children,
	}
	if data.stop > data.start {
		d.Position = c.lines.span(data.start, data.stop)
	} else {
		d.Base = spanOf(children)
	}
	return d
}

// plainText concatenates the text content below n, as used for image alt.
func (c *converter) plainText(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			b.WriteString(c.unescape(t.Segment.Value(c.source)))
			if t.SoftLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func (c *converter) unescape(raw []byte) string {
	return string(util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(raw))))
}

func (c *converter) optional(raw []byte) *string {
	if len(raw) == 0 {
		return nil
	}
	value := c.unescape(raw)
	return &value
}

// base positions a block from its source lines, falling back to the span
// of its converted children.
func (c *converter) base(n ast.Node, children []mdast.Node) mdast.Base {
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			start := lines.At(0).Start
			stop := trimNewline(c.source, lines.At(lines.Len()-1).Stop)
			return mdast.Base{Position: c.lines.span(start, stop)}
		}
	}
	return spanOf(children)
}

func spanOf(children []mdast.Node) mdast.Base {
	var start, end *mdast.Point
	for _, child := range children {
		if pos := child.Pos(); pos != nil {
			if start == nil {
				start = &pos.Start
			}
			end = &pos.End
		}
	}
	if start == nil {
		return mdast.Base{}
	}
	return mdast.Base{Position: &mdast.Position{Start: *start, End: *end}}
}

func startOffset(n mdast.Node) int {
	if pos := n.Pos(); pos != nil {
		return pos.Start.Offset
	}
	return int(^uint(0) >> 1)
}

func one(n mdast.Node) []mdast.Node { return []mdast.Node{n} }

// mergeText joins adjacent text runs, which goldmark splits around
// delimiters that did not pair up.
func mergeText(nodes []mdast.Node) []mdast.Node {
	out := nodes[:0]
	for _, n := range nodes {
		text, ok := n.(*mdast.Text)
		if !ok {
			out = append(out, n)
			continue
		}
		if len(out) > 0 {
			if prev, ok := out[len(out)-1].(*mdast.Text); ok {
				prev.Value += text.Value
				switch {
				case prev.Position == nil:
					prev.Position = text.Position
				case text.Position != nil:
					prev.Position = &mdast.Position{Start: prev.Position.Start, End: text.Position.End}
				}
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

func trimLeadingSpace(nodes []mdast.Node) []mdast.Node {
	if len(nodes) == 0 {
		return nodes
	}
	if text, ok := nodes[0].(*mdast.Text); ok {
		text.Value = strings.TrimLeftFunc(text.Value, unicode.IsSpace)
		if text.Value == "" {
			return nodes[1:]
		}
	}
	return nodes
}

// trimTrailingSpace drops the whitespace goldmark leaves before the
// backlinks it appends to a footnote's last paragraph.
func trimTrailingSpace(nodes []mdast.Node) []mdast.Node {
	if len(nodes) == 0 {
		return nodes
	}
	if p, ok := nodes[len(nodes)-1].(*mdast.Paragraph); ok && len(p.Children) > 0 {
		if text, ok := p.Children[len(p.Children)-1].(*mdast.Text); ok {
			text.Value = strings.TrimRightFunc(text.Value, unicode.IsSpace)
		}
	}
	return nodes
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
