package mdast

import "strings"

// IsParent reports whether the node can hold children.
func IsParent(n Node) bool {
	_, ok := n.(Parent)
	return ok
}

// Children returns the node's children, or nil for leaves.
func Children(n Node) []Node {
	if p, ok := n.(Parent); ok {
		return p.ChildNodes()
	}
	return nil
}

// IsDirective reports whether the node is a container, leaf or text directive.
func IsDirective(n Node) bool {
	_, ok := n.(*Directive)
	return ok
}

// IsText reports whether the node is a plain text leaf.
func IsText(n Node) bool {
	_, ok := n.(*Text)
	return ok
}

// TextContent concatenates the values of every descendant text leaf.
func TextContent(n Node) string {
	if n == nil {
		return ""
	}
	if t, ok := n.(*Text); ok {
		return t.Value
	}
	var b strings.Builder
	writeText(&b, n)
	return b.String()
}

func writeText(b *strings.Builder, n Node) {
	switch node := n.(type) {
	case *Text:
		b.WriteString(node.Value)
	case Parent:
		for _, child := range node.ChildNodes() {
			writeText(b, child)
		}
	}
}

// RawText returns the slice of source a node was parsed from. It returns ""
// when the node carries no position or the offsets fall outside source.
func RawText(source string, n Node) string {
	if n == nil {
		return ""
	}
	pos := n.Pos()
	if pos == nil {
		return ""
	}
	start, end := pos.Start.Offset, pos.End.Offset
	if start < 0 || end > len(source) || start > end {
		return ""
	}
	return source[start:end]
}

// NormalizeIdentifier folds a reference label into its matching key:
// whitespace runs collapse to one space, edges are trimmed and case is
// folded, so `[Foo  Bar]` matches `[foo bar]: /url`.
func NormalizeIdentifier(label string) string {
	collapsed := strings.Join(strings.Fields(label), " ")
	return strings.ToUpper(strings.ToLower(collapsed))
}
