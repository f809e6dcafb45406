// Package htmlhost renders view trees as HTML. It is the reference host:
// components are expanded with view.Expand and the remaining tag elements
// become golang.org/x/net/html nodes.
package htmlhost

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"

	"github.com/goliatone/go-markview/pkg/view"
)

// Renderer writes view trees as HTML.
type Renderer struct {
	prefix string
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithGlobalPrefix provides the namespacing prefix to every component
// rendered below the root.
func WithGlobalPrefix(prefix string) Option {
	return func(r *Renderer) {
		r.prefix = prefix
	}
}

// New builds a renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Render expands nodes and writes them to w. Output of components that
// failed to expand is skipped; their errors are returned after everything
// else was written.
func (r *Renderer) Render(w io.Writer, nodes []view.Node) error {
	ctx := view.NewContext()
	if r.prefix != "" {
		ctx = ctx.Provide(view.GlobalPrefixKey, r.prefix)
	}
	expanded, expandErr := view.Expand(ctx, nodes)

	for _, n := range Nodes(expanded) {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("htmlhost: write: %w", err)
		}
	}
	return expandErr
}

// RenderString is Render into a string.
func (r *Renderer) RenderString(nodes []view.Node) (string, error) {
	var buf bytes.Buffer
	err := r.Render(&buf, nodes)
	return buf.String(), err
}

// Nodes converts an expanded view tree into HTML nodes. Component elements
// left in the tree are skipped.
func Nodes(nodes []view.Node) []*html.Node {
	out := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		switch node := n.(type) {
		case view.Text:
			out = append(out, &html.Node{Type: html.TextNode, Data: string(node)})
		case *view.Scope:
			out = append(out, Nodes(node.Children)...)
		case *view.Element:
			if !node.Unit.IsTag() {
				continue
			}
			el := &html.Node{Type: html.ElementNode, Data: node.Unit.TagName(), Attr: attributes(node.Props)}
			for _, child := range Nodes(node.Children) {
				el.AppendChild(child)
			}
			out = append(out, el)
		}
	}
	return out
}

// attributes maps scalar props to attributes in key order. False booleans
// and nil values are omitted; true booleans become empty attributes.
func attributes(props view.Props) []html.Attribute {
	if len(props) == 0 {
		return nil
	}
	attrs := make([]html.Attribute, 0, len(props))
	for _, key := range props.Keys() {
		value, ok := attributeValue(props[key])
		if !ok {
			continue
		}
		attrs = append(attrs, html.Attribute{Key: key, Val: value})
	}
	return attrs
}

func attributeValue(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case *string:
		if val != nil {
			return *val, true
		}
	case int:
		return strconv.Itoa(val), true
	case *int:
		if val != nil {
			return strconv.Itoa(*val), true
		}
	case bool:
		return "", val
	case *bool:
		if val != nil && *val {
			return "", true
		}
	}
	return "", false
}
