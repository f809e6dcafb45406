package view

import (
	"errors"
	"fmt"
)

const maxExpandDepth = 128

// ErrExpandDepth is reported when components keep rendering components
// past the nesting limit, which usually means a component renders itself.
var ErrExpandDepth = errors.New("view: component expansion too deep")

// ErrComponentPanic wraps a panic raised by a component's Render.
var ErrComponentPanic = errors.New("view: component panicked")

// Expand renders every component element into its output until only tag
// elements and text runs remain. Scopes are applied to their subtree and
// dropped; suppressed and absent units render nothing. A failing component
// loses its own output only; the returned error joins every failure.
func Expand(ctx *Context, nodes []Node) ([]Node, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	var errs []error
	out := expand(ctx, nodes, 0, &errs)
	return out, errors.Join(errs...)
}

func expand(ctx *Context, nodes []Node, depth int, errs *[]error) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		switch node := n.(type) {
		case nil:
		case Text:
			out = append(out, node)
		case *Scope:
			out = append(out, expand(ctx.Provide(node.Key, node.Value), node.Children, depth, errs)...)
		case *Element:
			switch {
			case node.Unit.IsComponent():
				if depth >= maxExpandDepth {
					*errs = append(*errs, fmt.Errorf("%w: %s", ErrExpandDepth, node.Unit.Component().Name()))
					continue
				}
				rendered, err := renderComponent(ctx, node)
				if err != nil {
					*errs = append(*errs, err)
					continue
				}
				out = append(out, expand(ctx, rendered, depth+1, errs)...)
			case node.Unit.IsTag():
				out = append(out, &Element{
					Unit:     node.Unit,
					Props:    node.Props,
					Children: expand(ctx, node.Children, depth, errs),
				})
			}
		}
	}
	return out
}

func renderComponent(ctx *Context, el *Element) (nodes []Node, err error) {
	component := el.Unit.Component()
	defer func() {
		if r := recover(); r != nil {
			nodes = nil
			err = fmt.Errorf("%w: %s: %v", ErrComponentPanic, component.Name(), r)
		}
	}()
	return component.Render(ctx, el), nil
}
