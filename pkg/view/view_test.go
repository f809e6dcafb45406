package view

import (
	"errors"
	"testing"
)

func TestUnitKinds(t *testing.T) {
	comp := NewComponent("demo", nil)

	tests := []struct {
		name       string
		unit       Unit
		zero       bool
		tag        bool
		component  bool
		suppressed bool
	}{
		{"absent", Unit{}, true, false, false, false},
		{"tag", Tag("p"), false, true, false, false},
		{"component", Use(comp), false, false, true, false},
		{"nil component", Use(nil), true, false, false, false},
		{"suppressed", Suppress(), false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.unit.IsZero() != tt.zero || tt.unit.IsTag() != tt.tag ||
				tt.unit.IsComponent() != tt.component || tt.unit.IsSuppressed() != tt.suppressed {
				t.Fatalf("unexpected classification for %s", tt.unit)
			}
		})
	}

	if Tag("em").TagName() != "em" {
		t.Fatalf("TagName() mismatch")
	}
}

func TestPropsAccessors(t *testing.T) {
	title := "T"
	start := 3
	props := Props{"title": &title, "start": &start, "missing": (*string)(nil), "flag": true}

	if v, ok := props.String("title"); !ok || v != "T" {
		t.Fatalf("String() = %q, %v", v, ok)
	}
	if _, ok := props.String("missing"); ok {
		t.Fatalf("expected nil pointer to be reported as unset")
	}
	if v, ok := props.Int("start"); !ok || v != 3 {
		t.Fatalf("Int() = %d, %v", v, ok)
	}
	if v, ok := props.Bool("flag"); !ok || !v {
		t.Fatalf("Bool() = %v, %v", v, ok)
	}
	if props.Has("nothing") {
		t.Fatalf("Has() reported an absent key")
	}
}

func TestContextProvideShadows(t *testing.T) {
	ctx := NewContext()
	if got := GlobalPrefix(ctx); got != DefaultGlobalPrefix {
		t.Fatalf("GlobalPrefix() default = %q", got)
	}

	outer := ctx.Provide(GlobalPrefixKey, "outer")
	inner := outer.Provide(GlobalPrefixKey, "inner")
	if got := GlobalPrefix(inner); got != "inner" {
		t.Fatalf("GlobalPrefix(inner) = %q", got)
	}
	if got := GlobalPrefix(outer); got != "outer" {
		t.Fatalf("GlobalPrefix(outer) = %q", got)
	}
}

func TestExpandAppliesScopesAndComponents(t *testing.T) {
	prefixed := NewComponent("prefixed", func(ctx *Context, el *Element) []Node {
		return []Node{&Element{
			Unit:     Tag("span"),
			Props:    Props{"id": GlobalPrefix(ctx) + "-x"},
			Children: el.Children,
		}}
	})

	tree := []Node{
		Provide(GlobalPrefixKey, "docs",
			&Element{Unit: Use(prefixed), Children: []Node{Text("hi")}},
			&Element{Unit: Suppress()},
		),
	}

	out, err := Expand(nil, tree)
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected one node, got %d", len(out))
	}
	span, ok := out[0].(*Element)
	if !ok || span.Unit.TagName() != "span" {
		t.Fatalf("expected span element, got %#v", out[0])
	}
	if id, _ := span.Props.String("id"); id != "docs-x" {
		t.Fatalf("expected scoped prefix in id, got %q", id)
	}
	if len(span.Children) != 1 || span.Children[0] != Text("hi") {
		t.Fatalf("expected children to pass through, got %#v", span.Children)
	}
}

func TestExpandRecoversComponentPanics(t *testing.T) {
	bad := NewComponent("bad", func(*Context, *Element) []Node {
		panic("kaboom")
	})
	var loop Component
	loop = NewComponent("loop", func(ctx *Context, el *Element) []Node {
		return []Node{&Element{Unit: Use(loop)}}
	})

	out, err := Expand(NewContext(), []Node{
		Text("before"),
		&Element{Unit: Use(bad)},
		&Element{Unit: Use(loop)},
		Text("after"),
	})
	if !errors.Is(err, ErrComponentPanic) {
		t.Fatalf("expected ErrComponentPanic, got %v", err)
	}
	if !errors.Is(err, ErrExpandDepth) {
		t.Fatalf("expected ErrExpandDepth, got %v", err)
	}
	if len(out) != 2 || out[0] != Text("before") || out[1] != Text("after") {
		t.Fatalf("expected surrounding nodes to survive, got %#v", out)
	}
}
