// Package view defines the host neutral view tree produced by the
// projection engine: elements bound to a renderable unit, text runs and
// provider scopes. Hosts either consume the tree as is or expand components
// into plain tag elements with Expand.
package view

import (
	"fmt"
	"sort"
)

// Node is an element, a text run or a provider scope.
type Node interface {
	viewNode()
}

// Text is a literal text run.
type Text string

func (Text) viewNode() {}

// Props is the property bag handed to a unit. Keys with nil values mean
// "not specified" and are distinct from empty values.
type Props map[string]any

// Has reports whether the key is present with a non-nil value.
func (p Props) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// String returns the value for key when it is a string or *string.
func (p Props) String(key string) (string, bool) {
	switch v := p[key].(type) {
	case string:
		return v, true
	case *string:
		if v != nil {
			return *v, true
		}
	}
	return "", false
}

// Int returns the value for key when it is an int or *int.
func (p Props) Int(key string) (int, bool) {
	switch v := p[key].(type) {
	case int:
		return v, true
	case *int:
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}

// Bool returns the value for key when it is a bool or *bool.
func (p Props) Bool(key string) (bool, bool) {
	switch v := p[key].(type) {
	case bool:
		return v, true
	case *bool:
		if v != nil {
			return *v, true
		}
	}
	return false, false
}

// Keys returns the property names in sorted order.
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Slots holds named child regions, e.g. a table's head and body.
type Slots map[string][]Node

// Element is a view node bound to a unit.
type Element struct {
	Unit     Unit
	Props    Props
	Children []Node
	Slots    Slots
}

func (*Element) viewNode() {}

// Slot returns the named region, or nil.
func (e *Element) Slot(name string) []Node {
	if e == nil || e.Slots == nil {
		return nil
	}
	return e.Slots[name]
}

type unitKind uint8

const (
	unitAbsent unitKind = iota
	unitTag
	unitComponent
	unitSuppressed
)

// Unit is what renders a node: a tag name, a component, or the explicit
// "render nothing" sentinel. The zero Unit means no unit was registered.
type Unit struct {
	kind      unitKind
	tag       string
	component Component
}

// Tag returns a unit that renders a generic element with the given name.
func Tag(name string) Unit {
	return Unit{kind: unitTag, tag: name}
}

// Use returns a unit backed by a component.
func Use(c Component) Unit {
	if c == nil {
		return Unit{}
	}
	return Unit{kind: unitComponent, component: c}
}

// Suppress returns the explicit null unit.
func Suppress() Unit {
	return Unit{kind: unitSuppressed}
}

func (u Unit) IsZero() bool       { return u.kind == unitAbsent }
func (u Unit) IsTag() bool        { return u.kind == unitTag }
func (u Unit) IsComponent() bool  { return u.kind == unitComponent }
func (u Unit) IsSuppressed() bool { return u.kind == unitSuppressed }

// TagName returns the tag for tag units and "" otherwise.
func (u Unit) TagName() string { return u.tag }

// Component returns the component for component units and nil otherwise.
func (u Unit) Component() Component { return u.component }

func (u Unit) String() string {
	switch u.kind {
	case unitTag:
		return "tag:" + u.tag
	case unitComponent:
		return "component:" + u.component.Name()
	case unitSuppressed:
		return "suppressed"
	default:
		return "absent"
	}
}

// Footnote is one rendered footnote body handed to footnote containers.
type Footnote struct {
	Identifier string
	Index      int
	Body       []Node
}

func (f Footnote) String() string {
	return fmt.Sprintf("footnote[%d:%s]", f.Index, f.Identifier)
}
