package view

// Component is a registered renderable unit. Render expands an element
// bound to the component into lower level nodes; hosts call it lazily.
type Component interface {
	Name() string
	Render(ctx *Context, el *Element) []Node
}

// RenderFunc is the signature of a component body.
type RenderFunc func(ctx *Context, el *Element) []Node

type funcComponent struct {
	name   string
	render RenderFunc
}

// NewComponent wraps a render function into a named Component.
func NewComponent(name string, render RenderFunc) Component {
	return &funcComponent{name: name, render: render}
}

func (c *funcComponent) Name() string { return c.name }

func (c *funcComponent) Render(ctx *Context, el *Element) []Node {
	if c.render == nil {
		return nil
	}
	return c.render(ctx, el)
}

// Factory is the host capability used by the projection engine to build
// view nodes.
type Factory interface {
	Element(unit Unit, props Props, children []Node) Node
	Slotted(unit Unit, props Props, slots Slots) Node
}

// DefaultFactory builds plain *Element values.
type DefaultFactory struct{}

func (DefaultFactory) Element(unit Unit, props Props, children []Node) Node {
	return &Element{Unit: unit, Props: props, Children: children}
}

func (DefaultFactory) Slotted(unit Unit, props Props, slots Slots) Node {
	return &Element{Unit: unit, Props: props, Slots: slots}
}

var _ Factory = DefaultFactory{}

type contextKey string

// GlobalPrefixKey is the key under which the namespacing prefix for
// generated element identifiers is provided.
const GlobalPrefixKey contextKey = "globalPrefix"

// DefaultGlobalPrefix is used when no prefix was provided.
const DefaultGlobalPrefix = "vuemark"

// Context is an immutable chain of provided values visible to every
// component rendered below the point where they were provided.
type Context struct {
	parent *Context
	key    any
	value  any
}

// NewContext returns an empty context.
func NewContext() *Context {
	return &Context{}
}

// Provide returns a child context carrying key=value.
func (c *Context) Provide(key, value any) *Context {
	return &Context{parent: c, key: key, value: value}
}

// Value looks up the nearest provided value for key.
func (c *Context) Value(key any) (any, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.key != nil && cur.key == key {
			return cur.value, true
		}
	}
	return nil, false
}

// GlobalPrefix returns the provided namespacing prefix or the default.
func GlobalPrefix(ctx *Context) string {
	if ctx != nil {
		if v, ok := ctx.Value(GlobalPrefixKey); ok {
			if prefix, ok := v.(string); ok && prefix != "" {
				return prefix
			}
		}
	}
	return DefaultGlobalPrefix
}

// Scope provides a value to its children and renders nothing itself.
type Scope struct {
	Key      any
	Value    any
	Children []Node
}

func (*Scope) viewNode() {}

// Provide wraps children in a Scope.
func Provide(key, value any, children ...Node) *Scope {
	return &Scope{Key: key, Value: value, Children: children}
}
