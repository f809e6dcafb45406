// Package mdast models the Markdown syntax tree consumed by the projection
// engine. The vocabulary follows mdast (CommonMark, GFM, footnotes,
// frontmatter and directives) and is closed: every node is one of the
// concrete types declared here, with Unknown as the forward compatible
// escape hatch for node types a parser may add later.
package mdast

// Kind is the mdast type name of a node.
type Kind string

const (
	KindRoot               Kind = "root"
	KindParagraph          Kind = "paragraph"
	KindHeading            Kind = "heading"
	KindThematicBreak      Kind = "thematicBreak"
	KindBlockquote         Kind = "blockquote"
	KindList               Kind = "list"
	KindListItem           Kind = "listItem"
	KindTable              Kind = "table"
	KindTableRow           Kind = "tableRow"
	KindTableCell          Kind = "tableCell"
	KindHTML               Kind = "html"
	KindCode               Kind = "code"
	KindYAML               Kind = "yaml"
	KindTOML               Kind = "toml"
	KindDefinition         Kind = "definition"
	KindFootnoteDefinition Kind = "footnoteDefinition"
	KindText               Kind = "text"
	KindEmphasis           Kind = "emphasis"
	KindStrong             Kind = "strong"
	KindDelete             Kind = "delete"
	KindInlineCode         Kind = "inlineCode"
	KindBreak              Kind = "break"
	KindLink               Kind = "link"
	KindImage              Kind = "image"
	KindLinkReference      Kind = "linkReference"
	KindImageReference     Kind = "imageReference"
	KindFootnoteReference  Kind = "footnoteReference"
	KindContainerDirective Kind = "containerDirective"
	KindLeafDirective      Kind = "leafDirective"
	KindTextDirective      Kind = "textDirective"
)

// Extension kinds carried by Unknown nodes.
const (
	KindDefinitionList        Kind = "definitionList"
	KindDefinitionTerm        Kind = "definitionTerm"
	KindDefinitionDescription Kind = "definitionDescription"
)

// String returns the mdast type name.
func (k Kind) String() string { return string(k) }

// Point is a place in the source document. Line and Column are 1-based,
// Offset is a 0-based byte offset.
type Point struct {
	Line   int
	Column int
	Offset int
}

// Position is the source span a node was parsed from.
type Position struct {
	Start Point
	End   Point
}

// Node is implemented by every type in this package and nothing else.
type Node interface {
	Kind() Kind
	Pos() *Position
	mdastNode()
}

// Parent is a node with an ordered list of children.
type Parent interface {
	Node
	ChildNodes() []Node
}

// Base carries the fields shared by every node.
type Base struct {
	Position *Position
}

// Pos returns the source position, or nil when the parser did not record one.
func (b Base) Pos() *Position { return b.Position }

func (Base) mdastNode() {}

// Align is the alignment of a table column.
type Align string

const (
	AlignNone   Align = ""
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
	AlignCenter Align = "center"
)

// ReferenceType tells how a reference was written in the source.
type ReferenceType string

const (
	ReferenceShortcut  ReferenceType = "shortcut"
	ReferenceCollapsed ReferenceType = "collapsed"
	ReferenceFull      ReferenceType = "full"
)

// DirectiveVariant selects between the three directive scopes.
type DirectiveVariant string

const (
	ContainerDirective DirectiveVariant = DirectiveVariant(KindContainerDirective)
	LeafDirective      DirectiveVariant = DirectiveVariant(KindLeafDirective)
	TextDirective      DirectiveVariant = DirectiveVariant(KindTextDirective)
)

type Root struct {
	Base
	Children []Node
}

func (*Root) Kind() Kind           { return KindRoot }
func (n *Root) ChildNodes() []Node { return n.Children }

type Paragraph struct {
	Base
	Children []Node
}

func (*Paragraph) Kind() Kind           { return KindParagraph }
func (n *Paragraph) ChildNodes() []Node { return n.Children }

type Heading struct {
	Base
	Depth    int
	Children []Node
}

func (*Heading) Kind() Kind           { return KindHeading }
func (n *Heading) ChildNodes() []Node { return n.Children }

type ThematicBreak struct {
	Base
}

func (*ThematicBreak) Kind() Kind { return KindThematicBreak }

type Blockquote struct {
	Base
	Children []Node
}

func (*Blockquote) Kind() Kind           { return KindBlockquote }
func (n *Blockquote) ChildNodes() []Node { return n.Children }

// List is an ordered or bullet list. Start is nil for bullet lists and for
// ordered lists whose parser did not record a start number.
type List struct {
	Base
	Ordered  bool
	Start    *int
	Spread   bool
	Children []Node
}

func (*List) Kind() Kind           { return KindList }
func (n *List) ChildNodes() []Node { return n.Children }

// ListItem is a list entry. Checked is non-nil for GFM task items. Spread
// is nil when the parser left it unspecified.
type ListItem struct {
	Base
	Checked  *bool
	Spread   *bool
	Children []Node
}

func (*ListItem) Kind() Kind           { return KindListItem }
func (n *ListItem) ChildNodes() []Node { return n.Children }

type Table struct {
	Base
	Align    []Align
	Children []Node
}

func (*Table) Kind() Kind           { return KindTable }
func (n *Table) ChildNodes() []Node { return n.Children }

type TableRow struct {
	Base
	Children []Node
}

func (*TableRow) Kind() Kind           { return KindTableRow }
func (n *TableRow) ChildNodes() []Node { return n.Children }

type TableCell struct {
	Base
	Children []Node
}

func (*TableCell) Kind() Kind           { return KindTableCell }
func (n *TableCell) ChildNodes() []Node { return n.Children }

// HTML is raw markup found in the source.
type HTML struct {
	Base
	Value string
}

func (*HTML) Kind() Kind { return KindHTML }

// Code is a fenced or indented code block.
type Code struct {
	Base
	Lang  *string
	Meta  *string
	Value string
}

func (*Code) Kind() Kind { return KindCode }

// Frontmatter holds the raw metadata block at the top of a document. Format
// is "yaml" unless the parser recognised another syntax. Data is the
// decoded block when the parser could decode it.
type Frontmatter struct {
	Base
	Format string
	Value  string
	Data   map[string]any
}

func (n *Frontmatter) Kind() Kind {
	if n.Format == string(KindTOML) {
		return KindTOML
	}
	return KindYAML
}

// Definition is a link reference definition, e.g. `[id]: https://x "T"`.
type Definition struct {
	Base
	Identifier string
	Label      string
	URL        string
	Title      *string
}

func (*Definition) Kind() Kind { return KindDefinition }

type FootnoteDefinition struct {
	Base
	Identifier string
	Label      string
	Children   []Node
}

func (*FootnoteDefinition) Kind() Kind           { return KindFootnoteDefinition }
func (n *FootnoteDefinition) ChildNodes() []Node { return n.Children }

type Text struct {
	Base
	Value string
}

func (*Text) Kind() Kind { return KindText }

type Emphasis struct {
	Base
	Children []Node
}

func (*Emphasis) Kind() Kind           { return KindEmphasis }
func (n *Emphasis) ChildNodes() []Node { return n.Children }

type Strong struct {
	Base
	Children []Node
}

func (*Strong) Kind() Kind           { return KindStrong }
func (n *Strong) ChildNodes() []Node { return n.Children }

type Delete struct {
	Base
	Children []Node
}

func (*Delete) Kind() Kind           { return KindDelete }
func (n *Delete) ChildNodes() []Node { return n.Children }

type InlineCode struct {
	Base
	Value string
}

func (*InlineCode) Kind() Kind { return KindInlineCode }

type Break struct {
	Base
}

func (*Break) Kind() Kind { return KindBreak }

type Link struct {
	Base
	URL      string
	Title    *string
	Children []Node
}

func (*Link) Kind() Kind           { return KindLink }
func (n *Link) ChildNodes() []Node { return n.Children }

type Image struct {
	Base
	URL   string
	Title *string
	Alt   *string
}

func (*Image) Kind() Kind { return KindImage }

type LinkReference struct {
	Base
	Identifier    string
	Label         string
	ReferenceType ReferenceType
	Children      []Node
}

func (*LinkReference) Kind() Kind           { return KindLinkReference }
func (n *LinkReference) ChildNodes() []Node { return n.Children }

type ImageReference struct {
	Base
	Identifier    string
	Label         string
	ReferenceType ReferenceType
	Alt           *string
}

func (*ImageReference) Kind() Kind { return KindImageReference }

type FootnoteReference struct {
	Base
	Identifier string
	Label      string
}

func (*FootnoteReference) Kind() Kind { return KindFootnoteReference }

// Directive is a generic extension node such as `::youtube{id=x}`. Label
// holds the raw bracketed label; for leaf and text directives its parsed
// inline content is also available as Children.
type Directive struct {
	Base
	Variant    DirectiveVariant
	Name       string
	Label      string
	Attributes map[string]string
	Children   []Node
}

func (n *Directive) Kind() Kind {
	if n.Variant == "" {
		return KindContainerDirective
	}
	return Kind(n.Variant)
}

func (n *Directive) ChildNodes() []Node { return n.Children }

// Unknown carries node types outside the closed vocabulary. It always
// satisfies Parent; leaf nodes simply have no children.
type Unknown struct {
	Base
	Type     string
	Children []Node
	Data     map[string]any
}

func (n *Unknown) Kind() Kind         { return Kind(n.Type) }
func (n *Unknown) ChildNodes() []Node { return n.Children }
