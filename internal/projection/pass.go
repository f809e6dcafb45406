package projection

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-markview/internal/registry"
	"github.com/goliatone/go-markview/pkg/mdast"
	"github.com/goliatone/go-markview/pkg/view"
)

// pass is the state of one projection run. It is created fresh by
// Project and discarded afterwards; the registries are read-only once
// collection has finished.
type pass struct {
	engine      *Engine
	definitions *registry.Definitions
	footnotes   *registry.Footnotes
	slugs       *slugger
	toc         []TOCEntry
	diagnostics []Diagnostic
}

func newPass(e *Engine) *pass {
	return &pass{
		engine:      e,
		definitions: registry.NewDefinitions(),
		footnotes:   registry.NewFootnotes(),
		slugs:       newSlugger(e.slug),
	}
}

func (p *pass) run(root *mdast.Root) *Result {
	result := &Result{}
	if root == nil {
		root = &mdast.Root{}
	}

	for _, child := range root.Children {
		if fm, ok := child.(*mdast.Frontmatter); ok && result.FrontmatterFormat == "" {
			result.Frontmatter = fm.Value
			result.FrontmatterFormat = fm.Format
		}
	}
	p.collect(root)

	result.Nodes = p.renderChildren(root.Children, scope{})
	result.TOC = p.toc
	result.Definitions = p.definitions
	result.Footnotes = p.footnotes

	result.bodies = make([]view.Footnote, 0, p.footnotes.Len())
	for _, entry := range p.footnotes.Entries() {
		result.bodies = append(result.bodies, view.Footnote{
			Identifier: entry.Identifier,
			Index:      entry.Index,
			Body:       p.renderFootnote(entry),
		})
	}
	result.Diagnostics = p.diagnostics
	result.footnoteRenderer = p.footnoteRenderer()
	return result
}

// collect registers every definition and footnote definition in document
// order before anything renders, so references may precede definitions.
func (p *pass) collect(root *mdast.Root) {
	_ = mdast.Walk(root, func(n mdast.Node, entering bool) (mdast.WalkStatus, error) {
		if !entering {
			return mdast.WalkContinue, nil
		}
		switch def := n.(type) {
		case *mdast.Definition:
			p.definitions.Add(def)
		case *mdast.FootnoteDefinition:
			p.footnotes.Add(def)
		}
		return mdast.WalkContinue, nil
	})
}

// footnoteRenderer returns a renderer over the finished registries. Each
// call gets its own slugger and diagnostics so rendering stays pure.
func (p *pass) footnoteRenderer() func(registry.Footnote) []view.Node {
	return func(entry registry.Footnote) []view.Node {
		fresh := &pass{
			engine:      p.engine,
			definitions: p.definitions,
			footnotes:   p.footnotes,
			slugs:       newSlugger(p.engine.slug),
		}
		return fresh.renderFootnote(entry)
	}
}

func (p *pass) renderFootnote(entry registry.Footnote) []view.Node {
	if entry.Node == nil {
		return nil
	}
	return p.renderChildren(entry.Node.Children, scope{inFootnote: true})
}

func (p *pass) renderChildren(children []mdast.Node, sc scope) []view.Node {
	out := make([]view.Node, 0, len(children))
	for i, child := range children {
		if node := p.render(child, i, sc); node != nil {
			out = append(out, node)
		}
	}
	return out
}

func (p *pass) report(d Diagnostic) {
	p.diagnostics = append(p.diagnostics, d)
}

// render projects one node. It returns nil when the node contributes
// nothing.
func (p *pass) render(n mdast.Node, index int, sc scope) view.Node {
	if n == nil {
		return nil
	}
	return p.guarded(n, func() view.Node { return p.renderNode(n, index, sc) })
}

// guarded runs fn for node n. A panic raised by caller supplied hooks
// (factory, slug transform, validator) is confined to n.
func (p *pass) guarded(n mdast.Node, fn func() view.Node) (out view.Node) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			p.report(newDiagnostic(CodeRenderPanic, goerrors.CategoryInternal, ErrRenderPanic, n, "",
				fmt.Sprintf("rendering %s panicked: %v", n.Kind(), r)))
		}
	}()
	return fn()
}

func (p *pass) renderNode(n mdast.Node, index int, sc scope) view.Node {
	switch node := n.(type) {
	case *mdast.Frontmatter, *mdast.Definition, *mdast.FootnoteDefinition:
		return nil
	case *mdast.Text:
		if p.engine.textBypass {
			return view.Text(node.Value)
		}
	case *mdast.ListItem:
		return p.renderListItem(node, index, sc, nil)
	case *mdast.TableRow:
		p.missingContext(node, "table row rendered outside a table")
		return nil
	case *mdast.TableCell:
		p.missingContext(node, "table cell rendered outside a table row")
		return nil
	case *mdast.Directive:
		return p.renderDirective(node, index, sc)
	}

	unit, ok := p.resolve(n)
	if !ok {
		return nil
	}
	return p.build(n, unit, index, sc)
}

func (p *pass) resolve(n mdast.Node) (view.Unit, bool) {
	unit, ok := p.engine.table.Resolve(string(n.Kind()))
	if !ok {
		p.report(newDiagnostic(CodeUnresolvedComponent, goerrors.CategoryNotFound, ErrUnresolvedComponent, n, "",
			fmt.Sprintf("no component found for node type: %s", n.Kind())))
		return view.Unit{}, false
	}
	if unit.IsSuppressed() {
		return unit, false
	}
	return unit, true
}

func (p *pass) missingContext(n mdast.Node, message string) {
	p.report(newDiagnostic(CodeMissingContext, goerrors.CategoryValidation, ErrMissingContext, n, "", message))
}

func (p *pass) element(unit view.Unit, props view.Props, children []view.Node) view.Node {
	if unit.IsTag() {
		props = nil
	}
	return p.engine.factory.Element(unit, props, children)
}

// build dispatches on the closed node vocabulary once the unit is known.
func (p *pass) build(n mdast.Node, unit view.Unit, index int, sc scope) view.Node {
	switch node := n.(type) {
	case *mdast.Paragraph, *mdast.Blockquote, *mdast.Delete, *mdast.Strong, *mdast.Emphasis:
		return p.element(unit, view.Props{}, p.renderChildren(mdast.Children(node), sc))
	case *mdast.Break, *mdast.ThematicBreak:
		return p.element(unit, view.Props{}, nil)
	case *mdast.Text:
		return p.element(unit, view.Props{"content": trimLines(node.Value)}, nil)
	case *mdast.InlineCode:
		return p.element(unit, view.Props{"code": collapseLineEndings(node.Value)}, nil)
	case *mdast.Code:
		code := node.Value
		if code != "" {
			code += "\n"
		}
		return p.element(unit, view.Props{"code": code, "lang": node.Lang, "meta": node.Meta}, nil)
	case *mdast.Link:
		props := view.Props{"href": p.engine.normalize(node.URL), "title": node.Title}
		return p.element(unit, props, p.renderChildren(node.Children, sc))
	case *mdast.Image:
		props := view.Props{"src": p.engine.normalize(node.URL), "alt": node.Alt, "title": node.Title}
		return p.element(unit, props, nil)
	case *mdast.LinkReference:
		def, ok := p.lookupDefinition(node, node.Identifier)
		if !ok {
			return nil
		}
		props := view.Props{"href": p.engine.normalize(def.URL), "title": def.Title}
		return p.element(unit, props, p.renderChildren(node.Children, sc))
	case *mdast.ImageReference:
		def, ok := p.lookupDefinition(node, node.Identifier)
		if !ok {
			return nil
		}
		props := view.Props{"src": p.engine.normalize(def.URL), "alt": node.Alt, "title": def.Title}
		return p.element(unit, props, nil)
	case *mdast.Heading:
		return p.renderHeading(node, unit, sc)
	case *mdast.List:
		return p.renderList(node, unit, sc)
	case *mdast.Table:
		return p.renderTable(node, unit, sc)
	case *mdast.FootnoteReference:
		entry, ok := p.footnotes.Lookup(node.Identifier)
		if !ok {
			p.report(newDiagnostic(CodeUnresolvedFootnote, goerrors.CategoryNotFound, ErrUnresolvedFootnote, node, node.Identifier,
				fmt.Sprintf("no footnote definition found for identifier: %s", node.Identifier)))
			return nil
		}
		return p.element(unit, view.Props{"index": entry.Index}, nil)
	default:
		var children []view.Node
		if mdast.IsParent(n) {
			children = p.renderChildren(mdast.Children(n), sc)
		}
		return p.element(unit, view.Props{"item": n, "index": index}, children)
	}
}

func (p *pass) lookupDefinition(n mdast.Node, identifier string) (*mdast.Definition, bool) {
	def, ok := p.definitions.Lookup(identifier)
	if !ok {
		p.report(newDiagnostic(CodeUnresolvedReference, goerrors.CategoryNotFound, ErrUnresolvedReference, n, identifier,
			fmt.Sprintf("no definition found for identifier: %s", identifier)))
	}
	return def, ok
}

// renderHeading renders children first so the title is known. Headings in
// footnote bodies get no slug and stay out of the TOC.
func (p *pass) renderHeading(node *mdast.Heading, unit view.Unit, sc scope) view.Node {
	children := p.renderChildren(node.Children, sc)
	props := view.Props{"depth": node.Depth, "slug": nil}
	if !sc.inFootnote {
		title := mdast.TextContent(node)
		slug := p.slugs.slug(title)
		p.toc = append(p.toc, TOCEntry{Level: node.Depth, Title: title, Slug: slug})
		props["slug"] = slug
	}
	return p.element(unit, props, children)
}

func (p *pass) renderList(node *mdast.List, unit view.Unit, sc scope) view.Node {
	ctx := &listContext{list: node, loose: mdast.ListLoose(node)}
	children := make([]view.Node, 0, len(node.Children))
	for i, child := range node.Children {
		var rendered view.Node
		if item, ok := child.(*mdast.ListItem); ok {
			rendered = p.guarded(item, func() view.Node { return p.renderListItem(item, i, sc, ctx) })
		} else {
			rendered = p.render(child, i, sc)
		}
		if rendered != nil {
			children = append(children, rendered)
		}
	}
	props := view.Props{
		"ordered":     node.Ordered,
		"start":       node.Start,
		"spread":      node.Spread,
		"hasTaskItem": mdast.HasTaskItem(node),
	}
	return p.element(unit, props, children)
}

// renderListItem unwraps direct paragraph children of tight items into
// their inline content. Without a list context the item decides its own
// looseness.
func (p *pass) renderListItem(node *mdast.ListItem, index int, sc scope, ctx *listContext) view.Node {
	unit, ok := p.resolve(node)
	if !ok {
		return nil
	}
	loose := mdast.ListItemLoose(node)
	if ctx != nil {
		loose = ctx.loose
	}
	flat := make([]mdast.Node, 0, len(node.Children))
	for _, child := range node.Children {
		if para, ok := child.(*mdast.Paragraph); ok && !loose {
			flat = append(flat, para.Children...)
			continue
		}
		flat = append(flat, child)
	}
	props := view.Props{"checked": node.Checked, "spread": node.Spread}
	return p.element(unit, props, p.renderChildren(flat, sc))
}

// renderTable computes the column alignment once and threads it to every
// row and cell. Component units receive head and body slots; tag units
// receive the rows as plain children.
func (p *pass) renderTable(node *mdast.Table, unit view.Unit, sc scope) view.Node {
	var head, body []view.Node
	for i, child := range node.Children {
		ctx := rowContext{aligns: node.Align, isHead: i == 0}
		rendered := p.guarded(child, func() view.Node { return p.renderRow(child, i, sc, ctx) })
		if rendered != nil {
			if ctx.isHead {
				head = append(head, rendered)
			} else {
				body = append(body, rendered)
			}
		}
	}
	if unit.IsTag() {
		return p.engine.factory.Element(unit, nil, append(head, body...))
	}
	return p.engine.factory.Slotted(unit, view.Props{}, view.Slots{"head": head, "body": body})
}

func (p *pass) renderRow(n mdast.Node, index int, sc scope, ctx rowContext) view.Node {
	row, ok := n.(*mdast.TableRow)
	if !ok {
		return p.render(n, index, sc)
	}
	unit, ok := p.resolve(row)
	if !ok {
		return nil
	}
	cells := make([]view.Node, 0, len(row.Children))
	for i, child := range row.Children {
		var rendered view.Node
		if cell, ok := child.(*mdast.TableCell); ok {
			rendered = p.guarded(cell, func() view.Node { return p.renderCell(cell, sc, ctx.cell(i)) })
		} else {
			rendered = p.render(child, i, sc)
		}
		if rendered != nil {
			cells = append(cells, rendered)
		}
	}
	return p.element(unit, view.Props{"isHead": ctx.isHead}, cells)
}

func (p *pass) renderCell(cell *mdast.TableCell, sc scope, ctx cellContext) view.Node {
	unit, ok := p.resolve(cell)
	if !ok {
		return nil
	}
	props := view.Props{"align": ctx.alignProp(), "isHead": ctx.isHead}
	return p.element(unit, props, p.renderChildren(cell.Children, sc))
}

// renderDirective resolves directives only under their synthetic key.
func (p *pass) renderDirective(node *mdast.Directive, index int, sc scope) view.Node {
	unit, ok := p.engine.table.ResolveDirective(node.Name)
	if !ok {
		p.report(newDiagnostic(CodeUnresolvedDirective, goerrors.CategoryNotFound, ErrUnresolvedDirective, node, node.Name,
			fmt.Sprintf("no component found for directive name: %s", node.Name)))
		return nil
	}
	if unit.IsSuppressed() {
		return nil
	}
	if v := p.engine.validator; v != nil {
		if err := v.ValidateAttributes(node.Name, node.Attributes); err != nil {
			p.report(newDiagnostic(CodeInvalidDirectiveAttr, goerrors.CategoryValidation, err, node, node.Name,
				fmt.Sprintf("invalid attributes for directive %s: %v", node.Name, err)))
			return nil
		}
	}
	children := p.renderChildren(node.Children, sc)
	props := view.Props{
		"item":       node,
		"index":      index,
		"name":       node.Name,
		"attributes": node.Attributes,
		"label":      node.Label,
	}
	return p.element(unit, props, children)
}
