// Package presets provides the default renderable units for every node
// type. Components here expand into plain tag elements whose props are the
// element attributes, so any host that understands tags can render them.
package presets

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-markview/internal/components"
	"github.com/goliatone/go-markview/pkg/mdast"
	"github.com/goliatone/go-markview/pkg/view"
)

// Defaults returns a fresh copy of the built-in resolution defaults,
// including the built-in directives.
func Defaults() map[string]view.Unit {
	units := map[string]view.Unit{
		string(mdast.KindParagraph):     view.Tag("p"),
		string(mdast.KindBlockquote):    view.Tag("blockquote"),
		string(mdast.KindThematicBreak): view.Tag("hr"),
		string(mdast.KindBreak):         view.Tag("br"),
		string(mdast.KindDelete):        view.Tag("del"),
		string(mdast.KindStrong):        view.Tag("strong"),
		string(mdast.KindEmphasis):      view.Tag("em"),
		string(mdast.KindHTML):          view.Suppress(),

		string(mdast.KindDefinitionList):        view.Tag("dl"),
		string(mdast.KindDefinitionTerm):        view.Tag("dt"),
		string(mdast.KindDefinitionDescription): view.Tag("dd"),

		string(mdast.KindText):              view.Use(Text),
		string(mdast.KindHeading):           view.Use(Heading),
		string(mdast.KindInlineCode):        view.Use(InlineCode),
		string(mdast.KindCode):              view.Use(Code),
		string(mdast.KindLink):              view.Use(Link),
		string(mdast.KindLinkReference):     view.Use(Link),
		string(mdast.KindImage):             view.Use(Image),
		string(mdast.KindImageReference):    view.Use(Image),
		string(mdast.KindList):              view.Use(List),
		string(mdast.KindListItem):          view.Use(ListItem),
		string(mdast.KindTable):             view.Use(Table),
		string(mdast.KindTableRow):          view.Tag("tr"),
		string(mdast.KindTableCell):         view.Use(TableCell),
		string(mdast.KindFootnoteReference): view.Use(FootnoteReference),
		components.FootnoteContainerKey:     view.Use(FootnoteContainer),
	}
	for name, c := range Directives() {
		units[components.DirectiveKey(name)] = view.Use(c)
	}
	return units
}

func tag(name string, props view.Props, children ...view.Node) *view.Element {
	return &view.Element{Unit: view.Tag(name), Props: props, Children: children}
}

func attrs(pairs ...string) view.Props {
	props := view.Props{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			props[pairs[i]] = pairs[i+1]
		}
	}
	return props
}

// Text renders the content prop as a literal run.
var Text = view.NewComponent("text", func(_ *view.Context, el *view.Element) []view.Node {
	content, _ := el.Props.String("content")
	return []view.Node{view.Text(content)}
})

// Heading renders h1..h6 and uses the slug as the element id.
var Heading = view.NewComponent("heading", func(_ *view.Context, el *view.Element) []view.Node {
	depth, _ := el.Props.Int("depth")
	depth = min(max(depth, 1), 6)
	slug, _ := el.Props.String("slug")
	return []view.Node{tag("h"+strconv.Itoa(depth), attrs("id", slug), el.Children...)}
})

var InlineCode = view.NewComponent("inlineCode", func(_ *view.Context, el *view.Element) []view.Node {
	code, _ := el.Props.String("code")
	return []view.Node{tag("code", nil, view.Text(code))}
})

// Code renders pre > code with a language-* class when a language is set.
var Code = view.NewComponent("code", func(_ *view.Context, el *view.Element) []view.Node {
	code, _ := el.Props.String("code")
	lang, _ := el.Props.String("lang")
	class := ""
	if lang != "" {
		class = "language-" + lang
	}
	return []view.Node{tag("pre", nil, tag("code", attrs("class", class), view.Text(code)))}
})

var Link = view.NewComponent("link", func(_ *view.Context, el *view.Element) []view.Node {
	href, _ := el.Props.String("href")
	title, _ := el.Props.String("title")
	props := attrs("title", title)
	props["href"] = href
	return []view.Node{tag("a", props, el.Children...)}
})

var Image = view.NewComponent("image", func(_ *view.Context, el *view.Element) []view.Node {
	src, _ := el.Props.String("src")
	alt, _ := el.Props.String("alt")
	title, _ := el.Props.String("title")
	props := attrs("title", title)
	props["src"] = src
	props["alt"] = alt
	return []view.Node{tag("img", props)}
})

// List renders ul or ol. Lists holding task items get the
// contains-task-list class.
var List = view.NewComponent("list", func(_ *view.Context, el *view.Element) []view.Node {
	ordered, _ := el.Props.Bool("ordered")
	props := view.Props{}
	if task, _ := el.Props.Bool("hasTaskItem"); task {
		props["class"] = "contains-task-list"
	}
	name := "ul"
	if ordered {
		name = "ol"
		if start, ok := el.Props.Int("start"); ok && start != 1 {
			props["start"] = strconv.Itoa(start)
		}
	}
	return []view.Node{tag(name, props, el.Children...)}
})

// ListItem renders li and prefixes a disabled checkbox for task items.
var ListItem = view.NewComponent("listItem", func(_ *view.Context, el *view.Element) []view.Node {
	checked, ok := el.Props.Bool("checked")
	if !ok {
		return []view.Node{tag("li", nil, el.Children...)}
	}
	box := view.Props{"type": "checkbox", "disabled": ""}
	if checked {
		box["checked"] = ""
	}
	children := append([]view.Node{tag("input", box), view.Text(" ")}, el.Children...)
	return []view.Node{tag("li", view.Props{"class": "task-list-item"}, children...)}
})

// Table renders the head slot in thead and the body slot in tbody.
var Table = view.NewComponent("table", func(_ *view.Context, el *view.Element) []view.Node {
	children := []view.Node{tag("thead", nil, el.Slot("head")...)}
	if body := el.Slot("body"); len(body) > 0 {
		children = append(children, tag("tbody", nil, body...))
	}
	return []view.Node{tag("table", nil, children...)}
})

var TableCell = view.NewComponent("tableCell", func(_ *view.Context, el *view.Element) []view.Node {
	name := "td"
	if head, _ := el.Props.Bool("isHead"); head {
		name = "th"
	}
	align, _ := el.Props.String("align")
	return []view.Node{tag(name, attrs("align", align), el.Children...)}
})

// FootnoteAnchor returns the id of a footnote body for the given prefix.
func FootnoteAnchor(prefix string, index int) string {
	return prefix + "-fn-" + strconv.Itoa(index)
}

// FootnoteRefAnchor returns the id of a footnote reference.
func FootnoteRefAnchor(prefix string, index int) string {
	return prefix + "-fnref-" + strconv.Itoa(index)
}

var FootnoteReference = view.NewComponent("footnoteReference", func(ctx *view.Context, el *view.Element) []view.Node {
	index, _ := el.Props.Int("index")
	prefix := view.GlobalPrefix(ctx)
	n := strconv.Itoa(index)
	link := tag("a", view.Props{
		"href":  "#" + FootnoteAnchor(prefix, index),
		"id":    FootnoteRefAnchor(prefix, index),
		"class": "footnote-ref",
	}, view.Text(n))
	return []view.Node{tag("sup", nil, link)}
})

// FootnoteContainer renders section.footnotes with one list item per
// footnote and a back reference to where it was cited. It reads the
// footnotes and globalPrefix props.
var FootnoteContainer = view.NewComponent("footnoteContainer", func(ctx *view.Context, el *view.Element) []view.Node {
	notes, _ := el.Props["footnotes"].([]view.Footnote)
	if len(notes) == 0 {
		return nil
	}
	prefix, ok := el.Props.String("globalPrefix")
	if !ok || strings.TrimSpace(prefix) == "" {
		prefix = view.GlobalPrefix(ctx)
	}
	items := make([]view.Node, 0, len(notes))
	for _, note := range notes {
		back := tag("a", view.Props{
			"href":  "#" + FootnoteRefAnchor(prefix, note.Index),
			"class": "footnote-backref",
		}, view.Text("↩"))
		body := append(append([]view.Node{}, note.Body...), view.Text(" "), back)
		items = append(items, tag("li", view.Props{"id": FootnoteAnchor(prefix, note.Index)}, body...))
	}
	return []view.Node{tag("section", view.Props{"class": "footnotes"}, tag("ol", nil, items...))}
})
