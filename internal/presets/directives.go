package presets

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-markview/pkg/view"
)

// Directives returns the built-in directive components keyed by directive
// name. Their attribute schemas live in DirectiveSchemas.
func Directives() map[string]view.Component {
	return map[string]view.Component{
		"alert":   Alert,
		"details": Details,
		"figure":  Figure,
		"youtube": YouTube,
	}
}

// DirectiveSchemas returns the JSON schemas that the built-in directives
// expect their attributes to satisfy.
func DirectiveSchemas() map[string]string {
	return map[string]string{
		"alert": `{
  "type": "object",
  "properties": {
    "type": {"enum": ["info", "success", "warning", "danger"]},
    "title": {"type": "string"}
  }
}`,
		"figure": `{
  "type": "object",
  "required": ["src"],
  "properties": {
    "src": {"type": "string", "minLength": 1},
    "alt": {"type": "string"}
  }
}`,
		"youtube": `{
  "type": "object",
  "required": ["id"],
  "properties": {
    "id": {"type": "string", "pattern": "^[A-Za-z0-9_-]{6,}$"},
    "start": {"type": "string", "pattern": "^[0-9]+$"}
  }
}`,
	}
}

func directiveAttrs(el *view.Element) map[string]string {
	attributes, _ := el.Props["attributes"].(map[string]string)
	return attributes
}

// Alert renders :::alert{type=warning title="Heads up"} as a callout.
var Alert = view.NewComponent("alert", func(_ *view.Context, el *view.Element) []view.Node {
	attributes := directiveAttrs(el)
	kind := attributes["type"]
	if kind == "" {
		kind = "info"
	}
	children := make([]view.Node, 0, 2)
	title := attributes["title"]
	if title == "" {
		title, _ = el.Props.String("label")
	}
	if title != "" {
		children = append(children, tag("div", view.Props{"class": "directive__title"}, view.Text(title)))
	}
	children = append(children, tag("div", view.Props{"class": "directive__body"}, el.Children...))
	return []view.Node{tag("div", view.Props{
		"class": "directive directive--alert directive--alert-" + kind,
		"role":  "note",
	}, children...)}
})

// Details renders a collapsible block; the label becomes the summary.
var Details = view.NewComponent("details", func(_ *view.Context, el *view.Element) []view.Node {
	summary, _ := el.Props.String("label")
	if summary == "" {
		summary = "Details"
	}
	props := view.Props{"class": "directive directive--details"}
	if _, open := directiveAttrs(el)["open"]; open {
		props["open"] = ""
	}
	children := append([]view.Node{tag("summary", nil, view.Text(summary))}, el.Children...)
	return []view.Node{tag("details", props, children...)}
})

// Figure renders ::figure[caption]{src=... alt=...}.
var Figure = view.NewComponent("figure", func(_ *view.Context, el *view.Element) []view.Node {
	attributes := directiveAttrs(el)
	children := []view.Node{tag("img", view.Props{
		"src":     attributes["src"],
		"alt":     attributes["alt"],
		"loading": "lazy",
	})}
	if caption, _ := el.Props.String("label"); caption != "" {
		children = append(children, tag("figcaption", nil, view.Text(caption)))
	}
	return []view.Node{tag("figure", view.Props{"class": "directive directive--figure"}, children...)}
})

// YouTube renders ::youtube{id=... start=...} as an embedded player.
var YouTube = view.NewComponent("youtube", func(_ *view.Context, el *view.Element) []view.Node {
	attributes := directiveAttrs(el)
	src := "https://www.youtube.com/embed/" + url.PathEscape(strings.TrimSpace(attributes["id"]))
	if start := attributes["start"]; start != "" && start != "0" {
		src += "?start=" + url.QueryEscape(start)
	}
	title, _ := el.Props.String("label")
	if title == "" {
		title = "YouTube video"
	}
	return []view.Node{tag("div", view.Props{"class": "directive directive--youtube"},
		tag("iframe", view.Props{
			"src":             src,
			"title":           title,
			"loading":         "lazy",
			"allowfullscreen": "",
		}),
	)}
})
