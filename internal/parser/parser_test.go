package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-markview/pkg/interfaces"
	"github.com/goliatone/go-markview/pkg/mdast"
)

var ignorePositions = cmp.Options{
	cmpopts.IgnoreTypes(mdast.Base{}),
	cmpopts.EquateEmpty(),
}

func parse(t *testing.T, source string, opts ...interfaces.ParseOptions) *mdast.Root {
	t.Helper()
	var o interfaces.ParseOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	root, err := New(o).Parse([]byte(source))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return root
}

func ptr[T any](v T) *T { return &v }

func txt(value string) *mdast.Text { return &mdast.Text{Value: value} }

func para(children ...mdast.Node) *mdast.Paragraph { return &mdast.Paragraph{Children: children} }

func TestParseBlocksAndInlines(t *testing.T) {
	root := parse(t, "# Title\n\nHello *world* and **more**")

	want := []mdast.Node{
		&mdast.Heading{Depth: 1, Children: []mdast.Node{txt("Title")}},
		para(
			txt("Hello "),
			&mdast.Emphasis{Children: []mdast.Node{txt("world")}},
			txt(" and "),
			&mdast.Strong{Children: []mdast.Node{txt("more")}},
		),
	}
	if diff := cmp.Diff(want, root.Children, ignorePositions); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestParseRecordsPositions(t *testing.T) {
	root := parse(t, "# Title\n\nSee")

	p, ok := root.Children[1].(*mdast.Paragraph)
	if !ok {
		t.Fatalf("expected paragraph, got %T", root.Children[1])
	}
	pos := p.Children[0].Pos()
	if pos == nil {
		t.Fatalf("expected text position")
	}
	want := mdast.Point{Line: 3, Column: 1, Offset: 9}
	if diff := cmp.Diff(want, pos.Start); diff != "" {
		t.Fatalf("unexpected start (-want +got):\n%s", diff)
	}
}

func TestParseFootnotes(t *testing.T) {
	root := parse(t, "See[^1]\n\n[^1]: Note")

	want := []mdast.Node{
		para(txt("See"), &mdast.FootnoteReference{Identifier: "1", Label: "1"}),
		&mdast.FootnoteDefinition{Identifier: "1", Label: "1", Children: []mdast.Node{para(txt("Note"))}},
	}
	if diff := cmp.Diff(want, root.Children, ignorePositions); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestParseReferenceDefinitions(t *testing.T) {
	root := parse(t, "[x][ref]\n\n[ref]: https://example.com \"T\"")

	want := []mdast.Node{
		para(&mdast.Link{URL: "https://example.com", Title: ptr("T"), Children: []mdast.Node{txt("x")}}),
		&mdast.Definition{Identifier: "ref", Label: "ref", URL: "https://example.com", Title: ptr("T")},
	}
	if diff := cmp.Diff(want, root.Children, ignorePositions); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestParseDefinitionOnlyBlockLeavesNoParagraph(t *testing.T) {
	root := parse(t, "[x][ref]\n\n[ref]: https://example.com \"T\"\n\nafter")

	want := []mdast.Node{
		para(&mdast.Link{URL: "https://example.com", Title: ptr("T"), Children: []mdast.Node{txt("x")}}),
		para(txt("after")),
		&mdast.Definition{Identifier: "ref", Label: "ref", URL: "https://example.com", Title: ptr("T")},
	}
	if diff := cmp.Diff(want, root.Children, ignorePositions); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestParseKeepsUnreferencedFootnotes(t *testing.T) {
	root := parse(t, "text[^b]\n\n[^a]: orphan\n\n[^b]: used")

	want := []mdast.Node{
		para(txt("text"), &mdast.FootnoteReference{Identifier: "b", Label: "b"}),
		&mdast.FootnoteDefinition{Identifier: "a", Label: "a", Children: []mdast.Node{para(txt("orphan"))}},
		&mdast.FootnoteDefinition{Identifier: "b", Label: "b", Children: []mdast.Node{para(txt("used"))}},
	}
	if diff := cmp.Diff(want, root.Children, ignorePositions); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}

	root = parse(t, "text\n\n[^n]: orphan")
	if len(root.Children) != 2 {
		t.Fatalf("expected paragraph and definition, got %#v", root.Children)
	}
	if _, ok := root.Children[1].(*mdast.FootnoteDefinition); !ok {
		t.Fatalf("expected footnote definition, got %T", root.Children[1])
	}
}

func TestParseFrontmatter(t *testing.T) {
	root := parse(t, "---\ntitle: Hello\ntags: [a, b]\n---\n# Doc")

	want := []mdast.Node{
		&mdast.Frontmatter{
			Format: "yaml",
			Value:  "title: Hello\ntags: [a, b]",
			Data:   map[string]any{"title": "Hello", "tags": []any{"a", "b"}},
		},
		&mdast.Heading{Depth: 1, Children: []mdast.Node{txt("Doc")}},
	}
	if diff := cmp.Diff(want, root.Children, ignorePositions); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestParseFrontmatterDecodeFailureKeepsTree(t *testing.T) {
	root, err := New(interfaces.ParseOptions{}).Parse([]byte("---\ntitle: [unclosed\n---\nBody"))
	if !errors.Is(err, ErrFrontmatter) {
		t.Fatalf("expected ErrFrontmatter, got %v", err)
	}
	if root == nil || len(root.Children) != 2 {
		t.Fatalf("expected frontmatter and paragraph, got %#v", root)
	}
	fm, ok := root.Children[0].(*mdast.Frontmatter)
	if !ok || fm.Value != "title: [unclosed" || fm.Data != nil {
		t.Fatalf("expected raw frontmatter without data, got %#v", root.Children[0])
	}
}

func TestParseFrontmatterDisabled(t *testing.T) {
	root := parse(t, "---\ntitle: x\n---\n", interfaces.ParseOptions{Frontmatter: ptr(false)})
	for _, child := range root.Children {
		if _, ok := child.(*mdast.Frontmatter); ok {
			t.Fatalf("expected no frontmatter node when disabled")
		}
	}
}

func TestParseTaskList(t *testing.T) {
	root := parse(t, "- [x] done\n- [ ] todo")

	want := []mdast.Node{
		&mdast.List{Children: []mdast.Node{
			&mdast.ListItem{Checked: ptr(true), Spread: ptr(false), Children: []mdast.Node{para(txt("done"))}},
			&mdast.ListItem{Checked: ptr(false), Spread: ptr(false), Children: []mdast.Node{para(txt("todo"))}},
		}},
	}
	if diff := cmp.Diff(want, root.Children, ignorePositions); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestParseOrderedLooseList(t *testing.T) {
	root := parse(t, "3. a\n\n4. b")

	list, ok := root.Children[0].(*mdast.List)
	if !ok {
		t.Fatalf("expected list, got %T", root.Children[0])
	}
	if !list.Ordered || list.Start == nil || *list.Start != 3 || !list.Spread {
		t.Fatalf("unexpected list flags: ordered=%v start=%v spread=%v", list.Ordered, list.Start, list.Spread)
	}
	item := list.Children[0].(*mdast.ListItem)
	if item.Spread == nil || !*item.Spread {
		t.Fatalf("expected spread item")
	}
}

func TestParseTable(t *testing.T) {
	root := parse(t, "| a | b |\n|:--|--:|\n| 1 | 2 |")

	cell := func(v string) *mdast.TableCell { return &mdast.TableCell{Children: []mdast.Node{txt(v)}} }
	want := []mdast.Node{
		&mdast.Table{
			Align: []mdast.Align{mdast.AlignLeft, mdast.AlignRight},
			Children: []mdast.Node{
				&mdast.TableRow{Children: []mdast.Node{cell("a"), cell("b")}},
				&mdast.TableRow{Children: []mdast.Node{cell("1"), cell("2")}},
			},
		},
	}
	if diff := cmp.Diff(want, root.Children, ignorePositions); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestParseFencedCode(t *testing.T) {
	root := parse(t, "```go title=x\nfmt.Println()\n```")

	want := []mdast.Node{&mdast.Code{Lang: ptr("go"), Meta: ptr("title=x"), Value: "fmt.Println()"}}
	if diff := cmp.Diff(want, root.Children, ignorePositions); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestParseDirectives(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []mdast.Node
	}{
		{
			name:   "leaf",
			source: "::youtube{id=abc start=10}",
			want: []mdast.Node{&mdast.Directive{
				Variant:    mdast.LeafDirective,
				Name:       "youtube",
				Attributes: map[string]string{"id": "abc", "start": "10"},
			}},
		},
		{
			name:   "leaf with label",
			source: "::video[Intro]{#v1}",
			want: []mdast.Node{&mdast.Directive{
				Variant:    mdast.LeafDirective,
				Name:       "video",
				Label:      "Intro",
				Attributes: map[string]string{"id": "v1"},
				Children:   []mdast.Node{txt("Intro")},
			}},
		},
		{
			name:   "container",
			source: ":::alert{type=info}\nBody text\n:::\n",
			want: []mdast.Node{&mdast.Directive{
				Variant:    mdast.ContainerDirective,
				Name:       "alert",
				Attributes: map[string]string{"type": "info"},
				Children:   []mdast.Node{para(txt("Body text"))},
			}},
		},
		{
			name:   "text",
			source: "Press :kbd[Ctrl]{.key} now",
			want: []mdast.Node{para(
				txt("Press "),
				&mdast.Directive{
					Variant:    mdast.TextDirective,
					Name:       "kbd",
					Label:      "Ctrl",
					Attributes: map[string]string{"class": "key"},
					Children:   []mdast.Node{txt("Ctrl")},
				},
				txt(" now"),
			)},
		},
		{
			name:   "bare colon stays text",
			source: "note:this",
			want:   []mdast.Node{para(txt("note:this"))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parse(t, tt.source)
			if diff := cmp.Diff(tt.want, root.Children, ignorePositions); diff != "" {
				t.Fatalf("unexpected tree (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDirectivesDisabled(t *testing.T) {
	root := parse(t, "::youtube{id=abc}", interfaces.ParseOptions{Extensions: []string{"gfm"}})
	if _, ok := root.Children[0].(*mdast.Paragraph); !ok {
		t.Fatalf("expected plain paragraph without the directive extension, got %T", root.Children[0])
	}
}

func TestParseDefinitionListAsUnknown(t *testing.T) {
	root := parse(t, "Term\n: Definition", interfaces.ParseOptions{Extensions: []string{"definition"}})
	unknown, ok := root.Children[0].(*mdast.Unknown)
	if !ok || unknown.Kind() != mdast.KindDefinitionList {
		t.Fatalf("expected definitionList node, got %#v", root.Children[0])
	}
}

func TestNormalizeExtensions(t *testing.T) {
	got := normalizeExtensions([]string{" GFM ", "tables", "nope", "gfm", ""})
	if diff := cmp.Diff([]string{"gfm", "tables"}, got); diff != "" {
		t.Fatalf("unexpected names (-want +got):\n%s", diff)
	}
	if n := len(collectExtensions(got)); n != 1 {
		t.Fatalf("expected table to fold into gfm, got %d extenders", n)
	}
	if diff := cmp.Diff(DefaultExtensions, New(interfaces.ParseOptions{}).Extensions()); diff != "" {
		t.Fatalf("unexpected defaults (-want +got):\n%s", diff)
	}
}

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		in   string
		want map[string]string
		ok   bool
	}{
		{`#main .a .b`, map[string]string{"id": "main", "class": "a b"}, true},
		{`key=value other="two words" flag`, map[string]string{"key": "value", "other": "two words", "flag": ""}, true},
		{`class=x .y`, map[string]string{"class": "x y"}, true},
		{`single='q'`, map[string]string{"single": "q"}, true},
		{`broken="open`, nil, false},
		{`#`, nil, false},
	}

	for _, tt := range tests {
		got, ok := parseAttributes(tt.in)
		if ok != tt.ok {
			t.Fatalf("parseAttributes(%q) ok = %v", tt.in, ok)
		}
		if diff := cmp.Diff(tt.want, got); ok && diff != "" {
			t.Fatalf("parseAttributes(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestCutFrontmatter(t *testing.T) {
	tests := []struct {
		name   string
		source string
		format string
		ok     bool
	}{
		{"yaml", "---\na: 1\n---\nbody", "yaml", true},
		{"toml", "+++\na = 1\n+++\n", "toml", true},
		{"unterminated", "---\na: 1\n", "", false},
		{"not first line", "\n---\na: 1\n---\n", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, ok := cutFrontmatter([]byte(tt.source))
			if ok != tt.ok || block.format != tt.format {
				t.Fatalf("cutFrontmatter() = %q, %v", block.format, ok)
			}
		})
	}
}

func TestLineIndexPoint(t *testing.T) {
	idx := newLineIndex([]byte("ab\ncd\n"))
	got := []mdast.Point{idx.point(0), idx.point(3), idx.point(4), idx.point(99)}
	want := []mdast.Point{
		{Line: 1, Column: 1, Offset: 0},
		{Line: 2, Column: 1, Offset: 3},
		{Line: 2, Column: 2, Offset: 4},
		{Line: 3, Column: 1, Offset: 6},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected points (-want +got):\n%s", diff)
	}
}
