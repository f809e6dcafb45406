package parser

import (
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	gparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// footnoteRecorderPriority runs the recorder before the footnote
// extension's transformer (999), which drops unreferenced definitions.
const footnoteRecorderPriority = 998

var footnotesKey = gparser.NewContextKey()

// footnoteRecorder keeps every footnote definition in the parse context so
// unreferenced ones still reach the tree.
type footnoteRecorder struct{}

func (footnoteRecorder) Transform(doc *ast.Document, _ text.Reader, pc gparser.Context) {
	var notes []*east.Footnote
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		list, ok := n.(*east.FootnoteList)
		if !ok {
			return ast.WalkContinue, nil
		}
		for item := list.FirstChild(); item != nil; item = item.NextSibling() {
			if note, ok := item.(*east.Footnote); ok {
				notes = append(notes, note)
			}
		}
		return ast.WalkSkipChildren, nil
	})
	if len(notes) > 0 {
		pc.Set(footnotesKey, notes)
	}
}

func footnoteRecorderOption() gparser.Option {
	return gparser.WithASTTransformers(util.Prioritized(footnoteRecorder{}, footnoteRecorderPriority))
}

// recordedFootnotes returns the definitions seen by footnoteRecorder, or
// nil when the document has none.
func recordedFootnotes(pc gparser.Context) []*east.Footnote {
	if pc == nil {
		return nil
	}
	notes, _ := pc.Get(footnotesKey).([]*east.Footnote)
	return notes
}
