package projection

import "github.com/goliatone/go-markview/pkg/mdast"

// scope is threaded through every render call.
type scope struct {
	inFootnote bool
}

// listContext is handed to the items of one list. loose is computed once
// per list.
type listContext struct {
	list  *mdast.List
	loose bool
}

// rowContext is handed to every row of a table.
type rowContext struct {
	aligns []mdast.Align
	isHead bool
}

// cellContext is handed to every cell of a row.
type cellContext struct {
	align  mdast.Align
	isHead bool
}

func (r rowContext) cell(column int) cellContext {
	c := cellContext{isHead: r.isHead}
	if column < len(r.aligns) {
		c.align = r.aligns[column]
	}
	return c
}

func (c cellContext) alignProp() any {
	if c.align == mdast.AlignNone {
		return nil
	}
	return string(c.align)
}
