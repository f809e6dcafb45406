package parser

import (
	"sort"

	"github.com/goliatone/go-markview/pkg/mdast"
)

// lineIndex maps byte offsets to line and column numbers.
type lineIndex struct {
	starts []int
	size   int
}

func newLineIndex(source []byte) lineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{starts: starts, size: len(source)}
}

func (l lineIndex) point(offset int) mdast.Point {
	offset = max(0, min(offset, l.size))
	line := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	return mdast.Point{
		Line:   line + 1,
		Column: offset - l.starts[line] + 1,
		Offset: offset,
	}
}

func (l lineIndex) span(start, stop int) *mdast.Position {
	if stop < start {
		stop = start
	}
	return &mdast.Position{Start: l.point(start), End: l.point(stop)}
}
