package mdast

// WalkStatus tells Walk how to continue after visiting a node.
type WalkStatus int

const (
	// WalkContinue descends into children and continues with siblings.
	WalkContinue WalkStatus = iota
	// WalkSkipChildren continues with siblings without descending.
	WalkSkipChildren
	// WalkStop ends the walk.
	WalkStop
)

// Walker is called twice per node: once entering, once leaving. The status
// returned when leaving is only checked for WalkStop.
type Walker func(n Node, entering bool) (WalkStatus, error)

// Walk traverses the tree depth first in document order.
func Walk(n Node, fn Walker) error {
	_, err := walk(n, fn)
	return err
}

func walk(n Node, fn Walker) (WalkStatus, error) {
	if n == nil {
		return WalkContinue, nil
	}
	status, err := fn(n, true)
	if err != nil || status == WalkStop {
		return WalkStop, err
	}
	if status != WalkSkipChildren {
		for _, child := range Children(n) {
			if st, err := walk(child, fn); err != nil || st == WalkStop {
				return WalkStop, err
			}
		}
	}
	status, err = fn(n, false)
	if err != nil || status == WalkStop {
		return WalkStop, err
	}
	return WalkContinue, nil
}

// Ptr returns a pointer to v. It keeps optional fields terse in literals.
func Ptr[T any](v T) *T {
	return &v
}
