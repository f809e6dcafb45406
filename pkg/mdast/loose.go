package mdast

// ListItemLoose reports whether a single item renders with paragraph
// spacing. An explicit Spread wins; otherwise an item with more than one
// child block is loose.
func ListItemLoose(item *ListItem) bool {
	if item == nil {
		return false
	}
	if item.Spread != nil {
		return *item.Spread
	}
	return len(item.Children) > 1
}

// ListLoose reports whether a list, and therefore every one of its items,
// renders loose. It stops at the first loose item.
func ListLoose(list *List) bool {
	if list == nil {
		return false
	}
	if list.Spread {
		return true
	}
	for _, child := range list.Children {
		item, ok := child.(*ListItem)
		if !ok {
			continue
		}
		if ListItemLoose(item) {
			return true
		}
	}
	return false
}

// HasTaskItem reports whether any direct item carries a task marker.
func HasTaskItem(list *List) bool {
	if list == nil {
		return false
	}
	for _, child := range list.Children {
		if item, ok := child.(*ListItem); ok && item.Checked != nil {
			return true
		}
	}
	return false
}
