// Package components implements the resolution table that maps node type
// names to renderable units.
package components

import (
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-markview/pkg/view"
)

// FootnoteContainerKey resolves the unit that renders the footnote list.
const FootnoteContainerKey = "footnoteContainer"

// DirectivePrefix namespaces directive names so they never collide with
// built-in node types.
const DirectivePrefix = "directive_"

// DirectiveKey returns the lookup key for a directive name.
func DirectiveKey(name string) string {
	return DirectivePrefix + name
}

// IsDirectiveKey reports whether key addresses a directive.
func IsDirectiveKey(key string) bool {
	return strings.HasPrefix(key, DirectivePrefix)
}

// Table layers caller overrides over built-in defaults. Both maps are
// copied on construction and never mutated afterwards, so a Table can be
// shared between goroutines.
type Table struct {
	defaults  map[string]view.Unit
	overrides map[string]view.Unit
}

// NewTable builds a resolution table. Zero units in overrides are ignored
// so they fall through to the default; use view.Suppress to silence a type.
func NewTable(defaults, overrides map[string]view.Unit) *Table {
	t := &Table{
		defaults:  maps.Clone(defaults),
		overrides: make(map[string]view.Unit, len(overrides)),
	}
	if t.defaults == nil {
		t.defaults = map[string]view.Unit{}
	}
	for key, unit := range overrides {
		if key = strings.TrimSpace(key); key == "" || unit.IsZero() {
			continue
		}
		t.overrides[key] = unit
	}
	return t
}

// With returns a new table whose overrides are the receiver's merged with
// the given ones. The receiver is left untouched.
func (t *Table) With(overrides map[string]view.Unit) *Table {
	merged := maps.Clone(t.overrides)
	maps.Copy(merged, overrides)
	return NewTable(t.defaults, merged)
}

// Resolve looks key up in the overrides first and the defaults second.
// ok is false when no unit is registered; a suppressed unit is returned
// with ok set.
func (t *Table) Resolve(key string) (view.Unit, bool) {
	if t == nil {
		return view.Unit{}, false
	}
	if unit, ok := t.overrides[key]; ok {
		return unit, true
	}
	unit, ok := t.defaults[key]
	if !ok || unit.IsZero() {
		return view.Unit{}, false
	}
	return unit, true
}

// ResolveDirective resolves a directive by name under its synthetic key.
func (t *Table) ResolveDirective(name string) (view.Unit, bool) {
	return t.Resolve(DirectiveKey(name))
}

// Keys lists every key with a registered unit, sorted.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	set := maps.Clone(t.defaults)
	maps.Copy(set, t.overrides)
	return slices.Sorted(maps.Keys(set))
}

// Overridden reports whether key resolves through a caller override.
func (t *Table) Overridden(key string) bool {
	if t == nil {
		return false
	}
	_, ok := t.overrides[key]
	return ok
}
