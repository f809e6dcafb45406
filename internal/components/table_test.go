package components

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-markview/pkg/view"
)

func TestResolvePrefersOverrides(t *testing.T) {
	custom := view.NewComponent("custom-paragraph", nil)
	defaults := map[string]view.Unit{
		"paragraph": view.Tag("p"),
		"strong":    view.Tag("strong"),
	}
	table := NewTable(defaults, map[string]view.Unit{
		"paragraph": view.Use(custom),
		"strong":    {},
	})

	unit, ok := table.Resolve("paragraph")
	if !ok || unit.Component() != custom {
		t.Fatalf("expected override component, got %s (%v)", unit, ok)
	}
	unit, ok = table.Resolve("strong")
	if !ok || unit.TagName() != "strong" {
		t.Fatalf("expected zero override to fall through, got %s", unit)
	}
	if defaults["paragraph"].TagName() != "p" {
		t.Fatalf("defaults were mutated")
	}
}

func TestResolveDistinguishesAbsentFromSuppressed(t *testing.T) {
	table := NewTable(map[string]view.Unit{"html": view.Suppress()}, nil)

	unit, ok := table.Resolve("html")
	if !ok || !unit.IsSuppressed() {
		t.Fatalf("expected suppressed unit, got %s (%v)", unit, ok)
	}
	if _, ok := table.Resolve("tableCell"); ok {
		t.Fatalf("expected absent key to report ok=false")
	}
}

func TestDirectiveKeysDoNotCollide(t *testing.T) {
	note := view.NewComponent("note", nil)
	table := NewTable(map[string]view.Unit{"paragraph": view.Tag("p")}, map[string]view.Unit{
		DirectiveKey("note"): view.Use(note),
	})

	if _, ok := table.ResolveDirective("paragraph"); ok {
		t.Fatalf("directive named like a built-in type must not resolve to it")
	}
	unit, ok := table.ResolveDirective("note")
	if !ok || unit.Component() != note {
		t.Fatalf("expected directive component, got %s", unit)
	}
	if !IsDirectiveKey("directive_note") || IsDirectiveKey("note") {
		t.Fatalf("IsDirectiveKey() misclassified keys")
	}
}

func TestWithLeavesReceiverUntouched(t *testing.T) {
	base := NewTable(map[string]view.Unit{"paragraph": view.Tag("p")}, nil)
	derived := base.With(map[string]view.Unit{"paragraph": view.Tag("div"), "extra": view.Tag("span")})

	if unit, _ := base.Resolve("paragraph"); unit.TagName() != "p" {
		t.Fatalf("base table changed: %s", unit)
	}
	if unit, _ := derived.Resolve("paragraph"); unit.TagName() != "div" {
		t.Fatalf("derived override missing: %s", unit)
	}
	if !derived.Overridden("extra") || base.Overridden("extra") {
		t.Fatalf("Overridden() mismatch")
	}

	if diff := cmp.Diff([]string{"extra", "paragraph"}, derived.Keys()); diff != "" {
		t.Fatalf("Keys() mismatch (-want +got):\n%s", diff)
	}
}
