package registry

import (
	"testing"

	"github.com/goliatone/go-markview/pkg/mdast"
)

func TestDefinitionsFirstWins(t *testing.T) {
	defs := NewDefinitions()
	first := &mdast.Definition{Identifier: "Docs", URL: "https://a.example"}
	second := &mdast.Definition{Identifier: "docs", URL: "https://b.example"}

	if !defs.Add(first) {
		t.Fatalf("expected first definition to register")
	}
	if defs.Add(second) {
		t.Fatalf("expected duplicate definition to be rejected")
	}

	got, ok := defs.Lookup("  DOCS ")
	if !ok || got != first {
		t.Fatalf("Lookup() = %v, %v; want first definition", got, ok)
	}
	if defs.Len() != 1 {
		t.Fatalf("Len() = %d", defs.Len())
	}
	if _, ok := defs.Lookup("missing"); ok {
		t.Fatalf("expected miss for unknown identifier")
	}
}

func TestDefinitionsIgnoresEmptyIdentifier(t *testing.T) {
	defs := NewDefinitions()
	if defs.Add(&mdast.Definition{}) || defs.Add(nil) {
		t.Fatalf("expected empty definitions to be ignored")
	}
}

func TestFootnotesAssignIndexInFirstSeenOrder(t *testing.T) {
	notes := NewFootnotes()
	b := notes.Add(&mdast.FootnoteDefinition{Identifier: "b"})
	a := notes.Add(&mdast.FootnoteDefinition{Identifier: "a"})

	if b.Index != 1 || a.Index != 2 {
		t.Fatalf("indexes = b:%d a:%d", b.Index, a.Index)
	}

	entries := notes.Entries()
	if len(entries) != 2 || entries[0].Identifier != "b" || entries[1].Identifier != "a" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestFootnotesDuplicateKeepsIndexReplacesBody(t *testing.T) {
	notes := NewFootnotes()
	firstBody := &mdast.FootnoteDefinition{Identifier: "n"}
	lastBody := &mdast.FootnoteDefinition{Identifier: "N"}

	notes.Add(firstBody)
	notes.Add(&mdast.FootnoteDefinition{Identifier: "other"})
	entry := notes.Add(lastBody)

	if entry.Index != 1 {
		t.Fatalf("expected duplicate to keep index 1, got %d", entry.Index)
	}
	if entry.Node != lastBody {
		t.Fatalf("expected last definition body to win")
	}
	if notes.Len() != 2 {
		t.Fatalf("Len() = %d", notes.Len())
	}
	if got, ok := notes.Lookup("n"); !ok || got.Node != lastBody {
		t.Fatalf("Lookup() did not return replaced body")
	}
}
