package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestRenderPrintsHTML(t *testing.T) {
	path := writeDoc(t, "# Hello World\n")

	var out bytes.Buffer
	if err := run([]string{"render", "-file", path, "-log-provider", "none", "-slugify"}, &out); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != `<div><h1 id="hello-world">Hello World</h1></div>` {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRenderJSON(t *testing.T) {
	path := writeDoc(t, "---\ntitle: Doc\n---\ntext\n")

	var out bytes.Buffer
	if err := run([]string{"render", "-file", path, "-log-provider", "none", "-json", "-prefix", "docs"}, &out); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if payload["frontmatter"] != "title: Doc" {
		t.Fatalf("unexpected frontmatter %v", payload["frontmatter"])
	}
	if payload["html"] != "<div><p>text</p></div>" {
		t.Fatalf("unexpected html %v", payload["html"])
	}
}

func TestRunRequiresCommandAndFile(t *testing.T) {
	if err := run(nil, &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := run([]string{"bogus"}, &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := run([]string{"render"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" gfm, ,directive ")
	if len(got) != 2 || got[0] != "gfm" || got[1] != "directive" {
		t.Fatalf("unexpected list %v", got)
	}
}
