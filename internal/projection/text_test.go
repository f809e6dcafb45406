package projection

import "testing"

func TestTrimLines(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"  lead and trail  ", "  lead and trail  "},
		{"a  \n  b", "a\nb"},
		{" first \t\r\n\t second \n third ", " first\r\nsecond\nthird "},
		{"a\r\rb", "a\r\rb"},
	}
	for _, tt := range tests {
		if got := trimLines(tt.in); got != tt.want {
			t.Fatalf("trimLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCollapseLineEndings(t *testing.T) {
	if got := collapseLineEndings("a\r\nb\rc\nd"); got != "a b c d" {
		t.Fatalf("collapseLineEndings() = %q", got)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"":                        "",
		"https://example.com/a b": "https://example.com/a%20b",
		"/path?q=1&x=2":           "/path?q=1&x=2",
		"/already%20escaped":      "/already%20escaped",
	}
	for in, want := range tests {
		if got := NormalizeURL(in); got != want {
			t.Fatalf("NormalizeURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSluggerSkipsTakenSuffixes(t *testing.T) {
	s := newSlugger(nil)
	got := []string{s.slug("a"), s.slug("a-1"), s.slug("a"), s.slug("a"), s.slug("")}
	want := []string{"a", "a-1", "a-2", "a-3", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slug %d = %q, want %q (all: %v)", i, got[i], want[i], got)
		}
	}
}

func TestGitHubSlug(t *testing.T) {
	tests := map[string]string{
		"Title":            "title",
		"Hello World":      "hello-world",
		"Hello  World":     "hello--world",
		"What's new?":      "whats-new",
		"snake_case-title": "snake_case-title",
		"Déjà vu":          "déjà-vu",
		"中文 标题":            "中文-标题",
		"C++ & Go!":        "c--go",
		"":                 "",
	}
	for in, want := range tests {
		if got := GitHubSlug(in); got != want {
			t.Fatalf("GitHubSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSluggerNormalizesBeforeCounting(t *testing.T) {
	s := newSlugger(nil)
	got := []string{s.slug("Title"), s.slug("title"), s.slug("TITLE")}
	want := []string{"title", "title-1", "title-2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slug %d = %q, want %q (all: %v)", i, got[i], want[i], got)
		}
	}

	identity := newSlugger(func(title string) string { return title })
	if got := identity.slug("Title"); got != "Title" {
		t.Fatalf("caller transform should replace the default, got %q", got)
	}
}
