package preview

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	markview "github.com/goliatone/go-markview"
)

func TestHealth(t *testing.T) {
	srv := NewServer(nil, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != `{"status":"ok"}` {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestRenderEndpoint(t *testing.T) {
	srv := NewServer(nil, nil, markview.WithGlobalPrefix("docs"))

	body := strings.NewReader(`{"source":"# Title\n\nSee[^1]\n\n[^1]: Note"}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/render", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.HTML, `<h1 id="title">Title</h1>`) {
		t.Fatalf("unexpected html %q", resp.HTML)
	}
	if !strings.Contains(resp.FootnotesHTML, `id="docs-fn-1"`) {
		t.Fatalf("unexpected footnotes html %q", resp.FootnotesHTML)
	}
	if len(resp.TOC) != 1 || resp.TOC[0].Slug != "title" {
		t.Fatalf("unexpected toc %v", resp.TOC)
	}
	if len(resp.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", resp.Diagnostics)
	}
}

func TestRenderEndpointRejectsBadJSON(t *testing.T) {
	srv := NewServer(nil, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader("{")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid JSON body") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestPageRendersLoadedDocument(t *testing.T) {
	load := func() (string, error) { return "# Hello\n\n::nope", nil }
	srv := NewServer(load, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	page := rec.Body.String()
	for _, want := range []string{
		`<a href="#hello">Hello</a>`,
		`<main><div><h1 id="hello">Hello</h1></div></main>`,
		`class="diagnostics"`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected page to contain %q:\n%s", want, page)
		}
	}
}

func TestPageLoadFailure(t *testing.T) {
	srv := NewServer(func() (string, error) { return "", errors.New("gone") }, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestRenderHelper(t *testing.T) {
	resp, err := Render("plain")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if resp.HTML != "<div><p>plain</p></div>" || resp.TOC == nil || resp.Diagnostics == nil {
		t.Fatalf("unexpected response %#v", resp)
	}
	if resp.Revision == 0 {
		t.Fatalf("expected a revision")
	}
}
