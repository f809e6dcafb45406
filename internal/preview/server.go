// Package preview serves a live HTML preview of one Markdown document and a
// JSON render endpoint for editors.
package preview

import (
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	markview "github.com/goliatone/go-markview"
	"github.com/goliatone/go-markview/internal/logging"
	"github.com/goliatone/go-markview/pkg/interfaces"
)

// maxSourceBytes caps request bodies on the render endpoint.
const maxSourceBytes = 4 << 20

// Loader returns the current document source, typically by reading a file.
type Loader func() (string, error)

// Response is the render result exposed over HTTP and by the CLI.
type Response struct {
	HTML            string                `json:"html"`
	FootnotesHTML   string                `json:"footnotes_html,omitempty"`
	TOC             []markview.TOCEntry   `json:"toc"`
	Frontmatter     string                `json:"frontmatter,omitempty"`
	FrontmatterData map[string]any        `json:"frontmatter_data,omitempty"`
	Diagnostics     []markview.Diagnostic `json:"diagnostics"`
	Revision        uint64                `json:"revision"`
}

// Render renders source once with opts.
func Render(source string, opts ...markview.Option) (Response, error) {
	m, err := markview.New(source, opts...)
	if err != nil {
		return Response{}, err
	}

	body, bodyErr := m.RenderHTML()
	notes, notesErr := m.RenderFootnotesHTML()
	snap := m.Snapshot()
	resp := Response{
		HTML:            body,
		FootnotesHTML:   notes,
		TOC:             snap.TOC,
		Frontmatter:     snap.Frontmatter,
		FrontmatterData: snap.FrontmatterData,
		Diagnostics:     snap.Diagnostics,
		Revision:        snap.Revision,
	}
	if resp.TOC == nil {
		resp.TOC = []markview.TOCEntry{}
	}
	if resp.Diagnostics == nil {
		resp.Diagnostics = []markview.Diagnostic{}
	}
	return resp, errors.Join(bodyErr, notesErr)
}

// Server is the preview HTTP handler.
type Server struct {
	router chi.Router
	load   Loader
	opts   []markview.Option
	logger interfaces.Logger
}

// NewServer builds the preview handler. opts are applied to every render.
func NewServer(load Loader, provider interfaces.LoggerProvider, opts ...markview.Option) *Server {
	s := &Server{
		load:   load,
		opts:   opts,
		logger: logging.PreviewLogger(provider),
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handlePage)
	r.Post("/api/render", s.handleRender)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if s.load == nil {
		http.Error(w, "no document configured", http.StatusNotFound)
		return
	}
	source, err := s.load()
	if err != nil {
		s.logger.Error("preview.load", "error", err)
		http.Error(w, "could not load document", http.StatusInternalServerError)
		return
	}

	resp, err := Render(source, s.opts...)
	if err != nil && resp.HTML == "" {
		s.logger.Error("preview.render", "error", err)
		http.Error(w, "could not render document", http.StatusInternalServerError)
		return
	}
	if err != nil {
		s.logger.Warn("preview.render", "error", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, page{
		Body:        template.HTML(resp.HTML),
		Footnotes:   template.HTML(resp.FootnotesHTML),
		TOC:         resp.TOC,
		Diagnostics: resp.Diagnostics,
	}); err != nil {
		s.logger.Error("preview.page", "error", err)
	}
}

type renderRequest struct {
	Source string `json:"source"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxSourceBytes)).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	resp, err := Render(req.Source, s.opts...)
	if err != nil && resp.HTML == "" {
		s.logger.Error("preview.render", "error", err, "request_id", middleware.GetReqID(r.Context()))
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func requestLogger(logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"request_id", middleware.GetReqID(r.Context()),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

type page struct {
	Body        template.HTML
	Footnotes   template.HTML
	TOC         []markview.TOCEntry
	Diagnostics []markview.Diagnostic
}

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>markview preview</title></head>
<body>
{{- if .TOC}}
<nav class="toc"><ul>{{range .TOC}}<li class="toc-{{.Level}}"><a href="#{{.Slug}}">{{.Title}}</a></li>{{end}}</ul></nav>
{{- end}}
<main>{{.Body}}{{.Footnotes}}</main>
{{- if .Diagnostics}}
<aside class="diagnostics"><ul>{{range .Diagnostics}}<li>{{.Error}}</li>{{end}}</ul></aside>
{{- end}}
</body>
</html>
`))
