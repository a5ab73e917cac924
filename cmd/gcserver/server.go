package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/raymondbutcher/tidyhtml"

	"github.com/lemmi/blocksite"
	"github.com/lemmi/blocksite/backend"
	"github.com/lemmi/blocksite/config"
	"github.com/lemmi/blocksite/order"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Server serves the site and the admin API.
type Server struct {
	router  chi.Router
	content *config.Content
	site    *blocksite.Site
	tmpl    *template.Template
	log     *slog.Logger
	debug   bool
}

// NewServer creates and configures the HTTP server. Templates are parsed
// once, except in debug mode where every request reparses them.
func NewServer(content *config.Content, site *blocksite.Site, log *slog.Logger, debug bool) (*Server, error) {
	s := &Server{
		content: content,
		site:    site,
		log:     log,
		debug:   debug,
	}
	tmpl, err := blocksite.LoadTemplates(content.FS)
	if err != nil {
		return nil, err
	}
	s.tmpl = tmpl
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(middleware.GetHead)

	static := blocksite.NewStaticHandler(s.content.FS)

	r.Get("/health", s.handleHealth)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/sections/*", s.handleListSections)
		r.Put("/order/*", s.handleReorder)
	})

	r.Group(func(r chi.Router) {
		r.Use(CacheControl)
		r.Handle("/static/*", static)
		r.Handle("/robots.txt", static.Cd("/static"))
		r.Handle("/favicon.ico", static.Cd("/static"))
		r.Get("/*", s.handlePage)
	})

	s.router = r
}

func (s *Server) HttpError(w http.ResponseWriter, code int, logErr error) {
	if s.debug {
		if err, ok := logErr.(stackTracer); ok {
			s.log.Error(logErr.Error(), "status", code, "stack", fmt.Sprintf("%+v", err.StackTrace()))
		} else {
			s.log.Error(logErr.Error(), "status", code)
		}
	} else {
		s.log.Error(logErr.Error(), "status", code)
	}
	http.Error(w, http.StatusText(code), code)
}

func (s *Server) templates() (*template.Template, error) {
	if s.debug {
		return blocksite.LoadTemplates(s.content.FS)
	}
	return s.tmpl, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// Handling of a page
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.templates()
	if err != nil {
		s.HttpError(w, http.StatusInternalServerError, err)
		return
	}
	p, err := s.site.Page(r.Context(), r.URL.Path)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, backend.ErrNotFound) {
			code = http.StatusNotFound
		}
		s.HttpError(w, code, errors.Wrapf(err, "page generation failed"))
		return
	}
	buf := bytes.Buffer{}
	if err := p.Render(&buf, tmpl); err != nil {
		s.HttpError(w, http.StatusInternalServerError, errors.Wrapf(err, "%s", tmpl.DefinedTemplates()))
		return
	}
	tbuf := bytes.Buffer{}
	if err := tidyhtml.Copy(&tbuf, &buf); err != nil {
		s.HttpError(w, http.StatusInternalServerError, errors.Wrapf(err, "tidyhtml failed: %q", r.URL.Path))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if cid := s.content.CID(); cid != "" {
		w.Header().Set("ETag", `"`+cid+`"`)
	}
	http.ServeContent(w, r, "", time.Time{}, bytes.NewReader(tbuf.Bytes()))
}

type sectionsResponse struct {
	Collection string        `json:"collection"`
	State      string        `json:"state"`
	Entries    []order.Entry `json:"entries"`
}

func (s *Server) manager(r *http.Request) *order.Manager {
	slug := blocksite.SlugFromPath(chi.URLParam(r, "*"))
	return order.NewManager(backend.Orderable(s.content.Store), backend.SectionsOf(slug), order.WithLogger(s.log))
}

// handleListSections lists the sections of a page in order, drafts
// included.
func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	m := s.manager(r)
	if err := m.Load(r.Context()); err != nil {
		jsonError(w, "failed to load sections: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sectionsResponse{Collection: m.Collection(), State: m.State().String(), Entries: m.Entries()})
}

// handleReorder applies a complete ordering given as a JSON array of
// section ids.
func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
		jsonError(w, "body must be a JSON array of section ids", http.StatusBadRequest)
		return
	}

	m := s.manager(r)
	ctx := r.Context()
	if err := m.Load(ctx); err != nil {
		jsonError(w, "failed to load sections: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := m.Reorder(ids); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := m.Commit(ctx); err != nil {
		var ce *order.CommitError
		if errors.As(err, &ce) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]any{"error": err.Error(), "failed": ce.IDs()})
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sectionsResponse{Collection: m.Collection(), State: m.State().String(), Entries: m.Entries()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
