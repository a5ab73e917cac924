package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemmi/blocksite"
	"github.com/lemmi/blocksite/backend"
	"github.com/lemmi/blocksite/backend/sqlstore"
	"github.com/lemmi/blocksite/config"
)

var siteFiles = map[string]string{
	"pages/home.json":             `{"title":"Welcome"}`,
	"sections/home/hero.json":     `{"type":"hero","order":1,"payload":{"heading":"Learn to sail"}}`,
	"sections/home/cards.json":    `{"type":"cards","order":2,"payload":{"items":[{"title":"Dinghy"}]}}`,
	"sections/home/cta.json":      `{"type":"cta","order":3,"payload":{"heading":"Join us"}}`,
	"globals/settings.json":       `{"siteName":"Sailing Club"}`,
	"static/site.css":             "body{}",
	"static/robots.txt":           "User-agent: *",
	"templates/README.md":         "not a template",
	"templates/.swp.tmpl.swp":     "",
	"static/.htpasswd":            "secret",
	"sections/home/.draft-x.json": `{}`,
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func testServer(t *testing.T, content *config.Content) *Server {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	site := blocksite.NewSite(content.Store, nil, blocksite.Settings{}, log)
	srv, err := NewServer(content, site, log, true)
	require.NoError(t, err)
	return srv
}

func fileServer(t *testing.T) *Server {
	root := writeTree(t, siteFiles)
	fs := backend.Dir(root)
	return testServer(t, &config.Content{FS: fs, Store: backend.NewFileStore(fs)})
}

func dbServer(t *testing.T) (*Server, *sqlstore.Store) {
	root := writeTree(t, siteFiles)
	db, err := sqlstore.Open(filepath.Join(t.TempDir(), "site.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	fstore := backend.NewFileStore(backend.Dir(root))
	for _, coll := range []string{backend.CollectionPages, backend.SectionsOf("home"), backend.CollectionGlobals} {
		items, err := fstore.Query(ctx, coll, backend.Query{IncludeDrafts: true})
		require.NoError(t, err)
		for _, it := range items {
			_, err := db.Put(ctx, coll, it)
			require.NoError(t, err)
		}
	}
	return testServer(t, &config.Content{FS: backend.Dir(root), Store: db, DB: db}), db
}

func do(srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, path, r))
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(fileServer(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPage(t *testing.T) {
	srv := fileServer(t)

	rec := do(srv, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "max-age=32", rec.Header().Get("Cache-Control"))
	body := rec.Body.String()
	assert.Contains(t, body, "Welcome")
	assert.Contains(t, body, "Sailing Club")
	assert.Less(t, strings.Index(body, "Learn to sail"), strings.Index(body, "Dinghy"))
	assert.Less(t, strings.Index(body, "Dinghy"), strings.Index(body, "Join us"))

	assert.Equal(t, http.StatusOK, do(srv, http.MethodHead, "/", "").Code)
	assert.Equal(t, http.StatusNotFound, do(srv, http.MethodGet, "/missing", "").Code)
}

func TestStatic(t *testing.T) {
	srv := fileServer(t)
	rec := do(srv, http.MethodGet, "/static/site.css", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())

	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/robots.txt", "").Code)
	assert.Equal(t, http.StatusNotFound, do(srv, http.MethodGet, "/favicon.ico", "").Code)
	assert.Equal(t, http.StatusNotFound, do(srv, http.MethodGet, "/static/.htpasswd", "").Code)
}

func decodeSections(t *testing.T, rec *httptest.ResponseRecorder) sectionsResponse {
	t.Helper()
	var resp sectionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func entryIDs(resp sectionsResponse) []string {
	var ids []string
	for _, e := range resp.Entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestListSections(t *testing.T) {
	rec := do(fileServer(t), http.MethodGet, "/admin/sections/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeSections(t, rec)
	assert.Equal(t, "sections/home", resp.Collection)
	assert.Equal(t, "clean", resp.State)
	assert.Equal(t, []string{"hero", "cards", "cta"}, entryIDs(resp))
	assert.Equal(t, "hero", resp.Entries[0].Label)
}

func TestReorderBadRequest(t *testing.T) {
	srv := fileServer(t)
	assert.Equal(t, http.StatusBadRequest, do(srv, http.MethodPut, "/admin/order/", `{"ids":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(srv, http.MethodPut, "/admin/order/", `["cta","hero"]`).Code)
	assert.Equal(t, http.StatusBadRequest, do(srv, http.MethodPut, "/admin/order/", `["cta","hero","cards","ghost"]`).Code)
}

func TestReorderReadOnlyStore(t *testing.T) {
	rec := do(fileServer(t), http.MethodPut, "/admin/order/", `["cta","hero","cards"]`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp struct {
		Error  string   `json:"error"`
		Failed []string `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"cards", "cta", "hero"}, resp.Failed)
}

func TestReorderDatabase(t *testing.T) {
	srv, db := dbServer(t)

	rec := do(srv, http.MethodPut, "/admin/order/", `["cta","hero","cards"]`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeSections(t, rec)
	assert.Equal(t, "clean", resp.State)
	assert.Equal(t, []string{"cta", "hero", "cards"}, entryIDs(resp))

	items, err := db.Query(context.Background(), backend.SectionsOf("home"), backend.Query{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "cta", items[0].ID)

	body := do(srv, http.MethodGet, "/", "").Body.String()
	assert.Less(t, strings.Index(body, "Join us"), strings.Index(body, "Learn to sail"))
}
