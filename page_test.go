package blocksite

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemmi/blocksite/backend"
	"github.com/lemmi/blocksite/nav"
)

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

var exampleSite = map[string]string{
	"pages/home.json": `{"title":"Welcome","content":{"root":{"children":[
		{"type":"paragraph","children":[{"type":"text","text":"Hello","format":1}]}]}}}`,
	"pages/about/team.yaml": "title: Team\n",
	"pages/secret.json":     `{"title":"Secret","status":"draft"}`,
	"pages/broken.json":     `{"title":["not","a","string"]}`,

	"sections/home/01-hero.json":  `{"type":"hero","order":1,"payload":{"subheading":"no heading"}}`,
	"sections/home/02-cards.json": `{"type":"cards","order":2,"title":"Offers","payload":{"items":[{"title":"A"},{"title":"B"}]}}`,
	"sections/home/03-cta.yaml":   "type: cta\norder: 3\npayload:\n  heading: Join\n  button:\n    label: Go\n    href: /join\n",
	"sections/home/04-draft.json": `{"type":"spacer","order":4,"status":"draft","payload":{"size":"large"}}`,
	"sections/home/05-bad.json":   `[1,2,3]`,
	"sections/home/06-what.json":  `{"type":"carousel","order":6,"payload":{}}`,

	"globals/settings.json": `{"siteName":"Example School","formAction":"/api/forms"}`,
	"globals/navigation.yaml": `menuItems:
  - label: Home
    internalPath: /
  - label: About
    linkType: dropdown
    children:
      - label: Team
        page: {slug: about/team}
  - label: Hidden
    visible: false
    url: https://example.com
    linkType: external
ctaButton:
  label: Enroll
  linkType: custom
  customPath: /enroll
`,
}

func testSite(t *testing.T, files map[string]string) *Site {
	t.Helper()
	root := writeTree(t, files)
	return NewSite(backend.NewFileStore(backend.Dir(root)), nil, Settings{SiteName: "Fallback"}, nil)
}

func TestSlugFromPath(t *testing.T) {
	tests := []struct {
		path, slug string
	}{
		{"/", "home"},
		{"", "home"},
		{"/index", "home"},
		{"/about", "about"},
		{"/about/team/", "about/team"},
		{"/../../etc/passwd", "etc/passwd"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.slug, SlugFromPath(tt.path), tt.path)
	}
	assert.Equal(t, "/", PathOf("home"))
	assert.Equal(t, "/about/team", PathOf("about/team"))
}

func TestSitePage(t *testing.T) {
	s := testSite(t, exampleSite)
	p, err := s.Page(context.Background(), "/")
	require.NoError(t, err)

	assert.Equal(t, "home", p.Slug)
	assert.Equal(t, "Welcome", p.Title())
	assert.Equal(t, "Example School", p.Settings.SiteName)
	assert.Equal(t, "<p><strong>Hello</strong></p>", string(p.Body()))

	var types []string
	for _, b := range p.Blocks {
		types = append(types, b.Type())
	}
	// the draft and the non-object record are dropped; the unknown type is
	// kept and renders empty
	assert.Equal(t, []string{"hero", "cards", "cta", "carousel"}, types)
	assert.Equal(t, "01-hero", p.Blocks[0].ID())
	assert.True(t, p.Blocks[0].Empty())
	assert.True(t, p.Blocks[3].Empty())
	assert.Equal(t, p.Blocks[1], p.Blocks[0].Next())
	assert.Equal(t, p.Blocks[1], p.Blocks[2].Prev())

	html := string(p.Sections())
	assert.NotContains(t, html, "hero")
	assert.Contains(t, html, `<section id="section-02-cards"`)
	assert.Contains(t, html, "<h3>A</h3>")
	assert.Contains(t, html, `href="/join"`)
	assert.Less(t, strings.Index(html, "Offers"), strings.Index(html, "Join"))
}

func TestSitePageMenu(t *testing.T) {
	s := testSite(t, exampleSite)
	p, err := s.Page(context.Background(), "/about/team")
	require.NoError(t, err)

	want := nav.Menu{
		Links: []nav.Link{
			{Label: "Home", Href: "/"},
			{Label: "About", Href: "#", Dropdown: true, ActiveTrail: true, Children: []nav.Link{
				{Label: "Team", Href: "/about/team", Active: true, ActiveTrail: true},
			}},
		},
		CTA: &nav.Link{Label: "Enroll", Href: "/enroll"},
	}
	if diff := cmp.Diff(want, p.Menu); diff != "" {
		t.Errorf("menu mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, p.Blocks)
}

func TestSitePageFallbacks(t *testing.T) {
	s := testSite(t, map[string]string{
		"pages/home.json":         `{"title":"Home"}`,
		"globals/navigation.json": `{"menuItems":"nope"}`,
	})
	p, err := s.Page(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, "Fallback", p.Settings.SiteName)
	assert.Len(t, p.Menu.Links, len(nav.DefaultItems()))
	assert.Empty(t, p.Body())
	assert.Empty(t, p.Sections())
}

func TestSitePageNotFound(t *testing.T) {
	s := testSite(t, exampleSite)
	for _, path := range []string{"/missing", "/secret"} {
		_, err := s.Page(context.Background(), path)
		assert.True(t, errors.Is(err, backend.ErrNotFound), path)
	}
}

func TestSitePageMalformedRecord(t *testing.T) {
	s := testSite(t, exampleSite)
	p, err := s.Page(context.Background(), "/broken")
	require.NoError(t, err)
	assert.Equal(t, "Example School", p.Title())
}

func TestRenderDefaultTemplate(t *testing.T) {
	s := testSite(t, exampleSite)
	p, err := s.Page(context.Background(), "/")
	require.NoError(t, err)

	buf := bytes.Buffer{}
	require.NoError(t, p.Render(&buf, DefaultTemplates()))
	out := buf.String()
	assert.Contains(t, out, "<title>Welcome | Example School</title>")
	assert.Contains(t, out, `<li class="active">`)
	assert.Contains(t, out, `href="/enroll"`)
	assert.Contains(t, out, "<strong>Hello</strong>")
	assert.Contains(t, out, "<h3>B</h3>")
	assert.Contains(t, p.Outline(), "(empty)")
}

func TestLoadTemplates(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		tmpl, err := LoadTemplates(http.Dir(t.TempDir()))
		require.NoError(t, err)
		assert.NotNil(t, tmpl.Lookup("main"))
	})
	t.Run("override", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"templates/main.tmpl": `<h1>{{.Title}}</h1>{{template "extra" .}}`,
			"templates/extra.tmpl": `<p>{{.Settings.SiteName}}</p>`,
			"templates/README":     `ignored`,
		})
		tmpl, err := LoadTemplates(http.Dir(root))
		require.NoError(t, err)

		p := &Page{Meta: Meta{Title: "T"}, Settings: Settings{SiteName: "S"}}
		buf := bytes.Buffer{}
		require.NoError(t, p.Render(&buf, tmpl))
		assert.Equal(t, "<h1>T</h1><p>S</p>", buf.String())
		// overriding must not leak into the defaults
		assert.NotContains(t, DefaultTemplates().Lookup("main").Tree.Root.String(), "<h1>")
	})
	t.Run("parse error", func(t *testing.T) {
		root := writeTree(t, map[string]string{"templates/main.tmpl": `{{.Title`})
		_, err := LoadTemplates(http.Dir(root))
		assert.Error(t, err)
	})
}

func TestStaticHandler(t *testing.T) {
	root := writeTree(t, map[string]string{
		"static/site.css":   "body{}",
		"static/.env":       "SECRET=1",
		"static/img/a.png":  "png",
		"static/robots.txt": "User-agent: *",
	})
	sh := NewStaticHandler(http.Dir(root))

	get := func(h http.Handler, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get(sh, "/static/site.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, get(sh, "/static/.env").Code)
	assert.Equal(t, http.StatusNotFound, get(sh, "/static/img").Code)
	assert.Equal(t, http.StatusNotFound, get(sh, "/static/missing").Code)
	assert.Equal(t, http.StatusOK, get(sh.Cd("/static"), "/robots.txt").Code)
	assert.Equal(t, http.StatusOK, get(sh.Cd("static").StripPrefix("/assets/"), "/assets/img/a.png").Code)
}
