// Package blocksite assembles pages of a block based website from a
// document store.
package blocksite

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/lemmi/blocksite/backend"
	"github.com/lemmi/blocksite/nav"
	"github.com/lemmi/blocksite/richtext"
	"github.com/lemmi/blocksite/section"
)

// HomeSlug is the page served at "/".
const HomeSlug = "home"

// SlugFromPath maps a request path to a page slug: "/" is the home page and
// "/about/team/" is "about/team".
func SlugFromPath(p string) string {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" || p == "index" {
		return HomeSlug
	}
	return p
}

// PathOf is the inverse of SlugFromPath.
func PathOf(slug string) string {
	slug = strings.Trim(slug, "/")
	if slug == "" || slug == HomeSlug {
		return "/"
	}
	return "/" + slug
}

// Site builds pages from a store.
type Site struct {
	store    backend.Store
	registry *section.Registry
	defaults Settings
	log      *slog.Logger
}

// NewSite returns a Site reading from store. defaults is used for settings
// the store does not provide. A nil registry means the default one; a nil
// logger discards.
func NewSite(store backend.Store, reg *section.Registry, defaults Settings, log *slog.Logger) *Site {
	if reg == nil {
		reg = section.NewDefaultRegistry()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Site{store: store, registry: reg, defaults: defaults, log: log}
}

// Registry returns the section registry pages are rendered with.
func (s *Site) Registry() *section.Registry {
	return s.registry
}

// Page is everything a template needs to render one page.
type Page struct {
	Slug     string
	Path     string
	Meta     Meta
	Settings Settings
	Menu     nav.Menu
	Blocks   Blocks

	body   ContentRenderer
	footer ContentRenderer
}

// Title is the page title, falling back to the site name.
func (p *Page) Title() string {
	if p.Meta.Title != "" {
		return p.Meta.Title
	}
	return p.Settings.SiteName
}

// Body renders the optional rich-text content of the page.
func (p *Page) Body() template.HTML {
	return p.body.Render()
}

// Footer renders the site footer.
func (p *Page) Footer() template.HTML {
	return p.footer.Render()
}

// Sections renders all sections in order.
func (p *Page) Sections() template.HTML {
	return p.Blocks.HTML()
}

// Render executes the "main" template of t for p.
func (p *Page) Render(w io.Writer, t *template.Template) error {
	return errors.Wrapf(t.ExecuteTemplate(w, "main", p), "template execution failed: %q", p.Path)
}

// Page loads the page served at urlPath. Missing or unpublished pages
// return an error wrapping backend.ErrNotFound.
func (s *Site) Page(ctx context.Context, urlPath string) (*Page, error) {
	slug := SlugFromPath(urlPath)
	item, err := s.store.Get(ctx, backend.CollectionPages, slug)
	if err != nil {
		return nil, errors.Wrapf(err, "page %q", slug)
	}
	if !item.Published() {
		return nil, errors.Wrapf(backend.ErrNotFound, "page %q is not published", slug)
	}

	p := &Page{
		Slug: slug,
		Path: PathOf(slug),
	}
	if err := item.Decode(&p.Meta); err != nil {
		s.log.Warn("malformed page record", "page", slug, "err", err)
		p.Meta = Meta{Title: item.Title}
	}
	p.Settings = s.Settings(ctx)
	p.Menu = nav.Build(s.Navigation(ctx), p.Path)
	p.body = documentRenderer{p.Meta.Content}
	p.footer = documentRenderer{p.Settings.Footer}

	sections, err := s.Sections(ctx, slug)
	if err != nil {
		return nil, err
	}
	env := p.Env()
	for i, sec := range sections {
		p.Blocks = append(p.Blocks, newBlock(sec, i, sectionRenderer{reg: s.registry, env: env, s: sec}))
	}
	p.Blocks.link()
	return p, nil
}

// Env is the render context the sections of p see.
func (p *Page) Env() section.Env {
	return section.Env{
		SiteName:    p.Settings.SiteName,
		CurrentPath: p.Path,
		FormAction:  p.Settings.FormAction,
	}
}

// Sections returns the published sections of a page in store order.
// Records that are not section objects are skipped; their payloads are
// decoded by the registry.
func (s *Site) Sections(ctx context.Context, slug string) ([]section.Section, error) {
	coll := backend.SectionsOf(slug)
	items, err := s.store.Query(ctx, coll, backend.Query{})
	if err != nil {
		return nil, errors.Wrapf(err, "sections of %q", slug)
	}
	out := make([]section.Section, 0, len(items))
	for _, it := range items {
		var sec section.Section
		if err := it.Decode(&sec); err != nil {
			s.log.Debug("skipping section", "collection", coll, "id", it.ID, "err", err)
			continue
		}
		if sec.ID == "" {
			sec.ID = it.ID
		}
		out = append(out, s.registry.Resolve(sec))
	}
	return out, nil
}

// Settings reads globals/settings, falling back to the site defaults.
func (s *Site) Settings(ctx context.Context) Settings {
	var st Settings
	if !s.global(ctx, backend.GlobalSettings, &st) {
		return s.defaults
	}
	return st.withDefaults(s.defaults)
}

// Navigation reads globals/navigation. It returns nil if the record is
// missing or malformed, which makes the menu fall back to its defaults.
func (s *Site) Navigation(ctx context.Context) *nav.Navigation {
	var n nav.Navigation
	if !s.global(ctx, backend.GlobalNavigation, &n) {
		return nil
	}
	return &n
}

func (s *Site) global(ctx context.Context, id string, v any) bool {
	it, err := s.store.Get(ctx, backend.CollectionGlobals, id)
	if err != nil {
		if !errors.Is(err, backend.ErrNotFound) {
			s.log.Warn("cannot read global", "id", id, "err", err)
		}
		return false
	}
	if err := it.Decode(v); err != nil {
		s.log.Warn("malformed global", "id", id, "err", err)
		return false
	}
	return true
}

// For debugging
func (p *Page) Outline() string {
	buf := bytes.Buffer{}

	fmt.Fprintf(&buf, "Page: %q (%s)\n", p.Title(), p.Path)
	fmt.Fprint(&buf, p.Menu.Outline())
	fmt.Fprintln(&buf, "Sections:")
	for _, b := range p.Blocks {
		fmt.Fprintf(&buf, "\t%d %s %q", b.Index(), b.Type(), b.ID())
		if b.Empty() {
			fmt.Fprint(&buf, " (empty)")
		}
		fmt.Fprintln(&buf)
	}
	if !p.Meta.Content.IsEmpty() {
		fmt.Fprintln(&buf, "Content:")
		fmt.Fprintln(&buf, "\t"+richtext.PlainText(p.Meta.Content))
	}
	return buf.String()
}
