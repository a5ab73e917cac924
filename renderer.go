package blocksite

import (
	"html/template"

	"github.com/lemmi/blocksite/richtext"
	"github.com/lemmi/blocksite/section"
)

// ContentRenderer produces a fragment of page HTML.
type ContentRenderer interface {
	Render() template.HTML
}

type sectionRenderer struct {
	reg *section.Registry
	env section.Env
	s   section.Section
}

func (r sectionRenderer) Render() template.HTML {
	return r.reg.Dispatch(r.env, r.s)
}

type documentRenderer struct {
	doc *richtext.Document
}

func (r documentRenderer) Render() template.HTML {
	return richtext.Render(r.doc)
}
