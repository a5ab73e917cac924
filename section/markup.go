package section

import (
	"bytes"
	"html/template"
	"strings"

	bm "github.com/microcosm-cc/bluemonday"
	bf "github.com/russross/blackfriday"
)

// ugc is safe for concurrent use once built.
var ugc = bm.UGCPolicy()

// imageAltTitleCopy fills a missing image title from its alt text and
// vice versa.
type imageAltTitleCopy struct {
	bf.Renderer
}

func (md imageAltTitleCopy) Image(out *bytes.Buffer, link []byte, title []byte, alt []byte) {
	if title == nil {
		title = alt
	}
	if alt == nil {
		alt = title
	}
	md.Renderer.Image(out, link, title, alt)
}

// markdownToHTML renders markdown with tables enabled. The output is not
// sanitized.
func markdownToHTML(src string) []byte {
	renderer := imageAltTitleCopy{bf.HtmlRenderer(0, "", "")}
	return bf.Markdown([]byte(src), renderer, bf.EXTENSION_TABLES|bf.EXTENSION_FENCED_CODE|bf.EXTENSION_AUTOLINK)
}

// sanitizeMarkup renders author supplied markup. Raw HTML wins over
// markdown when both are set. Everything passes through the UGC policy.
func sanitizeMarkup(m *CustomMarkup) template.HTML {
	var raw []byte
	switch {
	case strings.TrimSpace(m.HTML) != "":
		raw = []byte(m.HTML)
	case strings.TrimSpace(m.Markdown) != "":
		raw = markdownToHTML(m.Markdown)
	default:
		return ""
	}
	return template.HTML(bytes.TrimSpace(ugc.SanitizeBytes(raw)))
}
