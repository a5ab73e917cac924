package richtext

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"
)

// DefaultHeadingLevel is used when a heading carries no usable level.
const DefaultHeadingLevel = 2

// Render converts doc into HTML. It never fails: a nil document or an empty
// root renders as "", and nodes of unknown type are skipped.
//
// Render keeps no state between calls and is safe for concurrent use.
func Render(doc *Document) template.HTML {
	if doc == nil || doc.Root == nil {
		return ""
	}
	var b strings.Builder
	for _, n := range doc.Root.Children {
		renderBlock(&b, n)
	}
	return template.HTML(b.String())
}

// PlainText returns the concatenated text of doc without markup.
func PlainText(doc *Document) string {
	if doc == nil || doc.Root == nil {
		return ""
	}
	var parts []string
	for _, n := range doc.Root.Children {
		if t := strings.TrimSpace(nodeText(n)); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

func renderBlock(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.Type {
	case TypeParagraph:
		b.WriteString("<p>")
		renderInlines(b, n.Children)
		b.WriteString("</p>")
	case TypeHeading:
		tag := "h" + strconv.Itoa(HeadingLevel(n.Tag))
		b.WriteString("<" + tag + ">")
		renderInlines(b, n.Children)
		b.WriteString("</" + tag + ">")
	case TypeQuote:
		b.WriteString("<blockquote>")
		renderInlines(b, n.Children)
		b.WriteString("</blockquote>")
	case TypeList:
		renderList(b, n)
	case TypeText, TypeLink, TypeAutoLink, TypeLineBreak:
		renderInline(b, n)
	}
}

func renderList(b *strings.Builder, n *Node) {
	tag := "ul"
	if isOrdered(n) {
		tag = "ol"
	}
	b.WriteString("<" + tag + ">")
	for _, item := range n.Children {
		if item == nil || item.Type != TypeListItem {
			continue
		}
		b.WriteString("<li>")
		for _, c := range item.Children {
			if c != nil && c.Type == TypeList {
				renderList(b, c)
				continue
			}
			renderInline(b, c)
		}
		b.WriteString("</li>")
	}
	b.WriteString("</" + tag + ">")
}

func renderInlines(b *strings.Builder, nodes []*Node) {
	for _, n := range nodes {
		renderInline(b, n)
	}
}

func renderInline(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.Type {
	case TypeText:
		b.WriteString(formatText(n.Text, n.Format))
	case TypeLineBreak:
		b.WriteString("<br>")
	case TypeLink, TypeAutoLink:
		b.WriteString(`<a href="`)
		b.WriteString(template.HTMLEscapeString(SafeHref(n.URL)))
		b.WriteString(`"`)
		if n.NewTab {
			b.WriteString(` target="_blank" rel="noopener noreferrer"`)
		}
		b.WriteString(">")
		renderInlines(b, n.Children)
		b.WriteString("</a>")
	case TypeParagraph, TypeHeading, TypeQuote:
		// flattened into the surrounding inline context, e.g. a list item
		renderInlines(b, n.Children)
	}
}

// formatText applies the format bits as nested wrappers, bold outside
// italic, independent of the order the bits are tested in.
func formatText(text string, format int) string {
	s := template.HTMLEscapeString(text)
	if format&FormatItalic != 0 {
		s = "<em>" + s + "</em>"
	}
	if format&FormatBold != 0 {
		s = "<strong>" + s + "</strong>"
	}
	return s
}

// HeadingLevel parses a heading tag such as "h3" or "3". Missing,
// non-numeric and out of range values yield DefaultHeadingLevel.
func HeadingLevel(tag string) int {
	tag = strings.TrimSpace(strings.ToLower(tag))
	tag = strings.TrimPrefix(tag, "h")
	level, err := strconv.Atoi(tag)
	if err != nil || level < 1 || level > 6 {
		return DefaultHeadingLevel
	}
	return level
}

func isOrdered(n *Node) bool {
	switch strings.ToLower(strings.TrimSpace(n.ListType)) {
	case "number", "ordered":
		return true
	}
	return strings.EqualFold(n.Tag, "ol")
}

// SafeHref returns u if it is a relative reference or uses a scheme that is
// safe to follow, and "#" otherwise.
func SafeHref(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return "#"
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return "#"
	}
	switch strings.ToLower(parsed.Scheme) {
	case "", "http", "https", "mailto", "tel":
		return u
	}
	return "#"
}

func nodeText(n *Node) string {
	if n == nil {
		return ""
	}
	if n.Type == TypeText {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(nodeText(c))
	}
	return b.String()
}
