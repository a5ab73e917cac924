package section

import (
	"html/template"
	"net/url"
	"slices"
	"strings"

	"github.com/lemmi/blocksite/richtext"
)

// Each renderer reads only its own payload. Items missing their required
// field are dropped; when nothing is left the renderer returns "" and the
// section is omitted.

func renderHero(_ Env, p *Hero) template.HTML {
	if strings.TrimSpace(p.Heading) == "" {
		return ""
	}
	hero := *p
	hero.Buttons = filter(p.Buttons, func(b Button) bool { return b.ok() })
	return execute(TypeHero, hero)
}

func renderCards(_ Env, p *Cards) template.HTML {
	items := filter(p.Items, func(c Card) bool {
		return strings.TrimSpace(c.Title) != "" || strings.TrimSpace(c.Body) != ""
	})
	if len(items) == 0 {
		return ""
	}
	cols := p.Columns
	if cols < 1 || cols > 4 {
		cols = min(max(len(items), 1), 3)
	}
	return execute(TypeCards, Cards{Columns: cols, Items: items})
}

func renderGallery(_ Env, p *Gallery) template.HTML {
	images := filter(p.Images, func(i Image) bool { return i.ok() })
	if len(images) == 0 {
		return ""
	}
	layout := classToken(p.Layout)
	if layout != "carousel" && layout != "masonry" {
		layout = "grid"
	}
	return execute(TypeGallery, Gallery{Layout: layout, Images: images})
}

func renderCTA(_ Env, p *CTA) template.HTML {
	if strings.TrimSpace(p.Heading) == "" && !p.Button.ok() {
		return ""
	}
	return execute(TypeCTA, p)
}

func renderFAQ(_ Env, p *FAQ) template.HTML {
	items := filter(p.Items, func(i FAQItem) bool { return strings.TrimSpace(i.Question) != "" })
	if len(items) == 0 {
		return ""
	}
	return execute(TypeFAQ, FAQ{Items: items})
}

func renderTestimonials(_ Env, p *Testimonials) template.HTML {
	items := filter(p.Items, func(t Testimonial) bool { return strings.TrimSpace(t.Quote) != "" })
	if len(items) == 0 {
		return ""
	}
	return execute(TypeTestimonials, Testimonials{Items: items})
}

func renderStats(_ Env, p *Stats) template.HTML {
	items := filter(p.Items, func(s Stat) bool { return strings.TrimSpace(s.Value) != "" })
	if len(items) == 0 {
		return ""
	}
	return execute(TypeStats, Stats{Items: items})
}

func renderTeam(_ Env, p *Team) template.HTML {
	members := filter(p.Members, func(m Member) bool { return strings.TrimSpace(m.Name) != "" })
	if len(members) == 0 {
		return ""
	}
	return execute(TypeTeam, Team{Members: members})
}

var defaultFormFields = []FormField{
	{Name: "name", Label: "Name", Kind: "text", Required: true},
	{Name: "email", Label: "Email", Kind: "email", Required: true},
	{Name: "message", Label: "Message", Kind: "textarea", Required: true},
}

type contactFormData struct {
	Action string
	Submit string
	Fields []FormField
}

func renderContactForm(env Env, p *ContactForm) template.HTML {
	fields := filter(p.Fields, func(f FormField) bool { return strings.TrimSpace(f.Name) != "" })
	if len(fields) == 0 {
		if strings.TrimSpace(p.FormID) == "" {
			return ""
		}
		fields = slices.Clone(defaultFormFields)
	}
	for i := range fields {
		fields[i].Kind = formFieldKind(fields[i].Kind)
		if fields[i].Label == "" {
			fields[i].Label = fields[i].Name
		}
	}
	submit := strings.TrimSpace(p.SubmitLabel)
	if submit == "" {
		submit = "Send"
	}
	return execute(TypeContactForm, contactFormData{
		Action: env.formAction(classToken(p.FormID)),
		Submit: submit,
		Fields: fields,
	})
}

func formFieldKind(kind string) string {
	switch k := strings.ToLower(strings.TrimSpace(kind)); k {
	case "email", "tel", "number", "textarea", "select", "url", "date":
		return k
	}
	return "text"
}

type videoData struct {
	Src      string
	Embed    bool
	Caption  string
	Autoplay bool
}

func renderVideo(_ Env, p *Video) template.HTML {
	if strings.TrimSpace(p.URL) == "" {
		return ""
	}
	src, embed := EmbedURL(p.URL)
	if embed && p.Autoplay {
		src += "?autoplay=1&mute=1"
	}
	return execute(TypeVideo, videoData{Src: src, Embed: embed, Caption: p.Caption, Autoplay: p.Autoplay})
}

// EmbedURL maps YouTube and Vimeo page links to their player URLs. Other
// URLs are returned unchanged with embed set to false.
func EmbedURL(raw string) (src string, embed bool) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return raw, false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	path := strings.Trim(u.Path, "/")

	switch host {
	case "youtube.com", "youtube-nocookie.com":
		id := u.Query().Get("v")
		if rest, ok := strings.CutPrefix(path, "embed/"); ok {
			id = rest
		}
		if id != "" {
			return "https://www.youtube-nocookie.com/embed/" + url.PathEscape(id), true
		}
	case "youtu.be":
		if path != "" {
			return "https://www.youtube-nocookie.com/embed/" + url.PathEscape(path), true
		}
	case "vimeo.com":
		if path != "" && strings.Trim(path, "0123456789") == "" {
			return "https://player.vimeo.com/video/" + path, true
		}
	}
	return raw, false
}

func renderCustomMarkup(_ Env, p *CustomMarkup) template.HTML {
	markup := sanitizeMarkup(p)
	if markup == "" {
		return ""
	}
	return execute(TypeCustomMarkup, markup)
}

func renderSpacer(_ Env, p *Spacer) template.HTML {
	size := classToken(p.Size)
	switch size {
	case "small", "medium", "large":
	default:
		size = "medium"
	}
	return execute(TypeSpacer, size)
}

func renderRichText(_ Env, p *RichText) template.HTML {
	body := richtext.Render(p.Content)
	if strings.TrimSpace(string(body)) == "" {
		return ""
	}
	return execute(TypeRichText, body)
}

func filter[T any](in []T, keep func(T) bool) []T {
	var out []T
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
