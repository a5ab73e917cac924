package section

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/lemmi/blocksite/richtext"
)

var templates = template.Must(template.New("section").Funcs(template.FuncMap{
	"richtext": richtext.Render,
	"href":     href,
	"class":    classToken,
}).Parse(sectionTemplates))

const sectionTemplates = `
{{define "wrap"}}<section{{with .ID}} id="section-{{.}}"{{end}} class="section section--{{.Type}}{{with .Background}} bg-{{.}}{{end}}">
{{- if or .Title .Subtitle}}<header class="section__header">{{with .Title}}<h2>{{.}}</h2>{{end}}{{with .Subtitle}}<p class="section__subtitle">{{.}}</p>{{end}}</header>{{end -}}
{{.Body}}</section>
{{end}}

{{define "button"}}<a class="button{{with .Style}} button--{{class .}}{{end}}" href="{{href .Href}}">{{.Label}}</a>{{end}}

{{define "image"}}<img src="{{.Src}}" alt="{{.Alt}}" loading="lazy">{{end}}

{{define "hero"}}<div class="hero{{with .Alignment}} hero--{{class .}}{{end}}">
{{- with .Image}}{{if .Src}}<div class="hero__media">{{template "image" .}}</div>{{end}}{{end -}}
<div class="hero__content"><h1>{{.Heading}}</h1>{{with .Subheading}}<p class="hero__lead">{{.}}</p>{{end}}
{{- with .Buttons}}<div class="hero__actions">{{range .}}{{template "button" .}}{{end}}</div>{{end -}}
</div></div>{{end}}

{{define "cards"}}<div class="cards cards--cols-{{.Columns}}">
{{- range .Items}}<article class="card">
{{- with .Image}}{{if .Src}}{{template "image" .}}{{end}}{{end -}}
{{with .Title}}<h3>{{.}}</h3>{{end}}{{with .Body}}<p>{{.}}</p>{{end}}
{{- with .Link}}{{if .Label}}{{template "button" .}}{{end}}{{end -}}
</article>{{end -}}
</div>{{end}}

{{define "gallery"}}<div class="gallery gallery--{{.Layout}}">
{{- range .Images}}<figure>{{template "image" .}}{{with .Caption}}<figcaption>{{.}}</figcaption>{{end}}</figure>{{end -}}
</div>{{end}}

{{define "cta"}}<div class="cta">{{with .Heading}}<h2>{{.}}</h2>{{end}}{{with .Body}}<p>{{.}}</p>{{end}}
{{- with .Button}}{{if .Label}}{{template "button" .}}{{end}}{{end -}}
</div>{{end}}

{{define "faq"}}<dl class="faq">
{{- range .Items}}<dt>{{.Question}}</dt><dd>{{richtext .Answer}}</dd>{{end -}}
</dl>{{end}}

{{define "testimonials"}}<div class="testimonials">
{{- range .Items}}<blockquote class="testimonial"><p>{{.Quote}}</p>
{{- if .Author}}<footer>{{with .Avatar}}{{if .Src}}{{template "image" .}}{{end}}{{end}}<cite>{{.Author}}</cite>{{with .Role}}<span class="testimonial__role">{{.}}</span>{{end}}</footer>{{end -}}
</blockquote>{{end -}}
</div>{{end}}

{{define "stats"}}<ul class="stats">
{{- range .Items}}<li class="stat"><span class="stat__value">{{.Value}}{{.Suffix}}</span>{{with .Label}}<span class="stat__label">{{.}}</span>{{end}}</li>{{end -}}
</ul>{{end}}

{{define "team"}}<div class="team">
{{- range .Members}}<article class="member">
{{- with .Photo}}{{if .Src}}{{template "image" .}}{{end}}{{end -}}
<h3>{{.Name}}</h3>{{with .Role}}<p class="member__role">{{.}}</p>{{end}}{{with .Bio}}<p>{{.}}</p>{{end}}
</article>{{end -}}
</div>{{end}}

{{define "contact-form"}}<form class="contact-form" method="post" action="{{.Action}}">
{{- range .Fields}}<label>{{.Label}}
{{- if eq .Kind "textarea"}}<textarea name="{{.Name}}"{{if .Required}} required{{end}}></textarea>
{{- else if eq .Kind "select"}}<select name="{{.Name}}"{{if .Required}} required{{end}}>{{range .Options}}<option>{{.}}</option>{{end}}</select>
{{- else}}<input type="{{.Kind}}" name="{{.Name}}"{{if .Required}} required{{end}}>{{end -}}
</label>{{end -}}
<button type="submit">{{.Submit}}</button></form>{{end}}

{{define "video"}}<figure class="video">
{{- if .Embed}}<iframe src="{{.Src}}" title="{{.Caption}}" loading="lazy" allowfullscreen></iframe>
{{- else}}<video src="{{.Src}}" controls{{if .Autoplay}} autoplay muted{{end}}></video>{{end -}}
{{with .Caption}}<figcaption>{{.}}</figcaption>{{end}}</figure>{{end}}

{{define "spacer"}}<div class="spacer spacer--{{.}}" aria-hidden="true"></div>{{end}}

{{define "rich-text"}}<div class="prose">{{.}}</div>{{end}}

{{define "custom-markup"}}<div class="markup">{{.}}</div>{{end}}
`

func execute(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return ""
	}
	return template.HTML(strings.TrimSpace(buf.String()))
}

type wrapData struct {
	ID         string
	Type       string
	Background string
	Title      string
	Subtitle   string
	Body       template.HTML
}

func wrap(s Section, typ string, body template.HTML) template.HTML {
	return execute("wrap", wrapData{
		ID:         classToken(s.ID),
		Type:       typ,
		Background: classToken(s.BackgroundStyle),
		Title:      strings.TrimSpace(s.Title),
		Subtitle:   strings.TrimSpace(s.Subtitle),
		Body:       body,
	})
}

// href applies the rich-text link allowlist, so button and inline links
// accept the same schemes.
func href(u string) template.URL {
	return template.URL(richtext.SafeHref(u))
}

// classToken reduces s to a string usable as a CSS class or id fragment.
func classToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}
