package section

import (
	"strings"

	"github.com/lemmi/blocksite/richtext"
)

// Image is a media reference. Uploads are handled elsewhere; only the
// resolved URL is needed here.
type Image struct {
	Src     string `json:"src,omitempty"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

func (i *Image) ok() bool { return i != nil && strings.TrimSpace(i.Src) != "" }

// Button is a labelled link.
type Button struct {
	Label string `json:"label,omitempty"`
	Href  string `json:"href,omitempty"`
	Style string `json:"style,omitempty"`
}

func (b *Button) ok() bool { return b != nil && strings.TrimSpace(b.Label) != "" }

type Hero struct {
	Heading    string   `json:"heading,omitempty"`
	Subheading string   `json:"subheading,omitempty"`
	Image      *Image   `json:"image,omitempty"`
	Buttons    []Button `json:"buttons,omitempty"`
	Alignment  string   `json:"alignment,omitempty"`
}

type Card struct {
	Title string  `json:"title,omitempty"`
	Body  string  `json:"body,omitempty"`
	Image *Image  `json:"image,omitempty"`
	Link  *Button `json:"link,omitempty"`
}

type Cards struct {
	Columns int    `json:"columns,omitempty"`
	Items   []Card `json:"items,omitempty"`
}

type Gallery struct {
	Layout string  `json:"layout,omitempty"`
	Images []Image `json:"images,omitempty"`
}

type CTA struct {
	Heading string  `json:"heading,omitempty"`
	Body    string  `json:"body,omitempty"`
	Button  *Button `json:"button,omitempty"`
}

type FAQItem struct {
	Question string             `json:"question,omitempty"`
	Answer   *richtext.Document `json:"answer,omitempty"`
}

type FAQ struct {
	Items []FAQItem `json:"items,omitempty"`
}

type Testimonial struct {
	Quote  string `json:"quote,omitempty"`
	Author string `json:"author,omitempty"`
	Role   string `json:"role,omitempty"`
	Avatar *Image `json:"avatar,omitempty"`
}

type Testimonials struct {
	Items []Testimonial `json:"items,omitempty"`
}

type Stat struct {
	Value  string `json:"value,omitempty"`
	Label  string `json:"label,omitempty"`
	Suffix string `json:"suffix,omitempty"`
}

type Stats struct {
	Items []Stat `json:"items,omitempty"`
}

type Member struct {
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
	Bio   string `json:"bio,omitempty"`
	Photo *Image `json:"photo,omitempty"`
}

type Team struct {
	Members []Member `json:"members,omitempty"`
}

type FormField struct {
	Name     string   `json:"name,omitempty"`
	Label    string   `json:"label,omitempty"`
	Kind     string   `json:"kind,omitempty"`
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
}

type ContactForm struct {
	FormID      string      `json:"formId,omitempty"`
	SubmitLabel string      `json:"submitLabel,omitempty"`
	Fields      []FormField `json:"fields,omitempty"`
}

type Video struct {
	URL      string `json:"url,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Autoplay bool   `json:"autoplay,omitempty"`
}

type CustomMarkup struct {
	HTML     string `json:"html,omitempty"`
	Markdown string `json:"markdown,omitempty"`
}

type Spacer struct {
	Size string `json:"size,omitempty"`
}

type RichText struct {
	Content *richtext.Document `json:"content,omitempty"`
}

func (*Hero) Kind() string         { return TypeHero }
func (*Cards) Kind() string        { return TypeCards }
func (*Gallery) Kind() string      { return TypeGallery }
func (*CTA) Kind() string          { return TypeCTA }
func (*FAQ) Kind() string          { return TypeFAQ }
func (*Testimonials) Kind() string { return TypeTestimonials }
func (*Stats) Kind() string        { return TypeStats }
func (*Team) Kind() string         { return TypeTeam }
func (*ContactForm) Kind() string  { return TypeContactForm }
func (*Video) Kind() string        { return TypeVideo }
func (*CustomMarkup) Kind() string { return TypeCustomMarkup }
func (*Spacer) Kind() string       { return TypeSpacer }
func (*RichText) Kind() string     { return TypeRichText }

func (*Hero) payload()         {}
func (*Cards) payload()        {}
func (*Gallery) payload()      {}
func (*CTA) payload()          {}
func (*FAQ) payload()          {}
func (*Testimonials) payload() {}
func (*Stats) payload()        {}
func (*Team) payload()         {}
func (*ContactForm) payload()  {}
func (*Video) payload()        {}
func (*CustomMarkup) payload() {}
func (*Spacer) payload()       {}
func (*RichText) payload()     {}
