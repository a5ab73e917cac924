// Package section composes pages out of typed content blocks.
//
// A Section is a tagged value: Type selects exactly one payload struct and
// that payload is only ever read by the renderer registered for the same
// type. Sections are rendered through a Registry, which maps each type to
// its Definition.
package section

import (
	"encoding/json"
	"strings"
)

// Section types known to the default registry.
const (
	TypeHero         = "hero"
	TypeCards        = "cards"
	TypeGallery      = "gallery"
	TypeCTA          = "cta"
	TypeFAQ          = "faq"
	TypeTestimonials = "testimonials"
	TypeStats        = "stats"
	TypeTeam         = "team"
	TypeContactForm  = "contact-form"
	TypeVideo        = "video"
	TypeCustomMarkup = "custom-markup"
	TypeSpacer       = "spacer"
	TypeRichText     = "rich-text"
)

// Payload is the variant-specific part of a section. The set of
// implementations is closed: one per registered type.
type Payload interface {
	Kind() string
	payload()
}

// Section is one typed block of page content.
type Section struct {
	ID              string  `json:"id,omitempty"`
	Type            string  `json:"type"`
	Title           string  `json:"title,omitempty"`
	Subtitle        string  `json:"subtitle,omitempty"`
	BackgroundStyle string  `json:"backgroundStyle,omitempty"`
	Payload         Payload `json:"-"`

	// RawPayload holds the undecoded payload until a Registry resolves it.
	RawPayload json.RawMessage `json:"payload,omitempty"`
}

// UnmarshalJSON decodes the section envelope. The payload is kept raw and
// decoded lazily by the registry, which knows the concrete type.
func (s *Section) UnmarshalJSON(b []byte) error {
	type envelope Section
	var e envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return err
	}
	*s = Section(e)
	s.Type = normalize(s.Type)
	if isNull(s.RawPayload) {
		s.RawPayload = nil
	}
	return nil
}

// MarshalJSON encodes the decoded payload when there is one.
func (s Section) MarshalJSON() ([]byte, error) {
	type envelope Section
	e := envelope(s)
	if s.Payload != nil {
		raw, err := json.Marshal(s.Payload)
		if err != nil {
			return nil, err
		}
		e.RawPayload = raw
	}
	return json.Marshal(e)
}

// Env is the read-only context a page is rendered in. It is passed
// explicitly instead of being fetched by individual renderers.
type Env struct {
	SiteName    string
	CurrentPath string
	// FormAction is the path prefix contact forms are posted to.
	FormAction string
}

func (e Env) formAction(formID string) string {
	base := strings.TrimRight(e.FormAction, "/")
	if base == "" {
		base = "/forms"
	}
	if formID == "" {
		return base
	}
	return base + "/" + formID
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}
