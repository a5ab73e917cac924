package blocksite

import (
	"strings"
	"time"

	"github.com/lemmi/blocksite/richtext"
)

// GCTime is a timestamp stored in the short "2006-01-02 15:04" layout.
type GCTime time.Time

const GCTimeLayout = "2006-01-02 15:04"

// UnmarshalJSON accepts the short layout and RFC 3339. An empty string is
// the zero time.
func (t *GCTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "" || s == "null" {
		*t = GCTime{}
		return nil
	}
	tmp, err := time.Parse(GCTimeLayout, s)
	if err != nil {
		tmp, err = time.Parse(time.RFC3339, s)
	}
	*t = GCTime(tmp)
	return err
}

func (t GCTime) String() string {
	return time.Time(t).Format(GCTimeLayout)
}

func (t GCTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// Meta is the record stored for a page in the pages collection.
type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	Date        GCTime `json:"date"`
	Order       int    `json:"order"`
	Status      string `json:"status,omitempty"`

	// Content is an optional rich-text body rendered above the sections.
	Content *richtext.Document `json:"content,omitempty"`

	ExtraStyle  []string `json:"extraStyle,omitempty"`
	ExtraScript []string `json:"extraScript,omitempty"`
}

// Settings is the globals/settings record.
type Settings struct {
	SiteName   string `json:"siteName"`
	FormAction string `json:"formAction,omitempty"`
	// Footer is rendered at the bottom of every page.
	Footer *richtext.Document `json:"footer,omitempty"`
}

// withDefaults fills unset fields from def.
func (s Settings) withDefaults(def Settings) Settings {
	if s.SiteName == "" {
		s.SiteName = def.SiteName
	}
	if s.FormAction == "" {
		s.FormAction = def.FormAction
	}
	if s.Footer == nil {
		s.Footer = def.Footer
	}
	return s
}
