package section

var (
	imageFields  = []Field{{Name: "src", Kind: KindImage, Required: true}, {Name: "alt", Kind: KindText}, {Name: "caption", Kind: KindText}}
	buttonFields = []Field{{Name: "label", Kind: KindText, Required: true}, {Name: "href", Kind: KindLink}, {Name: "style", Kind: KindSelect}}
)

// NewDefaultRegistry returns a registry holding every built-in section
// type. The set is fixed at start-up.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(Define("Hero", []Field{
		{Name: "heading", Kind: KindText, Required: true},
		{Name: "subheading", Kind: KindTextarea},
		{Name: "image", Kind: KindGroup, Of: imageFields},
		{Name: "buttons", Kind: KindArray, Of: buttonFields},
		{Name: "alignment", Kind: KindSelect},
	}, renderHero))

	r.MustRegister(Define("Cards", []Field{
		{Name: "columns", Kind: KindNumber},
		{Name: "items", Kind: KindArray, Required: true, Of: []Field{
			{Name: "title", Kind: KindText},
			{Name: "body", Kind: KindTextarea},
			{Name: "image", Kind: KindGroup, Of: imageFields},
			{Name: "link", Kind: KindGroup, Of: buttonFields},
		}},
	}, renderCards))

	r.MustRegister(Define("Gallery", []Field{
		{Name: "layout", Kind: KindSelect},
		{Name: "images", Kind: KindArray, Required: true, Of: imageFields},
	}, renderGallery))

	r.MustRegister(Define("Call to action", []Field{
		{Name: "heading", Kind: KindText},
		{Name: "body", Kind: KindTextarea},
		{Name: "button", Kind: KindGroup, Of: buttonFields},
	}, renderCTA))

	r.MustRegister(Define("FAQ", []Field{
		{Name: "items", Kind: KindArray, Required: true, Of: []Field{
			{Name: "question", Kind: KindText, Required: true},
			{Name: "answer", Kind: KindRichText},
		}},
	}, renderFAQ))

	r.MustRegister(Define("Testimonials", []Field{
		{Name: "items", Kind: KindArray, Required: true, Of: []Field{
			{Name: "quote", Kind: KindTextarea, Required: true},
			{Name: "author", Kind: KindText},
			{Name: "role", Kind: KindText},
			{Name: "avatar", Kind: KindGroup, Of: imageFields},
		}},
	}, renderTestimonials))

	r.MustRegister(Define("Stats", []Field{
		{Name: "items", Kind: KindArray, Required: true, Of: []Field{
			{Name: "value", Kind: KindText, Required: true},
			{Name: "label", Kind: KindText},
			{Name: "suffix", Kind: KindText},
		}},
	}, renderStats))

	r.MustRegister(Define("Team", []Field{
		{Name: "members", Kind: KindArray, Required: true, Of: []Field{
			{Name: "name", Kind: KindText, Required: true},
			{Name: "role", Kind: KindText},
			{Name: "bio", Kind: KindTextarea},
			{Name: "photo", Kind: KindGroup, Of: imageFields},
		}},
	}, renderTeam))

	r.MustRegister(Define("Contact form", []Field{
		{Name: "formId", Kind: KindText},
		{Name: "submitLabel", Kind: KindText},
		{Name: "fields", Kind: KindArray, Of: []Field{
			{Name: "name", Kind: KindText, Required: true},
			{Name: "label", Kind: KindText},
			{Name: "kind", Kind: KindSelect},
			{Name: "required", Kind: KindBoolean},
			{Name: "options", Kind: KindArray, Of: []Field{{Name: "value", Kind: KindText}}},
		}},
	}, renderContactForm))

	r.MustRegister(Define("Video", []Field{
		{Name: "url", Kind: KindLink, Required: true},
		{Name: "caption", Kind: KindText},
		{Name: "autoplay", Kind: KindBoolean},
	}, renderVideo))

	r.MustRegister(Define("Custom markup", []Field{
		{Name: "html", Kind: KindCode},
		{Name: "markdown", Kind: KindCode},
	}, renderCustomMarkup))

	r.MustRegister(Define("Spacer", []Field{
		{Name: "size", Kind: KindSelect},
	}, renderSpacer))

	r.MustRegister(Define("Rich text", []Field{
		{Name: "content", Kind: KindRichText, Required: true},
	}, renderRichText))

	return r
}
