package section

import (
	"encoding/json"
	"html/template"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Field describes one editable field of a section type. The editing surface
// uses the contract to build its forms; rendering never consults it.
type Field struct {
	Name     string `json:"name"`
	Label    string `json:"label,omitempty"`
	Kind     string `json:"kind"`
	Required bool   `json:"required,omitempty"`
	// Of lists the nested fields of array and group kinds.
	Of []Field `json:"of,omitempty"`
}

// Field kinds.
const (
	KindText     = "text"
	KindTextarea = "textarea"
	KindRichText = "richtext"
	KindNumber   = "number"
	KindBoolean  = "boolean"
	KindSelect   = "select"
	KindImage    = "image"
	KindLink     = "link"
	KindArray    = "array"
	KindGroup    = "group"
	KindCode     = "code"
)

// Definition binds a section type to its field contract and renderer.
type Definition struct {
	Type   string
	Label  string
	Fields []Field

	decode func(raw json.RawMessage) (Payload, error)
	render func(env Env, p Payload) template.HTML
}

// Define builds a Definition for payload type T. The type name is taken
// from T's Kind method, so a definition can never be registered under a
// name its payload disagrees with.
func Define[T any, P interface {
	*T
	Payload
}](label string, fields []Field, render func(env Env, p P) template.HTML) Definition {
	return Definition{
		Type:   P(new(T)).Kind(),
		Label:  label,
		Fields: fields,
		decode: func(raw json.RawMessage) (Payload, error) {
			p := P(new(T))
			if err := decodePayload(raw, p); err != nil {
				return nil, err
			}
			return p, nil
		},
		render: func(env Env, pl Payload) template.HTML {
			p, ok := pl.(P)
			if !ok || p == nil {
				return ""
			}
			return render(env, p)
		},
	}
}

// Registry maps section types to definitions. It is filled once at start-up
// and read concurrently afterwards.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds def. Empty names, missing renderers and duplicate types are
// rejected.
func (r *Registry) Register(def Definition) error {
	name := normalize(def.Type)
	if name == "" {
		return errors.Errorf("section: type name is required")
	}
	if def.decode == nil || def.render == nil {
		return errors.Errorf("section: definition for %q has no renderer", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[name]; exists {
		return errors.Errorf("section: type %q already registered", name)
	}
	def.Type = name
	r.defs[name] = def
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup returns the definition registered for typ.
func (r *Registry) Lookup(typ string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[normalize(typ)]
	if !ok {
		return Definition{}, false
	}
	def.Fields = slices.Clone(def.Fields)
	return def, true
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve returns s with its payload decoded. Sections of unknown type and
// payloads that do not decode are returned with a nil Payload.
func (r *Registry) Resolve(s Section) Section {
	if s.Payload != nil {
		return s
	}
	def, ok := r.Lookup(s.Type)
	if !ok || isNull(s.RawPayload) {
		return s
	}
	p, err := def.decode(s.RawPayload)
	if err != nil {
		return s
	}
	s.Payload = p
	return s
}

// Dispatch renders a single section. Unknown types, missing or malformed
// payloads, and payloads belonging to another type all render as "".
func (r *Registry) Dispatch(env Env, s Section) template.HTML {
	def, ok := r.Lookup(s.Type)
	if !ok {
		return ""
	}
	s = r.Resolve(s)
	if s.Payload == nil || s.Payload.Kind() != def.Type {
		return ""
	}
	body := def.render(env, s.Payload)
	if strings.TrimSpace(string(body)) == "" {
		return ""
	}
	return wrap(s, def.Type, body)
}

// RenderPage renders sections in the order given. Nothing is reordered,
// deduplicated or filtered here; an empty list renders as "".
func (r *Registry) RenderPage(env Env, sections []Section) template.HTML {
	var b strings.Builder
	for _, s := range sections {
		b.WriteString(string(r.Dispatch(env, s)))
	}
	return template.HTML(b.String())
}
