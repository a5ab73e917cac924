// Package richtext renders author-edited rich-text trees into HTML.
//
// The input is the tree interchange format produced by the editor:
//
//	{"root": {"children": [{"type": "paragraph", "children": [...]}, ...]}}
//
// Every node carries a "type" discriminator. Authors may save partial
// content, so any node may be null or carry fields of the wrong kind; the
// decoder keeps whatever it can and the renderer skips the rest.
package richtext

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Node types understood by the renderer. Anything else is skipped.
const (
	TypeParagraph = "paragraph"
	TypeHeading   = "heading"
	TypeList      = "list"
	TypeListItem  = "listitem"
	TypeLink      = "link"
	TypeAutoLink  = "autolink"
	TypeText      = "text"
	TypeLineBreak = "linebreak"
	TypeQuote     = "quote"
)

// Format bits of a text node. Higher bits are reserved and ignored.
const (
	FormatBold = 1 << iota
	FormatItalic
)

// Document is the root of a rich-text tree.
type Document struct {
	Root *Node `json:"root"`
}

// Node is a single element of the tree. Only the fields relevant to a
// node's Type are populated.
type Node struct {
	Type     string  `json:"type"`
	Children []*Node `json:"children,omitempty"`

	// text
	Text   string `json:"text,omitempty"`
	Format int    `json:"format,omitempty"`

	// heading: "h1".."h6", or a bare number
	Tag string `json:"tag,omitempty"`

	// list: "number"/"ordered" for ordered lists
	ListType string `json:"listType,omitempty"`

	// link
	URL    string `json:"url,omitempty"`
	NewTab bool   `json:"newTab,omitempty"`
}

// Parse decodes a document and returns nil if b is not a JSON object.
func Parse(b []byte) *Document {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil
	}
	return &doc
}

// UnmarshalJSON decodes a document leniently. Anything but an object with
// a root node is an empty document.
func (d *Document) UnmarshalJSON(b []byte) error {
	*d = Document{}
	var raw struct {
		Root json.RawMessage `json:"root"`
	}
	if json.Unmarshal(b, &raw) != nil || len(raw.Root) == 0 || string(raw.Root) == "null" {
		return nil
	}
	var root Node
	if err := json.Unmarshal(raw.Root, &root); err != nil {
		return nil
	}
	d.Root = &root
	return nil
}

// IsEmpty reports whether the document has no renderable children.
func (d *Document) IsEmpty() bool {
	if d == nil || d.Root == nil {
		return true
	}
	for _, c := range d.Root.Children {
		if c != nil {
			return false
		}
	}
	return true
}

// UnmarshalJSON decodes a node leniently. A value that is not an object
// yields an empty node and fields of the wrong kind are left zero, so one
// bad node never fails the whole document.
func (n *Node) UnmarshalJSON(b []byte) error {
	*n = Node{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}

	n.Type = rawString(raw["type"])
	n.Text = rawString(raw["text"])
	n.Format = rawInt(raw["format"])
	n.ListType = rawString(raw["listType"])

	n.Tag = rawString(raw["tag"])
	if n.Tag == "" {
		n.Tag = rawString(raw["level"])
	}

	n.URL = rawString(raw["url"])
	n.NewTab = rawBool(raw["newTab"])
	if fields, ok := raw["fields"]; ok {
		var f map[string]json.RawMessage
		if json.Unmarshal(fields, &f) == nil {
			if n.URL == "" {
				n.URL = rawString(f["url"])
			}
			n.NewTab = n.NewTab || rawBool(f["newTab"])
		}
	}

	var children []json.RawMessage
	if json.Unmarshal(raw["children"], &children) == nil {
		for _, c := range children {
			var child *Node
			// null decodes to a nil child and is skipped when rendering
			_ = json.Unmarshal(c, &child)
			n.Children = append(n.Children, child)
		}
	}
	return nil
}

func rawString(b json.RawMessage) string {
	if len(b) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(b, &s) == nil {
		return s
	}
	var f float64
	if json.Unmarshal(b, &f) == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

func rawInt(b json.RawMessage) int {
	if len(b) == 0 {
		return 0
	}
	var f float64
	if json.Unmarshal(b, &f) == nil {
		return int(f)
	}
	var s string
	if json.Unmarshal(b, &s) == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i
		}
	}
	return 0
}

func rawBool(b json.RawMessage) bool {
	var v bool
	if len(b) == 0 || json.Unmarshal(b, &v) != nil {
		return false
	}
	return v
}
