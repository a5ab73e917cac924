package nav

import (
	"bytes"
	"fmt"
	"strings"
)

// Link is a resolved menu entry ready for a template.
type Link struct {
	Label  string
	Href   string
	Active bool
	// ActiveTrail is set when the link or any of its descendants is
	// active, so a dropdown can be highlighted for its nested routes.
	ActiveTrail bool
	External    bool
	NewTab      bool
	Dropdown    bool
	Children    []Link
}

// Menu is the rendered navigation for one request.
type Menu struct {
	Links []Link
	CTA   *Link
}

// DefaultItems is the menu used when the navigation record is missing or
// has no items.
func DefaultItems() []*Item {
	return []*Item{
		{Label: "Home", InternalPath: "/"},
		{Label: "About", InternalPath: "/about"},
		{Label: "Courses", InternalPath: "/courses"},
		{Label: "Instructors", InternalPath: "/instructors"},
		{Label: "News", InternalPath: "/news"},
		{Label: "Blog", InternalPath: "/blog"},
		{Label: "Contact", InternalPath: "/contact"},
	}
}

// Build resolves n for currentPath. Hidden items are dropped after every
// link has been resolved, so visibility never changes how siblings match.
func Build(n *Navigation, currentPath string) Menu {
	items := DefaultItems()
	if n != nil && hasItems(n.MenuItems) {
		items = n.MenuItems
	}

	m := Menu{Links: filterVisible(resolveAll(items, currentPath))}
	if n != nil && n.CTAButton.IsVisible() && strings.TrimSpace(n.CTAButton.Label) != "" {
		cta := resolve(n.CTAButton, currentPath)
		cta.Children = nil
		m.CTA = &cta.Link
	}
	return m
}

type resolved struct {
	Link
	visible  bool
	children []resolved
}

func resolveAll(items []*Item, currentPath string) []resolved {
	out := make([]resolved, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, resolve(it, currentPath))
	}
	return out
}

func resolve(it *Item, currentPath string) resolved {
	href := ResolveHref(it)
	r := resolved{
		Link: Link{
			Label:    it.Label,
			Href:     href,
			Active:   IsActive(it, currentPath),
			External: strings.EqualFold(it.LinkType, LinkExternal) && href != HrefNone,
			NewTab:   it.NewTab,
			Dropdown: strings.EqualFold(it.LinkType, LinkDropdown),
		},
		visible:  it.IsVisible(),
		children: resolveAll(it.Children, currentPath),
	}
	r.ActiveTrail = r.Active
	for _, c := range r.children {
		if c.ActiveTrail {
			r.ActiveTrail = true
		}
	}
	return r
}

func filterVisible(rs []resolved) []Link {
	var out []Link
	for _, r := range rs {
		if !r.visible {
			continue
		}
		l := r.Link
		l.Children = filterVisible(r.children)
		out = append(out, l)
	}
	return out
}

func hasItems(items []*Item) bool {
	for _, it := range items {
		if it != nil {
			return true
		}
	}
	return false
}

// Outline returns an indented text view of the menu, for debugging.
func (m Menu) Outline() string {
	buf := bytes.Buffer{}
	var walk func(links []Link, level int)
	walk = func(links []Link, level int) {
		for _, l := range links {
			fmt.Fprintf(&buf, "%s%q %s", strings.Repeat("\t", level), l.Label, l.Href)
			if l.Active {
				fmt.Fprintf(&buf, " (active)")
			} else if l.ActiveTrail {
				fmt.Fprintf(&buf, " (trail)")
			}
			fmt.Fprintln(&buf)
			walk(l.Children, level+1)
		}
	}
	walk(m.Links, 0)
	if m.CTA != nil {
		fmt.Fprintf(&buf, "CTA: %q %s\n", m.CTA.Label, m.CTA.Href)
	}
	return buf.String()
}
