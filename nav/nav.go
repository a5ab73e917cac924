// Package nav resolves menu items to links and marks the entries that
// belong to the current route.
package nav

import (
	"strings"
)

// Link types of a menu item. An empty or unknown type is treated as
// LinkInternal.
const (
	LinkInternal = "internal"
	LinkExternal = "external"
	LinkAnchor   = "anchor"
	LinkDropdown = "dropdown"
	LinkCustom   = "custom"
)

// Sentinel hrefs.
const (
	HrefNone = "#"
	HrefRoot = "/"
)

// PageRef is a reference to a dynamic page record.
type PageRef struct {
	Slug string `json:"slug,omitempty" yaml:"slug,omitempty"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Item is one node of the menu graph. Children may nest to any depth.
type Item struct {
	Label    string `json:"label" yaml:"label"`
	LinkType string `json:"linkType,omitempty" yaml:"linkType,omitempty"`
	// Visible defaults to true when unset.
	Visible *bool `json:"visible,omitempty" yaml:"visible,omitempty"`

	URL          string   `json:"url,omitempty" yaml:"url,omitempty"`
	Anchor       string   `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	CustomPath   string   `json:"customPath,omitempty" yaml:"customPath,omitempty"`
	InternalPath string   `json:"internalPath,omitempty" yaml:"internalPath,omitempty"`
	Page         *PageRef `json:"page,omitempty" yaml:"page,omitempty"`
	NewTab       bool     `json:"newTab,omitempty" yaml:"newTab,omitempty"`

	Children []*Item `json:"children,omitempty" yaml:"children,omitempty"`
}

// Navigation is the site-wide navigation record.
type Navigation struct {
	MenuItems []*Item `json:"menuItems,omitempty" yaml:"menuItems,omitempty"`
	CTAButton *Item   `json:"ctaButton,omitempty" yaml:"ctaButton,omitempty"`
}

// IsVisible reports whether the item should be rendered.
func (it *Item) IsVisible() bool {
	return it != nil && (it.Visible == nil || *it.Visible)
}

// ResolveHref returns the URL an item points to. Missing targets degrade
// to "#" or "/", never to an empty string. Dropdowns are never navigable.
func ResolveHref(it *Item) string {
	if it == nil {
		return HrefNone
	}
	switch strings.ToLower(strings.TrimSpace(it.LinkType)) {
	case LinkExternal:
		return orDefault(it.URL, HrefNone)
	case LinkAnchor:
		anchor := strings.TrimSpace(it.Anchor)
		if anchor == "" {
			return HrefNone
		}
		return anchor
	case LinkDropdown:
		return HrefNone
	case LinkCustom:
		return orDefault(it.CustomPath, HrefRoot)
	}
	if p := it.Page.path(); p != "" {
		return p
	}
	return orDefault(it.InternalPath, HrefRoot)
}

// IsActive reports whether the item belongs to currentPath. The root link
// only matches "/" exactly; any other link matches its own path and every
// path below it.
func IsActive(it *Item, currentPath string) bool {
	href := ResolveHref(it)
	if href == HrefRoot {
		return currentPath == HrefRoot
	}
	if href == HrefNone {
		return false
	}
	return strings.HasPrefix(currentPath, href)
}

func (p *PageRef) path() string {
	if p == nil {
		return ""
	}
	if path := strings.TrimSpace(p.Path); path != "" {
		return path
	}
	slug := strings.Trim(strings.TrimSpace(p.Slug), "/")
	switch slug {
	case "":
		return ""
	case "home", "index":
		return HrefRoot
	}
	return "/" + slug
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
