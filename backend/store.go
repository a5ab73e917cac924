package backend

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("backend: not found")
	ErrReadOnly = errors.New("backend: store is read-only")
)

// Well-known collections.
const (
	CollectionPages   = "pages"
	CollectionGlobals = "globals"

	GlobalNavigation = "navigation"
	GlobalSettings   = "settings"
)

// Status values. Items without a status count as published.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// SectionsOf returns the collection holding the sections of page.
func SectionsOf(page string) string {
	return "sections/" + strings.Trim(page, "/")
}

// Item is one stored record. Data holds the full record as JSON; the other
// fields are extracted from it for querying.
type Item struct {
	ID         string          `json:"id"`
	Collection string          `json:"-"`
	Order      int             `json:"order"`
	Status     string          `json:"status,omitempty"`
	Type       string          `json:"type,omitempty"`
	Title      string          `json:"title,omitempty"`
	Data       json.RawMessage `json:"-"`
}

// Published reports whether the item is visible on the site.
func (it Item) Published() bool {
	return it.Status == "" || strings.EqualFold(it.Status, StatusPublished)
}

// Label is a short human readable name for editors.
func (it Item) Label() string {
	switch {
	case it.Title != "" && it.Type != "":
		return it.Type + ": " + it.Title
	case it.Title != "":
		return it.Title
	case it.Type != "":
		return it.Type
	}
	return it.ID
}

// Query narrows a collection read.
type Query struct {
	IncludeDrafts bool
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Order  *int
	Status *string
}

// Store is the document store collaborator. Query returns items sorted by
// order ascending, ties broken by id.
type Store interface {
	Query(ctx context.Context, collection string, q Query) ([]Item, error)
	Get(ctx context.Context, collection, id string) (Item, error)
	Update(ctx context.Context, collection, id string, p Patch) error
}

// BatchStore applies a complete ordering in one atomic write.
type BatchStore interface {
	Store
	UpdateOrders(ctx context.Context, collection string, orders map[string]int) error
}

// Decode unmarshals the item's record into v.
func (it Item) Decode(v any) error {
	if len(it.Data) == 0 {
		return errors.Wrapf(ErrNotFound, "%s/%s has no data", it.Collection, it.ID)
	}
	return errors.Wrapf(json.Unmarshal(it.Data, v), "decode %s/%s", it.Collection, it.ID)
}

// ItemFromRecord builds an item from its JSON record, extracting the query
// fields. Fields of the wrong kind are ignored.
func ItemFromRecord(collection, id string, data []byte) Item {
	it := Item{ID: id, Collection: collection, Data: data}
	var head struct {
		Order  json.RawMessage `json:"order"`
		Status json.RawMessage `json:"status"`
		Type   json.RawMessage `json:"type"`
		Title  json.RawMessage `json:"title"`
	}
	if json.Unmarshal(data, &head) != nil {
		return it
	}
	var f float64
	if json.Unmarshal(head.Order, &f) == nil {
		it.Order = int(f)
	}
	_ = json.Unmarshal(head.Status, &it.Status)
	_ = json.Unmarshal(head.Type, &it.Type)
	_ = json.Unmarshal(head.Title, &it.Title)
	return it
}

// SortItems orders items by order, then id.
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return items[i].ID < items[j].ID
	})
}
