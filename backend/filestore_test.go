package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemmi/blocksite/order"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func itemIDs(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestFileStoreQuery(t *testing.T) {
	root := writeTree(t, map[string]string{
		"sections/home/hero.json":  `{"type":"hero","order":2,"title":"Welcome"}`,
		"sections/home/cards.yaml": "type: cards\norder: 1\n",
		"sections/home/faq.yml":    "type: faq\norder: 3\nstatus: draft\n",
		"sections/home/.hidden":    `{}`,
		"sections/home/notes.txt":  "not a record",
		"sections/home/sub/x.json": `{}`,
	})
	s := NewFileStore(Dir(root))
	ctx := context.Background()

	items, err := s.Query(ctx, SectionsOf("home"), Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"sub/x", "cards", "hero"}, itemIDs(items))
	assert.Equal(t, "Welcome", items[2].Title)
	assert.Equal(t, "hero: Welcome", items[2].Label())

	items, err = s.Query(ctx, SectionsOf("home"), Query{IncludeDrafts: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"sub/x", "cards", "hero", "faq"}, itemIDs(items))

	it, err := s.Get(ctx, SectionsOf("home"), "sub/x")
	require.NoError(t, err)
	assert.Equal(t, "sub/x", it.ID)
}

func TestFileStoreMissingCollection(t *testing.T) {
	s := NewFileStore(Dir(t.TempDir()))
	items, err := s.Query(context.Background(), "nope", Query{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFileStoreGet(t *testing.T) {
	root := writeTree(t, map[string]string{
		"globals/settings.yaml": "siteName: Example\norder: 1\n",
		"pages/bad.json":        `{`,
	})
	s := NewFileStore(Dir(root))
	ctx := context.Background()

	it, err := s.Get(ctx, CollectionGlobals, GlobalSettings)
	require.NoError(t, err)
	var v struct {
		SiteName string `json:"siteName"`
	}
	require.NoError(t, it.Decode(&v))
	assert.Equal(t, "Example", v.SiteName)
	assert.Equal(t, 1, it.Order)

	_, err = s.Get(ctx, CollectionPages, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.Get(ctx, CollectionPages, "bad")
	assert.Error(t, err)

	// ids cannot escape the collection
	_, err = s.Get(ctx, CollectionPages, "../globals/settings")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileStoreIsReadOnly(t *testing.T) {
	s := NewFileStore(Dir(t.TempDir()))
	n := 1
	assert.Equal(t, ErrReadOnly, s.Update(context.Background(), "pages", "home", Patch{Order: &n}))
	assert.Empty(t, s.CID())
}

func TestSub(t *testing.T) {
	root := writeTree(t, map[string]string{
		"content/pages/home.json": `{"title":"Home"}`,
	})
	s := NewFileStore(Sub(Dir(root), "content"))
	it, err := s.Get(context.Background(), CollectionPages, "home")
	require.NoError(t, err)
	assert.Equal(t, "Home", it.Title)
}

func TestItemFromRecord(t *testing.T) {
	it := ItemFromRecord("pages", "x", []byte(`{"order":"3","status":"draft","type":7,"title":"T"}`))
	assert.Equal(t, 0, it.Order)
	assert.Equal(t, "draft", it.Status)
	assert.Equal(t, "", it.Type)
	assert.Equal(t, "T", it.Title)
	assert.False(t, it.Published())

	it = ItemFromRecord("pages", "x", []byte(`[]`))
	assert.True(t, it.Published())
	assert.Equal(t, "x", it.Label())
}

type memStore struct {
	items   []Item
	updates map[string]int
}

func (m *memStore) Query(_ context.Context, collection string, q Query) ([]Item, error) {
	var out []Item
	for _, it := range m.items {
		if q.IncludeDrafts || it.Published() {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memStore) Get(context.Context, string, string) (Item, error) {
	return Item{}, ErrNotFound
}

func (m *memStore) Update(_ context.Context, _, id string, p Patch) error {
	if m.updates == nil {
		m.updates = map[string]int{}
	}
	m.updates[id] = *p.Order
	return nil
}

func TestOrderableIncludesDrafts(t *testing.T) {
	ms := &memStore{items: []Item{
		{ID: "a", Order: 1, Type: "hero", Data: []byte(`{"type":"hero"}`)},
		{ID: "b", Order: 2, Status: StatusDraft, Title: "Later"},
	}}
	s := Orderable(ms)
	_, batch := s.(order.BatchStore)
	assert.False(t, batch)

	entries, err := s.List(context.Background(), "sections/home")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "hero", entries[0].Label)
	assert.Equal(t, "Later", entries[1].Label)
	assert.JSONEq(t, `{"type":"hero"}`, string(entries[0].Payload))

	require.NoError(t, s.SetOrder(context.Background(), "sections/home", "b", 1))
	assert.Equal(t, map[string]int{"b": 1}, ms.updates)
}
