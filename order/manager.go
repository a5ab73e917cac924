// Package order keeps a user-reorderable collection in sync with its
// store.
//
// A Manager holds two copies of the collection: the committed sequence as
// last read from or written to the store, and a local sequence the editor
// rearranges freely. Commit pushes the local positions back to the store.
package order

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// State of a Manager.
type State int

const (
	// Clean means the local sequence equals the committed one.
	Clean State = iota
	// Dirty means the local sequence has unsaved changes.
	Dirty
	// Saving means a commit is in flight.
	Saving
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Saving:
		return "saving"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrBusy is returned when the collection is modified during a commit.
	ErrBusy = errors.New("order: commit in progress")
	// ErrNotPermutation is returned by Reorder when the ids given are not
	// exactly the ids of the collection.
	ErrNotPermutation = errors.New("order: sequence is not a permutation of the collection")
)

// Entry is one orderable record.
type Entry struct {
	ID      string          `json:"id"`
	Order   int             `json:"order"`
	Label   string          `json:"label,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Store is the persistence collaborator. List must return the collection
// sorted by order ascending.
type Store interface {
	List(ctx context.Context, collection string) ([]Entry, error)
	SetOrder(ctx context.Context, collection, id string, order int) error
}

// BatchStore can write a whole ordering atomically. When the store passed
// to a Manager implements it, Commit issues a single batch write instead
// of one write per entry.
type BatchStore interface {
	Store
	SetOrders(ctx context.Context, collection string, orders map[string]int) error
}

// CommitError reports the entries whose writes failed.
type CommitError struct {
	Failed map[string]error
	Total  int
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("order: %d of %d writes failed: %s", len(e.Failed), e.Total, strings.Join(e.IDs(), ", "))
}

// IDs returns the ids of the failed entries, sorted.
func (e *CommitError) IDs() []string {
	ids := make([]string, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Manager tracks one collection. It is safe for concurrent use.
type Manager struct {
	store      Store
	collection string
	log        *slog.Logger

	mu        sync.Mutex
	state     State
	committed []Entry
	local     []Entry
	err       error
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for commit outcomes.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates a manager for collection. Call Load before use.
func NewManager(store Store, collection string, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		collection: collection,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Collection returns the name of the managed collection.
func (m *Manager) Collection() string { return m.collection }

// Load replaces both sequences with the store's current ordering and
// returns the manager to Clean.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	if m.state == Saving {
		m.mu.Unlock()
		return ErrBusy
	}
	m.mu.Unlock()

	entries, err := m.store.List(ctx, m.collection)
	if err != nil {
		return errors.Wrapf(err, "load %q", m.collection)
	}
	entries = slices.Clone(entries)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Order < entries[j].Order })

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Saving {
		return ErrBusy
	}
	m.committed = entries
	m.local = cloneEntries(entries)
	m.state = Clean
	m.err = nil
	return nil
}

// Reorder rearranges the local sequence to match ids and renumbers every
// entry with its 1-based position. It does not touch the store.
func (m *Manager) Reorder(ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Saving {
		return ErrBusy
	}

	byID := make(map[string]Entry, len(m.local))
	for _, e := range m.local {
		byID[e.ID] = e
	}
	if len(ids) != len(byID) {
		return ErrNotPermutation
	}
	next := make([]Entry, 0, len(ids))
	for i, id := range ids {
		e, ok := byID[id]
		if !ok {
			return ErrNotPermutation
		}
		delete(byID, id)
		e.Order = i + 1
		next = append(next, e)
	}

	m.local = next
	if sameSequence(m.local, m.committed) {
		m.state = Clean
	} else {
		m.state = Dirty
	}
	return nil
}

// Move shifts the entry at index from to index to and renumbers.
func (m *Manager) Move(from, to int) error {
	ids := m.ids()
	if from < 0 || from >= len(ids) || to < 0 || to >= len(ids) {
		return errors.Errorf("order: move %d -> %d out of range", from, to)
	}
	id := ids[from]
	ids = slices.Delete(ids, from, from+1)
	ids = slices.Insert(ids, to, id)
	return m.Reorder(ids)
}

// Reset discards uncommitted changes and restores the committed sequence.
func (m *Manager) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Saving {
		return ErrBusy
	}
	m.local = cloneEntries(m.committed)
	m.state = Clean
	m.err = nil
	return nil
}

// Commit writes the local ordering to the store. On success the local
// sequence becomes the committed one. On any failure the manager stays
// Dirty and keeps the error for Err; writes that did succeed are not rolled
// back and nothing is retried.
func (m *Manager) Commit(ctx context.Context) error {
	m.mu.Lock()
	switch m.state {
	case Saving:
		m.mu.Unlock()
		return ErrBusy
	case Clean:
		m.mu.Unlock()
		return nil
	}
	m.state = Saving
	m.err = nil
	pending := cloneEntries(m.local)
	m.mu.Unlock()

	commitID := uuid.NewString()
	log := m.log.With("collection", m.collection, "commit", commitID, "entries", len(pending))

	var err error
	if bs, ok := m.store.(BatchStore); ok {
		err = m.commitBatch(ctx, bs, pending)
	} else {
		err = m.commitEach(ctx, pending)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state = Dirty
		m.err = err
		log.Warn("reorder commit failed", "error", err)
		return err
	}
	m.committed = pending
	if sameSequence(m.local, m.committed) {
		m.state = Clean
	} else {
		m.state = Dirty
	}
	log.Info("reorder committed")
	return nil
}

func (m *Manager) commitBatch(ctx context.Context, bs BatchStore, pending []Entry) error {
	orders := make(map[string]int, len(pending))
	for _, e := range pending {
		orders[e.ID] = e.Order
	}
	if err := bs.SetOrders(ctx, m.collection, orders); err != nil {
		failed := make(map[string]error, len(pending))
		for _, e := range pending {
			failed[e.ID] = err
		}
		return &CommitError{Failed: failed, Total: len(pending)}
	}
	return nil
}

// commitEach issues one write per entry concurrently. There is no ordering
// between the writes and no transaction around them.
func (m *Manager) commitEach(ctx context.Context, pending []Entry) error {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed = make(map[string]error)
	)
	for _, e := range pending {
		wg.Add(1)
		go func(e Entry) {
			defer wg.Done()
			if err := m.store.SetOrder(ctx, m.collection, e.ID, e.Order); err != nil {
				mu.Lock()
				failed[e.ID] = err
				mu.Unlock()
			}
		}(e)
	}
	wg.Wait()

	if len(failed) > 0 {
		return &CommitError{Failed: failed, Total: len(pending)}
	}
	return nil
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Entries returns a copy of the local sequence.
func (m *Manager) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneEntries(m.local)
}

// Committed returns a copy of the last committed sequence.
func (m *Manager) Committed() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneEntries(m.committed)
}

// Err returns the error of the last failed commit, until it is dismissed
// or the manager is reset or reloaded.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// DismissError clears the stored commit error without changing state.
func (m *Manager) DismissError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = nil
}

func (m *Manager) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.local))
	for i, e := range m.local {
		ids[i] = e.ID
	}
	return ids
}

func sameSequence(a, b []Entry) bool {
	return slices.EqualFunc(a, b, func(x, y Entry) bool {
		return x.ID == y.ID && x.Order == y.Order
	})
}

func cloneEntries(in []Entry) []Entry {
	if in == nil {
		return nil
	}
	out := make([]Entry, len(in))
	for i, e := range in {
		e.Payload = slices.Clone(e.Payload)
		out[i] = e
	}
	return out
}
