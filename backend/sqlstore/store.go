package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lemmi/blocksite/backend"
)

// Store keeps records in a single items table keyed by collection and id.
type Store struct {
	db *sql.DB
}

var _ backend.BatchStore = (*Store)(nil)

// Open opens or creates the database at path and migrates it.
func Open(path string) (*Store, error) {
	if err := runMigrations(path); err != nil {
		return nil, err
	}
	db, err := openDB(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", path)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

const selectItems = `SELECT id, collection, ord, status, type, title, data FROM items`

func scanItem(row interface{ Scan(...any) error }) (backend.Item, error) {
	var (
		it   backend.Item
		data string
	)
	if err := row.Scan(&it.ID, &it.Collection, &it.Order, &it.Status, &it.Type, &it.Title, &data); err != nil {
		return backend.Item{}, err
	}
	it.Data = json.RawMessage(data)
	return it, nil
}

// Query lists a collection sorted by order, then id.
func (s *Store) Query(ctx context.Context, collection string, q backend.Query) ([]backend.Item, error) {
	where := []string{"collection = ?"}
	args := []any{collection}
	if !q.IncludeDrafts {
		where = append(where, "lower(status) IN ('', ?)")
		args = append(args, backend.StatusPublished)
	}
	rows, err := s.db.QueryContext(ctx, selectItems+" WHERE "+strings.Join(where, " AND ")+" ORDER BY ord ASC, id ASC", args...)
	if err != nil {
		return nil, errors.Wrapf(err, "query %q", collection)
	}
	defer rows.Close()

	var items []backend.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, errors.Wrapf(err, "scan %q", collection)
		}
		items = append(items, it)
	}
	return items, errors.Wrapf(rows.Err(), "query %q", collection)
}

// Get reads one record.
func (s *Store) Get(ctx context.Context, collection, id string) (backend.Item, error) {
	row := s.db.QueryRowContext(ctx, selectItems+" WHERE collection = ? AND id = ?", collection, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return backend.Item{}, errors.Wrapf(backend.ErrNotFound, "%s/%s", collection, id)
	}
	return it, errors.Wrapf(err, "get %s/%s", collection, id)
}

// Update applies p to one record. The order and status stored inside the
// record's data are kept in step with the columns.
func (s *Store) Update(ctx context.Context, collection, id string, p backend.Patch) error {
	var (
		sets     []string
		args     []any
		data     = "data"
		dataArgs []any
	)
	if p.Order != nil {
		sets = append(sets, "ord = ?")
		args = append(args, *p.Order)
		data = "json_set(" + data + ", '$.order', ?)"
		dataArgs = append(dataArgs, *p.Order)
	}
	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *p.Status)
		data = "json_set(" + data + ", '$.status', ?)"
		dataArgs = append(dataArgs, *p.Status)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "data = "+data, "updated_at = CURRENT_TIMESTAMP")
	args = append(append(args, dataArgs...), collection, id)

	res, err := s.db.ExecContext(ctx, "UPDATE items SET "+strings.Join(sets, ", ")+" WHERE collection = ? AND id = ?", args...)
	if err != nil {
		return errors.Wrapf(err, "update %s/%s", collection, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "update %s/%s", collection, id)
	}
	if n == 0 {
		return errors.Wrapf(backend.ErrNotFound, "%s/%s", collection, id)
	}
	return nil
}

// UpdateOrders writes a complete ordering in one transaction. Either every
// listed record is updated or none is.
func (s *Store) UpdateOrders(ctx context.Context, collection string, orders map[string]int) error {
	return withTx(s.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `UPDATE items SET ord = ?, data = json_set(data, '$.order', ?), updated_at = CURRENT_TIMESTAMP WHERE collection = ? AND id = ?`)
		if err != nil {
			return errors.Wrap(err, "prepare order update")
		}
		defer stmt.Close()

		for id, n := range orders {
			res, err := stmt.ExecContext(ctx, n, n, collection, id)
			if err != nil {
				return errors.Wrapf(err, "update order %s/%s", collection, id)
			}
			if affected, err := res.RowsAffected(); err != nil || affected == 0 {
				return errors.Wrapf(backend.ErrNotFound, "%s/%s", collection, id)
			}
		}
		return nil
	})
}

// Put inserts or replaces a record. The query columns are taken from
// it.Data when it is set; a missing id is generated.
func (s *Store) Put(ctx context.Context, collection string, it backend.Item) (backend.Item, error) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if len(it.Data) == 0 {
		b, err := json.Marshal(it)
		if err != nil {
			return backend.Item{}, errors.Wrapf(err, "encode %s/%s", collection, it.ID)
		}
		it.Data = b
	}
	if !json.Valid(it.Data) {
		return backend.Item{}, errors.Errorf("put %s/%s: data is not valid JSON", collection, it.ID)
	}
	it = backend.ItemFromRecord(collection, it.ID, it.Data)

	_, err := s.db.ExecContext(ctx, `
	INSERT INTO items(collection, id, ord, status, type, title, data)
	VALUES(?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(collection, id) DO UPDATE SET
	 ord = excluded.ord, status = excluded.status, type = excluded.type,
	 title = excluded.title, data = excluded.data, updated_at = CURRENT_TIMESTAMP;
	`, collection, it.ID, it.Order, it.Status, it.Type, it.Title, string(it.Data))
	if err != nil {
		return backend.Item{}, errors.Wrapf(err, "put %s/%s", collection, it.ID)
	}
	return it, nil
}

// Collections lists the collection names present in the store.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT collection FROM items ORDER BY collection`)
	if err != nil {
		return nil, errors.Wrap(err, "list collections")
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, errors.Wrap(err, "list collections")
		}
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "list collections")
}
