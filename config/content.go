package config

import (
	"github.com/pkg/errors"

	"github.com/lemmi/blocksite/backend"
	"github.com/lemmi/blocksite/backend/sqlstore"
)

// Content is an opened content source.
type Content struct {
	// FS holds templates and static files.
	FS backend.Backend
	// Store holds the page, section and global records.
	Store backend.Store
	// DB is set when Store is a SQLite database.
	DB *sqlstore.Store
}

// Close releases the database, if any.
func (c *Content) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// CID identifies the served content version, if known.
func (c *Content) CID() string {
	if cider, ok := c.FS.(backend.CIDer); ok && c.DB == nil {
		return cider.CID()
	}
	return ""
}

// Open opens the content source described by c.
func (c ContentConfig) Open() (*Content, error) {
	var (
		fs  backend.Backend
		err error
	)
	if c.Git {
		fs, err = backend.Git(c.Dir, c.Branch)
		if err != nil {
			return nil, err
		}
	} else {
		fs = backend.Dir(c.Dir)
	}

	content := &Content{FS: fs, Store: backend.NewFileStore(fs)}
	if c.DB != "" {
		db, err := sqlstore.Open(c.DB)
		if err != nil {
			return nil, errors.Wrap(err, "open content database")
		}
		content.DB = db
		content.Store = db
	}
	return content, nil
}
