package backend

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// recordExts are tried in order when looking up a record.
var recordExts = []string{".json", ".yaml", ".yml"}

// FileStore reads records from a file tree laid out as
// <collection>/<id>.{json,yaml,yml}. It cannot be written to.
type FileStore struct {
	fs Backend
}

// NewFileStore reads records below root in fs.
func NewFileStore(fs Backend) *FileStore {
	return &FileStore{fs: fs}
}

// CID returns the content version of the underlying backend, if known.
func (s *FileStore) CID() string {
	if c, ok := s.fs.(CIDer); ok {
		return c.CID()
	}
	return ""
}

// Query lists the records of collection. Records in sub-directories are
// included with their relative path as id, so a page stored as
// pages/about/team.json has the id "about/team".
func (s *FileStore) Query(ctx context.Context, collection string, q Query) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids, err := s.ids(cleanPath(collection), "")
	if err != nil {
		return nil, err
	}

	var items []Item
	for _, id := range ids {
		it, err := s.Get(ctx, collection, id)
		if err != nil {
			return nil, err
		}
		if !q.IncludeDrafts && !it.Published() {
			continue
		}
		items = append(items, it)
	}
	SortItems(items)
	return items, nil
}

// ids lists the record ids below dirpath, prefixed with rel.
func (s *FileStore) ids(dirpath, rel string) ([]string, error) {
	dir, err := s.fs.Open(dirpath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "Cannot open directory: %q", dirpath)
	}
	fis, err := dir.Readdir(-1)
	dir.Close()
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read directory: %q", dirpath)
	}

	seen := make(map[string]bool)
	var ids []string
	for _, fi := range fis {
		if strings.HasPrefix(fi.Name(), ".") {
			continue
		}
		if fi.IsDir() {
			sub, err := s.ids(path.Join(dirpath, fi.Name()), path.Join(rel, fi.Name()))
			if err != nil {
				return nil, err
			}
			ids = append(ids, sub...)
			continue
		}
		ext := path.Ext(fi.Name())
		if !isRecordExt(ext) {
			continue
		}
		id := path.Join(rel, strings.TrimSuffix(fi.Name(), ext))
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// Get reads a single record.
func (s *FileStore) Get(ctx context.Context, collection, id string) (Item, error) {
	if err := ctx.Err(); err != nil {
		return Item{}, err
	}
	base := path.Join(cleanPath(collection), cleanPath(id))
	for _, ext := range recordExts {
		fpath := base + ext
		f, err := s.fs.Open(fpath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Item{}, errors.Wrapf(err, "Cannot open file: %q", fpath)
		}
		b, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return Item{}, errors.Wrapf(err, "Cannot read file: %q", fpath)
		}
		data, err := toJSON(ext, b)
		if err != nil {
			return Item{}, errors.Wrapf(err, "Cannot parse file: %q", fpath)
		}
		return ItemFromRecord(collection, id, data), nil
	}
	return Item{}, errors.Wrapf(ErrNotFound, "%s/%s", collection, id)
}

// Update always fails: the file tree is published content.
func (s *FileStore) Update(context.Context, string, string, Patch) error {
	return ErrReadOnly
}

func isRecordExt(ext string) bool {
	for _, e := range recordExts {
		if e == ext {
			return true
		}
	}
	return false
}

// toJSON normalizes a record to JSON so every consumer decodes one format.
func toJSON(ext string, b []byte) ([]byte, error) {
	if ext == ".json" {
		if !json.Valid(b) {
			return nil, errors.New("invalid JSON")
		}
		return b, nil
	}
	var v any
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func cleanPath(p string) string {
	return path.Clean("/" + strings.Trim(p, "/"))
}
