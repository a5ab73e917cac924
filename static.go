package blocksite

import (
	"net/http"
	"os"
	"path"
	"strings"
)

// The StaticHandler behaves like http.ServeContent without directory
// listings and without serving dot files. It also implements the
// http.FileSystem interface.
type StaticHandler struct {
	fs     http.FileSystem
	prefix string
	strip  string
}

// Serve the file requested by r. Error 404 on directory and dot file access.
func (sh StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, sh.strip)
	f, err := sh.Open(name)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if stat.IsDir() {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	http.ServeContent(w, r, stat.Name(), stat.ModTime(), f)
}

// Return a new StaticHandler with new root directory.
func (sh StaticHandler) Cd(dir string) StaticHandler {
	sh.prefix = path.Join(sh.prefix, path.Clean("/"+dir))
	return sh
}

// StripPrefix returns a handler that removes p from request paths before
// looking them up.
func (sh StaticHandler) StripPrefix(p string) StaticHandler {
	sh.strip = strings.TrimSuffix(p, "/")
	return sh
}

// Implement the http.FileSystem interface.
func (sh StaticHandler) Open(name string) (http.File, error) {
	name = path.Clean("/" + name)
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return nil, os.ErrNotExist
		}
	}
	return sh.fs.Open(path.Join(sh.prefix, name))
}

// Serves all files from fs.
func NewStaticHandler(fs http.FileSystem) StaticHandler {
	return StaticHandler{fs: fs}
}
