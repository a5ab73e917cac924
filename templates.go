package blocksite

import (
	"embed"
	"html/template"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

const tmplPath = "templates"

//go:embed defaults/*.tmpl
var defaultFS embed.FS

var defaultTemplates = sync.OnceValue(func() *template.Template {
	return template.Must(parseDir(template.New("_"), http.FS(defaultFS), "defaults"))
})

// DefaultTemplates returns a copy of the built in page templates.
func DefaultTemplates() *template.Template {
	return template.Must(defaultTemplates().Clone())
}

// LoadTemplates parses the *.tmpl files in the templates directory of fs
// on top of the built in ones, so a site only needs to override what it
// changes. A missing directory yields the defaults. Each file defines a
// template named after its base name without extension.
func LoadTemplates(fs http.FileSystem) (*template.Template, error) {
	t, err := parseDir(DefaultTemplates(), fs, tmplPath)
	if os.IsNotExist(errors.Cause(err)) {
		return DefaultTemplates(), nil
	}
	return t, err
}

func parseDir(tmain *template.Template, fs http.FileSystem, dir string) (*template.Template, error) {
	f, err := fs.Open(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open directory: %q", dir)
	}
	defer f.Close()
	fis, err := f.Readdir(-1)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read directory: %q", dir)
	}
	for _, fi := range fis {
		if fi.IsDir() || !strings.HasSuffix(fi.Name(), ".tmpl") {
			continue
		}
		fpath := path.Join(dir, fi.Name())
		data, err := fs.Open(fpath)
		if err != nil {
			return nil, errors.Wrapf(err, "Cannot open file: %q", fpath)
		}
		databytes, err := io.ReadAll(data)
		data.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "Cannot read file: %q", fpath)
		}

		tname := strings.TrimSuffix(fi.Name(), ".tmpl")
		if _, err := tmain.New(tname).Parse(string(databytes)); err != nil {
			return nil, errors.Wrapf(err, "Cannot parse template: %q", fpath)
		}
	}
	return tmain, nil
}
