// Package backend provides the document store the site reads from and the
// editor writes order changes to.
package backend

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gogits/git"
	"github.com/lemmi/ghfs"
	"github.com/pkg/errors"
)

// Backend is a read-only file tree holding content, templates and static
// files.
type Backend interface {
	http.FileSystem
}

// CIDer is implemented by backends that can identify the content version
// they serve, e.g. a git commit id.
type CIDer interface {
	CID() string
}

// Dir serves the file tree rooted at path.
func Dir(path string) Backend {
	return http.Dir(path)
}

type gitBackend struct {
	http.FileSystem
	cid string
}

func (g gitBackend) CID() string {
	return g.cid
}

// Git serves the tree of the head commit of branch in the repository at
// path.
func Git(path, branch string) (Backend, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "filepath.Abs(%q)", path)
	}
	repo, err := git.OpenRepository(path)
	if err != nil {
		return nil, errors.Wrapf(err, "git.OpenRepository(%q)", path)
	}
	if branch == "" {
		branch = "master"
	}
	commit, err := repo.GetCommitOfBranch(branch)
	if err != nil {
		return nil, errors.Wrapf(err, "Can not open branch %q", branch)
	}
	return gitBackend{
		FileSystem: ghfs.FromCommit(commit),
		cid:        strings.Trim(commit.Id.String(), "\""),
	}, nil
}

// Sub returns a backend rooted at dir inside b.
func Sub(b Backend, dir string) Backend {
	sub := subBackend{fs: b, prefix: filepath.Clean("/" + dir)}
	if c, ok := b.(CIDer); ok {
		return subCIDBackend{subBackend: sub, cid: c.CID()}
	}
	return sub
}

type subBackend struct {
	fs     http.FileSystem
	prefix string
}

func (s subBackend) Open(name string) (http.File, error) {
	name = filepath.Clean("/" + name)
	return s.fs.Open(filepath.Join(s.prefix, name))
}

type subCIDBackend struct {
	subBackend
	cid string
}

func (s subCIDBackend) CID() string {
	return s.cid
}
