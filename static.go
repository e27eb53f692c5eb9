package main

import (
	"io/fs"
	"path"
	"strings"

	"github.com/ancientlore/knownblog/config"
	"github.com/ancientlore/knownblog/site"
)

// hiddenFS hides the files of the site root that are not meant to be
// downloaded: the configuration, templates, raw posts and dot files.
type hiddenFS struct {
	fs.FS
	hidden map[string]bool
}

// staticFS returns the site root with the private files hidden.
func staticFS(root fs.FS) fs.FS {
	return hiddenFS{
		FS: root,
		hidden: map[string]bool{
			config.Filename:  true,
			site.TemplateDir: true,
		},
	}
}

// Open implements fs.FS.
func (h hiddenFS) Open(name string) (fs.File, error) {
	if h.isHidden(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return h.FS.Open(name)
}

func (h hiddenFS) isHidden(name string) bool {
	first, _, _ := strings.Cut(name, "/")
	if h.hidden[first] {
		return true
	}
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			return true
		}
	}
	switch path.Ext(name) {
	case ".md", ".mdx":
		return true
	}
	return false
}
