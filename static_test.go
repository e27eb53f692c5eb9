package main

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
)

func TestStaticFS(t *testing.T) {
	fsys := staticFS(fstest.MapFS{
		"blog.cfg":              &fstest.MapFile{Data: []byte("")},
		"template/page.html":    &fstest.MapFile{Data: []byte("")},
		"posts/hello-world.mdx": &fstest.MapFile{Data: []byte("")},
		".git/config":           &fstest.MapFile{Data: []byte("")},
		"static/site.css":       &fstest.MapFile{Data: []byte("body {}")},
		"404.html":              &fstest.MapFile{Data: []byte("")},
	})
	var (
		names  = []string{"blog.cfg", "template/page.html", "posts/hello-world.mdx", ".git/config", "static/site.css", "404.html"}
		hidden = []bool{true, true, true, true, false, false}
	)
	for i, name := range names {
		f, err := fsys.Open(name)
		if hidden[i] {
			if !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("%s: expected not exist but got %v", name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %s", name, err)
			continue
		}
		f.Close()
	}
}
