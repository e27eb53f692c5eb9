package site

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/ancientlore/knownblog/content"
)

func testRoot() fstest.MapFS {
	return fstest.MapFS{
		"posts/hello-world.mdx": &fstest.MapFile{Data: []byte("---\nslug: hello-world\ntitle: Hello World\nsummary: first post\n---\n# Hi\n")},
		"posts/second.mdx":      &fstest.MapFile{Data: []byte("---\nslug: second\ntitle: Second Post\nsummary: another\n---\nMore text.\n")},
	}
}

func testCMS() *content.Collection {
	return &content.Collection{
		Published: [][]byte{[]byte("---\nslug: cms-post\ntitle: CMS Post\nsummary: from the cms\n---\nCMS body.\n")},
		Draft:     [][]byte{[]byte("---\nslug: cms-draft\ntitle: CMS Draft\n---\nDraft body.\n")},
	}
}

func TestHelloWorld(t *testing.T) {
	ctx := context.Background()
	s, err := New(Options{Root: testRoot()})
	if err != nil {
		t.Fatal(err)
	}

	sp, err := s.Blog.StaticPaths(ctx)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, p := range sp.Paths {
		if p.Params.Slug == "hello-world" {
			found = true
		}
	}
	if !found {
		t.Errorf("hello-world missing from %+v", sp.Paths)
	}

	props, err := s.Blog.StaticProps(ctx, "hello-world", false)
	if err != nil {
		t.Fatal(err)
	}
	if props.FrontMatter.Title != "Hello World" {
		t.Errorf("Expected title Hello World but got %q", props.FrontMatter.Title)
	}

	b, err := s.Render(ctx, "hello-world", false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "<title>Known Blog | Hello World</title>") {
		t.Errorf("Unexpected page:\n%s", b)
	}
}

func TestRenderCMS(t *testing.T) {
	ctx := context.Background()
	s, err := New(Options{Root: testRoot(), CMS: testCMS()})
	if err != nil {
		t.Fatal(err)
	}

	b, err := s.Render(ctx, "cms-post", false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "CMS body.") {
		t.Errorf("Unexpected page:\n%s", b)
	}

	_, err = s.Render(ctx, "cms-draft", false)
	if !errors.Is(err, content.ErrNotFound) {
		t.Errorf("Expected ErrNotFound but got %v", err)
	}
	if _, err = s.Render(ctx, "cms-draft", true); err != nil {
		t.Error(err)
	}

	_, err = s.Render(ctx, "nowhere", false)
	if !errors.Is(err, content.ErrNotFound) {
		t.Errorf("Expected ErrNotFound but got %v", err)
	}
}

func TestConfigAndTemplates(t *testing.T) {
	root := testRoot()
	root["blog.cfg"] = &fstest.MapFile{Data: []byte("sitename = \"Other\"\nmarkdown = \"goldmark\"\n")}
	root["template/nav.html"] = &fstest.MapFile{Data: []byte(`{{define "nav"}}<nav class="mine"></nav>{{end}}`)}
	s, err := New(Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Render(context.Background(), "hello-world", false)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	if !strings.Contains(out, "<title>Other | Hello World</title>") {
		t.Errorf("Expected configured site name:\n%s", out)
	}
	if !strings.Contains(out, `<nav class="mine"></nav>`) {
		t.Errorf("Expected custom nav:\n%s", out)
	}
	if !strings.Contains(out, `<h1 id="hi">Hi</h1>`) {
		t.Errorf("Expected goldmark heading:\n%s", out)
	}
}

func TestPlaceholder(t *testing.T) {
	s, err := New(Options{Root: testRoot()})
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Placeholder()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "spinner") {
		t.Errorf("Unexpected placeholder:\n%s", b)
	}
}

func TestExport(t *testing.T) {
	s, err := New(Options{Root: testRoot(), CMS: testCMS()})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	written, err := s.Export(context.Background(), dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 3 {
		t.Errorf("Expected 3 files but got %v", written)
	}
	b, err := os.ReadFile(filepath.Join(dir, "blog", "hello-world", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "<title>Known Blog | Hello World</title>") {
		t.Errorf("Unexpected exported page:\n%s", b)
	}
	if _, err = os.Stat(filepath.Join(dir, "blog", "cms-post")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("CMS-only pages are generated on demand, not exported: %v", err)
	}

	m, err := os.ReadFile(filepath.Join(dir, "blog", "paths.json"))
	if err != nil {
		t.Fatal(err)
	}
	var manifest struct {
		Paths []struct {
			Params struct {
				Slug string `json:"slug"`
			} `json:"params"`
		} `json:"paths"`
		Fallback any `json:"fallback"`
	}
	err = json.Unmarshal(m, &manifest)
	if err != nil {
		t.Fatal(err)
	}
	if len(manifest.Paths) != 2 || manifest.Paths[0].Params.Slug != "hello-world" || manifest.Fallback != true {
		t.Errorf("Unexpected manifest %s", m)
	}
}

func TestEveryPathResolves(t *testing.T) {
	ctx := context.Background()
	root := testRoot()
	root["posts/go1.22.mdx"] = &fstest.MapFile{Data: []byte("---\nslug: go1.22\ntitle: Go 1.22\n---\nLoop variables.\n")}
	root["posts/über-go.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Über Go\n---\nUmlauts.\n")}
	root["posts/my post.md"] = &fstest.MapFile{Data: []byte("---\ntitle: My Post\n---\nSpaces.\n")}
	s, err := New(Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}

	sp, err := s.Blog.StaticPaths(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sp.Paths) != 5 {
		t.Errorf("Expected 5 paths but got %v", sp.Slugs())
	}
	for _, slug := range sp.Slugs() {
		props, err := s.Blog.StaticProps(ctx, slug, false)
		if err != nil {
			t.Errorf("%q: %s", slug, err)
			continue
		}
		if props.FrontMatter.Slug != slug {
			t.Errorf("%q: resolved to %q", slug, props.FrontMatter.Slug)
		}
	}

	dir := t.TempDir()
	written, err := s.Export(ctx, dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 6 {
		t.Errorf("Expected 6 files but got %v", written)
	}
	if _, err = os.Stat(filepath.Join(dir, "blog", "go1.22", "index.html")); err != nil {
		t.Error(err)
	}
}
