/*
Package site puts the blog together: it reads the configuration, opens the
content sources and templates, and renders finished pages for the web server
and the static export.
*/
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/ancientlore/knownblog/blog"
	"github.com/ancientlore/knownblog/config"
	"github.com/ancientlore/knownblog/content"
	"github.com/ancientlore/knownblog/markdown"
	"github.com/ancientlore/knownblog/view"
)

// TemplateDir is the folder at the site root holding custom templates.
const TemplateDir = "template"

// Options configure a Site.
type Options struct {
	Config    *config.Config // nil reads blog.cfg from Root
	Root      fs.FS          // site root holding the posts folder
	Templates fs.FS          // custom templates; nil uses Root/template if present
	CMS       content.Source // optional CMS documents, searched after the files
}

// Site renders blog pages.
type Site struct {
	Config *config.Config
	Blog   *blog.Blog
	View   *view.View
}

// New opens the site described by opts.
func New(opts Options) (*Site, error) {
	var err error
	cfg := opts.Config
	if cfg == nil {
		cfg, err = config.Load(opts.Root)
		if err != nil {
			return nil, fmt.Errorf("New: %w", err)
		}
	}
	posts, err := fs.Sub(opts.Root, cfg.PostsDir)
	if err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	engine, err := markdown.New(cfg.Markdown)
	if err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	fallback, err := blog.ParseFallback(cfg.Fallback)
	if err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	chain := content.Chain{content.NewFileSource(posts)}
	if opts.CMS != nil {
		chain = append(chain, opts.CMS)
	}
	tplFS := opts.Templates
	if tplFS == nil {
		tplFS, err = templateFS(opts.Root)
		if err != nil {
			return nil, fmt.Errorf("New: %w", err)
		}
	}
	v, err := view.New(cfg.SiteName, tplFS)
	if err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	return &Site{
		Config: cfg,
		Blog:   blog.New(posts, chain, engine, fallback),
		View:   v,
	}, nil
}

// templateFS returns the template folder of root, or nil if there is none.
func templateFS(root fs.FS) (fs.FS, error) {
	fi, err := fs.Stat(root, TemplateDir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !fi.IsDir()) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fs.Sub(root, TemplateDir)
}

// Render returns the HTML page for slug. The error wraps
// content.ErrNotFound when the slug does not exist.
func (s *Site) Render(ctx context.Context, slug string, preview bool) ([]byte, error) {
	props, err := s.Blog.StaticProps(ctx, slug, preview)
	if err != nil {
		return nil, fmt.Errorf("Render: %w", err)
	}
	var buf bytes.Buffer
	err = s.View.Render(&buf, view.Page{
		FrontMatter: props.FrontMatter,
		Source:      props.Source,
	})
	if err != nil {
		return nil, fmt.Errorf("Render %q: %w", slug, err)
	}
	return buf.Bytes(), nil
}

// Placeholder returns the loading page shown while a page is generated.
func (s *Site) Placeholder() ([]byte, error) {
	var buf bytes.Buffer
	err := s.View.Render(&buf, view.Page{Fallback: true})
	if err != nil {
		return nil, fmt.Errorf("Placeholder: %w", err)
	}
	return buf.Bytes(), nil
}
