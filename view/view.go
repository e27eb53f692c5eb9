/*
Package view renders blog pages with html/template.

Three templates are defined by default: "page" renders a document, "loading"
renders the placeholder shown while a page is still being generated, and "nav"
is the navigation header shared by pages. Templates with the same names in a
custom template folder (files ending in ".html") replace the defaults, and a
document can pick another template with the "template" front matter key.
*/
package view

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/ancientlore/knownblog/markdown"
	"github.com/ancientlore/knownblog/post"
)

//go:embed default.html
var defaultTemplate string

// Defaults used for pages rendered without front matter.
const (
	DefaultTitle   = "default title"
	DefaultSummary = "summary"
)

// Page is the input of a render.
type Page struct {
	FrontMatter post.FrontMatter
	Source      *markdown.Serialized // nil renders an empty body
	Fallback    bool                 // the page is still being generated
}

// data is what is passed to the templates.
type data struct {
	SiteName    string
	Title       string // site name and document title
	FrontMatter post.FrontMatter
	Content     template.HTML
	Refresh     int // seconds until the loading page reloads
}

// View holds the page templates.
type View struct {
	siteName string
	fsys     fs.FS // custom templates, may be nil
	tpl      *template.Template
	tplMutex sync.RWMutex
}

// New returns a View for siteName. Templates in fsys, if not nil, override
// the defaults.
func New(siteName string, fsys fs.FS) (*View, error) {
	v := &View{
		siteName: siteName,
		fsys:     fsys,
	}
	err := v.Reload()
	if err != nil {
		return nil, err
	}
	return v, nil
}

// SiteName returns the name used in page titles.
func (v *View) SiteName() string {
	return v.siteName
}

// Title composes the page title for a document title.
func (v *View) Title(title string) string {
	return v.siteName + " | " + title
}

// Reload parses the templates again.
func (v *View) Reload() error {
	funcMap := template.FuncMap{
		"trimsuffix": strings.TrimSuffix,
		"trimprefix": strings.TrimPrefix,
		"trimspace":  strings.TrimSpace,
		"join":       strings.Join,
	}
	tpl, err := template.New("blog").Funcs(funcMap).Parse(defaultTemplate)
	if err != nil {
		return fmt.Errorf("Reload: %w", err)
	}
	if v.fsys != nil {
		matches, err := fs.Glob(v.fsys, "*.html")
		if err != nil {
			return fmt.Errorf("Reload: %w", err)
		}
		if len(matches) > 0 {
			tpl, err = tpl.ParseFS(v.fsys, matches...)
			if err != nil {
				return fmt.Errorf("Reload: %w", err)
			}
		}
	}
	v.tplMutex.Lock()
	v.tpl = tpl
	v.tplMutex.Unlock()
	return nil
}

// getTemplates returns the current templates.
func (v *View) getTemplates() *template.Template {
	v.tplMutex.RLock()
	defer v.tplMutex.RUnlock()
	return v.tpl
}

// Render writes the page. A fallback page renders the "loading" template;
// otherwise the document's own template or "page" is used.
func (v *View) Render(w io.Writer, p Page) error {
	fm := p.FrontMatter
	if fm.Title == "" {
		fm.Title = DefaultTitle
	}
	if fm.Summary == "" {
		fm.Summary = DefaultSummary
	}
	d := data{
		SiteName:    v.siteName,
		Title:       v.Title(fm.Title),
		FrontMatter: fm,
		Refresh:     1,
	}
	name := "page"
	if p.Fallback {
		name = "loading"
	} else {
		content, err := p.Source.HTML()
		if err != nil {
			return fmt.Errorf("Render: %w", err)
		}
		d.Content = content
		if fm.Template != "" {
			name = fm.Template
		}
	}
	tpl := v.getTemplates()
	if tpl.Lookup(name) == nil {
		return fmt.Errorf("Render: no template named %q", name)
	}
	err := tpl.ExecuteTemplate(w, name, d)
	if err != nil {
		return fmt.Errorf("Render: %w", err)
	}
	return nil
}
