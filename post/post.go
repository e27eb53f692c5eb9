/*
Package post holds the blog document model and parses raw documents into it.

A raw document is a front matter block followed by a Markdown or MDX body.
The front matter may be YAML, delimited by "---", or TOML, delimited by "+++":

	---
	slug: hello-world
	title: Hello World
	summary: first post
	publishedOn: 2021-04-01
	---
	# Hi

Documents are read-only once parsed.
*/
package post

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// FrontMatter holds the well-known fields of a document's front matter.
type FrontMatter struct {
	Slug        string    // URL identifier of the document
	Title       string    // Title of the document
	Summary     string    // Used for the description meta tag
	PublishedOn time.Time // Publication date
	Template    string    // Overrides the page template when set
	Tags        []string
}

// Document is a parsed blog document.
type Document struct {
	FrontMatter FrontMatter
	Data        map[string]any // all front matter values, used as render scope
	Body        []byte         // markup without the front matter block
}

var formats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
}

// Parse splits raw into front matter and body. A document without front
// matter is valid and has empty front matter.
func Parse(raw []byte) (*Document, error) {
	data := make(map[string]any)
	body, err := frontmatter.Parse(bytes.NewReader(raw), &data, formats...)
	if err != nil {
		return nil, fmt.Errorf("Parse: %w", err)
	}
	if data == nil {
		data = make(map[string]any)
	}
	fm, err := frontMatterFromData(data)
	if err != nil {
		return nil, fmt.Errorf("Parse: %w", err)
	}
	return &Document{
		FrontMatter: fm,
		Data:        data,
		Body:        body,
	}, nil
}

// SetSlug fills in the slug of a document whose front matter has none.
func (d *Document) SetSlug(slug string) {
	d.FrontMatter.Slug = slug
	d.Data["slug"] = slug
	if d.FrontMatter.Title == "" {
		d.FrontMatter.Title = TitleFromSlug(slug)
	}
}

// ValidSlug reports whether s names a single, visible file in the content
// folder, so that it is usable as a URL segment and a file name stem. The
// same rule applies to slugs listed from files and slugs asked for by URL.
func ValidSlug(s string) bool {
	return fs.ValidPath(s) && s != "." &&
		!strings.ContainsAny(s, `/\`) &&
		!strings.HasPrefix(s, ".")
}

// TitleFromSlug makes a readable title out of a slug, so "hello-world"
// becomes "Hello World".
func TitleFromSlug(slug string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return cases.Title(language.English).String(strings.TrimSpace(s))
}
