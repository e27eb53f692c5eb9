/*
Package blog computes what the blog pages need: the set of slugs to build ahead
of time (StaticPaths) and the serialized document for one slug (StaticProps).
*/
package blog

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/ancientlore/knownblog/content"
	"github.com/ancientlore/knownblog/markdown"
	"github.com/ancientlore/knownblog/post"
)

// Fallback says what happens to slugs that were not built ahead of time.
type Fallback int

const (
	// FallbackTrue shows a loading page while the page is generated.
	FallbackTrue Fallback = iota
	// FallbackFalse answers unknown slugs with not found.
	FallbackFalse
	// FallbackBlocking generates the page before answering.
	FallbackBlocking
)

func (f Fallback) String() string {
	switch f {
	case FallbackTrue:
		return "true"
	case FallbackFalse:
		return "false"
	case FallbackBlocking:
		return "blocking"
	}
	return fmt.Sprintf("Fallback(%d)", int(f))
}

// MarshalText implements encoding.TextMarshaler.
func (f Fallback) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// MarshalJSON writes true and false as JSON booleans and blocking as the
// string "blocking".
func (f Fallback) MarshalJSON() ([]byte, error) {
	switch f {
	case FallbackTrue:
		return []byte("true"), nil
	case FallbackFalse:
		return []byte("false"), nil
	case FallbackBlocking:
		return []byte(`"blocking"`), nil
	}
	return nil, fmt.Errorf("MarshalJSON: unknown fallback %d", int(f))
}

// UnmarshalJSON accepts a boolean or one of the strings ParseFallback reads.
func (f *Fallback) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	v, err := ParseFallback(s)
	if err != nil || s == "" {
		return fmt.Errorf("UnmarshalJSON: unknown fallback %s", b)
	}
	*f = v
	return nil
}

// ParseFallback reads "true", "false" or "blocking".
func ParseFallback(s string) (Fallback, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "true":
		return FallbackTrue, nil
	case "false":
		return FallbackFalse, nil
	case "blocking":
		return FallbackBlocking, nil
	}
	return FallbackTrue, fmt.Errorf("ParseFallback: unknown fallback %q", s)
}

// Params are the route parameters of a path.
type Params struct {
	Slug string `json:"slug"`
}

// Path is one page to build.
type Path struct {
	Params Params `json:"params"`
}

// StaticPaths is the set of pages to build plus the policy for the rest.
type StaticPaths struct {
	Paths    []Path   `json:"paths"`
	Fallback Fallback `json:"fallback"`
}

// Slugs returns the slugs of the paths.
func (sp *StaticPaths) Slugs() []string {
	r := make([]string, len(sp.Paths))
	for i := range sp.Paths {
		r[i] = sp.Paths[i].Params.Slug
	}
	return r
}

// Props is what the page view needs for one document.
type Props struct {
	Source      *markdown.Serialized
	FrontMatter post.FrontMatter
}

// Blog resolves paths and props.
type Blog struct {
	posts    *content.FileSource
	source   content.Source
	engine   markdown.Engine
	fallback Fallback
}

// New returns a Blog. posts is the content folder scanned for paths; source
// finds documents for props and normally starts with the same folder.
func New(posts fs.FS, source content.Source, engine markdown.Engine, fallback Fallback) *Blog {
	return &Blog{
		posts:    content.NewFileSource(posts),
		source:   source,
		engine:   engine,
		fallback: fallback,
	}
}

// Fallback returns the fallback policy.
func (b *Blog) Fallback() Fallback {
	return b.fallback
}

// StaticPaths reads the content folder and returns a path for every
// document in it.
func (b *Blog) StaticPaths(ctx context.Context) (*StaticPaths, error) {
	docs, err := b.posts.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("StaticPaths: %w", err)
	}
	sp := &StaticPaths{
		Paths:    make([]Path, 0, len(docs)),
		Fallback: b.fallback,
	}
	for _, d := range docs {
		sp.Paths = append(sp.Paths, Path{Params: Params{Slug: d.FrontMatter.Slug}})
	}
	return sp, nil
}

// StaticProps finds the document for slug and serializes its body with the
// front matter as scope. If no source has the slug, the error wraps
// content.ErrNotFound.
func (b *Blog) StaticProps(ctx context.Context, slug string, preview bool) (*Props, error) {
	doc, err := b.source.Lookup(ctx, slug, preview)
	if err != nil {
		return nil, fmt.Errorf("StaticProps: %w", err)
	}
	src, err := b.engine.Serialize(doc.Body, markdown.Scope(doc.Data))
	if err != nil {
		return nil, fmt.Errorf("StaticProps %q: %w", slug, err)
	}
	return &Props{
		Source:      src,
		FrontMatter: doc.FrontMatter,
	}, nil
}
