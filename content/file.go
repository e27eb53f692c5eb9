package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path"
	"strings"

	"github.com/ancientlore/knownblog/post"
)

// Extensions are the file extensions of content files, in lookup order.
var Extensions = []string{".mdx", ".md"}

// FileSource reads documents named <slug>.mdx or <slug>.md from a folder.
type FileSource struct {
	fsys fs.FS
}

// NewFileSource returns a source over the content folder fsys.
func NewFileSource(fsys fs.FS) *FileSource {
	return &FileSource{fsys: fsys}
}

// Lookup reads the file for slug. Files are never drafts, so preview is
// ignored. A file that is missing or cannot be read counts as not found.
func (s *FileSource) Lookup(ctx context.Context, slug string, preview bool) (*post.Document, error) {
	if !post.ValidSlug(slug) {
		return nil, fmt.Errorf("Lookup %q: %w", slug, ErrNotFound)
	}
	for _, ext := range Extensions {
		name := slug + ext
		b, err := fs.ReadFile(s.fsys, name)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Printf("Lookup: %s", err)
			}
			continue
		}
		return parseFile(name, b)
	}
	return nil, fmt.Errorf("Lookup %q: %w", slug, ErrNotFound)
}

// Scan reads and parses every content file in the folder, in name order.
// Hidden files, folders, files with other extensions and files whose name
// is not a valid slug are skipped, so every document returned can be found
// again with Lookup.
func (s *FileSource) Scan(ctx context.Context) ([]*post.Document, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("Scan: %w", err)
	}
	docs := make([]*post.Document, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !isContentFile(name) {
			continue
		}
		if !post.ValidSlug(stem(name)) {
			log.Printf("Scan: skipping %q: not a valid slug", name)
			continue
		}
		b, err := fs.ReadFile(s.fsys, name)
		if err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		doc, err := parseFile(name, b)
		if err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// parseFile parses a content file and checks its slug against the name.
func parseFile(name string, b []byte) (*post.Document, error) {
	doc, err := post.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	slug := stem(name)
	switch doc.FrontMatter.Slug {
	case "":
		doc.SetSlug(slug)
	case slug:
	default:
		return nil, fmt.Errorf("%s: slug %q: %w", name, doc.FrontMatter.Slug, ErrSlugMismatch)
	}
	return doc, nil
}

// stem is the file name without its extension.
func stem(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

func isContentFile(name string) bool {
	ext := path.Ext(name)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
