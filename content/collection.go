package content

import (
	"context"
	"fmt"

	"github.com/ancientlore/knownblog/post"
)

// Collection is an in-memory set of raw CMS documents.
type Collection struct {
	Published [][]byte
	Draft     [][]byte
}

// Lookup searches the draft documents when preview is set and the
// published ones otherwise, returning the first whose slug matches.
func (c *Collection) Lookup(ctx context.Context, slug string, preview bool) (*post.Document, error) {
	docs := c.Published
	if preview {
		docs = c.Draft
	}
	for i, raw := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := post.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("Lookup: document %d: %w", i, err)
		}
		if doc.FrontMatter.Slug == slug {
			return doc, nil
		}
	}
	return nil, fmt.Errorf("Lookup %q: %w", slug, ErrNotFound)
}
