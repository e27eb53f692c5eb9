/*
Package content finds blog documents by slug.

Documents come from one or more Sources. The filesystem source reads the posts
folder, and the CMS sources hold published and draft documents. A Chain asks
its sources in order and returns the first document found.
*/
package content

import (
	"context"
	"errors"

	"github.com/ancientlore/knownblog/post"
)

var (
	// ErrNotFound is returned when no source has a document for a slug.
	ErrNotFound = errors.New("document not found")

	// ErrSlugMismatch is returned when a file's front matter slug differs
	// from its file name.
	ErrSlugMismatch = errors.New("front matter slug does not match file name")
)

// A Source looks up documents by slug. Preview selects draft content
// where the source distinguishes drafts. Lookup returns an error wrapping
// ErrNotFound when the source has no such document.
type Source interface {
	Lookup(ctx context.Context, slug string, preview bool) (*post.Document, error)
}

// Chain is an ordered list of sources.
type Chain []Source

// Lookup asks each source in order. Not-found results move on to the next
// source; any other error stops the search.
func (c Chain) Lookup(ctx context.Context, slug string, preview bool) (*post.Document, error) {
	for _, src := range c {
		if src == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := src.Lookup(ctx, slug, preview)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}
