/*
Package cms keeps the headless CMS documents in a SQL database.

Every entry is a raw document (front matter and body) with a status of
"published" or "draft". The store answers slug lookups directly, and it can
also load everything into a content.Collection for sites that want the CMS
documents held in memory.
*/
package cms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/ancientlore/knownblog/content"
	"github.com/ancientlore/knownblog/post"
)

// Status is the publication state of an entry.
type Status string

const (
	Published Status = "published"
	Draft     Status = "draft"
)

var (
	// ErrInvalidStatus is returned for statuses other than Published and Draft.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrMissingSlug is returned when a document to store has no valid slug.
	ErrMissingSlug = errors.New("document has no valid slug")
)

// Entry is a stored CMS document.
type Entry struct {
	bun.BaseModel `bun:"table:cms_posts,alias:p"`

	ID        uuid.UUID `bun:",pk,type:uuid"`
	Slug      string    `bun:"slug,notnull"`
	Status    Status    `bun:"status,notnull"`
	Body      string    `bun:"body,notnull"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Store reads and writes entries.
type Store struct {
	db *bun.DB
}

// NewStore returns a store using db. Call CreateSchema before first use
// of a new database.
func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// Open opens the SQLite database at dsn and makes sure the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	s := NewStore(db)
	err = s.CreateSchema(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("Open: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSchema creates the entry table and its slug index.
func (s *Store) CreateSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*Entry)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("CreateSchema: %w", err)
	}
	_, err = s.db.NewCreateIndex().
		Model((*Entry)(nil)).
		Index("cms_posts_slug_status_idx").
		Unique().
		IfNotExists().
		Column("slug", "status").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("CreateSchema: %w", err)
	}
	return nil
}

// Put stores a raw document under status, replacing any entry with the
// same slug and status. The slug is taken from the front matter.
func (s *Store) Put(ctx context.Context, status Status, raw []byte) (*Entry, error) {
	if status != Published && status != Draft {
		return nil, fmt.Errorf("Put %q: %w", status, ErrInvalidStatus)
	}
	doc, err := post.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("Put: %w", err)
	}
	if !post.ValidSlug(doc.FrontMatter.Slug) {
		return nil, fmt.Errorf("Put: %w", ErrMissingSlug)
	}
	e := &Entry{
		ID:        uuid.New(),
		Slug:      doc.FrontMatter.Slug,
		Status:    status,
		Body:      string(raw),
		UpdatedAt: time.Now().UTC(),
	}
	_, err = s.db.NewInsert().
		Model(e).
		On("CONFLICT (slug, status) DO UPDATE").
		Set("body = EXCLUDED.body").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("Put: %w", err)
	}
	// a replaced row keeps its original id
	err = s.db.NewSelect().
		Model(e).
		Where("slug = ?", e.Slug).
		Where("status = ?", e.Status).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("Put: %w", err)
	}
	return e, nil
}

// Delete removes the entry for slug and status.
func (s *Store) Delete(ctx context.Context, status Status, slug string) error {
	res, err := s.db.NewDelete().
		Model((*Entry)(nil)).
		Where("slug = ?", slug).
		Where("status = ?", status).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("Delete %q: %w", slug, content.ErrNotFound)
	}
	return nil
}

// Lookup finds the draft entry for slug in preview mode and the published
// entry otherwise.
func (s *Store) Lookup(ctx context.Context, slug string, preview bool) (*post.Document, error) {
	status := Published
	if preview {
		status = Draft
	}
	var e Entry
	err := s.db.NewSelect().
		Model(&e).
		Where("slug = ?", slug).
		Where("status = ?", status).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("Lookup %q: %w", slug, content.ErrNotFound)
		}
		return nil, fmt.Errorf("Lookup: %w", err)
	}
	doc, err := post.Parse([]byte(e.Body))
	if err != nil {
		return nil, fmt.Errorf("Lookup %q: %w", slug, err)
	}
	return doc, nil
}

// Collection loads every entry into memory.
func (s *Store) Collection(ctx context.Context) (*content.Collection, error) {
	var entries []Entry
	err := s.db.NewSelect().
		Model(&entries).
		OrderExpr("slug ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("Collection: %w", err)
	}
	var c content.Collection
	for _, e := range entries {
		switch e.Status {
		case Published:
			c.Published = append(c.Published, []byte(e.Body))
		case Draft:
			c.Draft = append(c.Draft, []byte(e.Body))
		}
	}
	return &c, nil
}
