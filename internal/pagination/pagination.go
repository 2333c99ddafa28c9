// Package pagination implements keyset paging over collections ordered by
// (created_at DESC, id DESC).
package pagination

import (
	"context"
	"strings"
	"time"
)

// PageSize is the fixed number of items per page.
const PageSize = 10

// Key is the position of an item in the ordering.
type Key struct {
	CreatedAt time.Time
	ID        string
}

// Follows reports whether k is ordered strictly after boundary, i.e. older,
// or equally old with a smaller id.
func (k Key) Follows(boundary Key) bool {
	if k.CreatedAt.Before(boundary.CreatedAt) {
		return true
	}
	return k.CreatedAt.Equal(boundary.CreatedAt) && k.ID < boundary.ID
}

// Precedes reports whether k sorts before other in page order.
func (k Key) Precedes(other Key) bool {
	return other.Follows(k)
}

// Source is the storage side of a paged collection.
type Source[T any] interface {
	// Boundary resolves a cursor to its key. It returns nil without error
	// when the referenced item does not exist or the cursor is not a valid id.
	Boundary(ctx context.Context, cursor string) (*Key, error)
	// After returns up to limit items following after in page order, or
	// the newest items when after is nil.
	After(ctx context.Context, after *Key, limit int) ([]T, error)
}

// Page is one slice of a collection.
type Page[T any] struct {
	Items      []T
	NextCursor string
	HasMore    bool
}

// Engine computes pages from a Source.
type Engine[T any] struct {
	source Source[T]
	idOf   func(T) string
	limit  int
}

// NewEngine builds an engine. idOf extracts the cursor value of an item.
func NewEngine[T any](source Source[T], idOf func(T) string) *Engine[T] {
	return &Engine[T]{source: source, idOf: idOf, limit: PageSize}
}

// Page returns the page following cursor. An empty, unknown or malformed
// cursor yields the first page. Storage errors are returned as is.
func (e *Engine[T]) Page(ctx context.Context, cursor string) (Page[T], error) {
	var boundary *Key
	if cursor = strings.TrimSpace(cursor); cursor != "" {
		key, err := e.source.Boundary(ctx, cursor)
		if err != nil {
			return Page[T]{}, err
		}
		boundary = key
	}

	items, err := e.source.After(ctx, boundary, e.limit+1)
	if err != nil {
		return Page[T]{}, err
	}

	page := Page[T]{Items: items}
	if len(items) > e.limit {
		page.Items = items[:e.limit]
		page.HasMore = true
		page.NextCursor = e.idOf(page.Items[e.limit-1])
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}
