package repository

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/spec-kit/content-service/internal/pagination"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// keyset restricts q to rows strictly after the boundary in
// (created_at DESC, id DESC) order and fetches at most limit rows.
func keyset(q sq.SelectBuilder, createdCol, idCol string, after *pagination.Key, limit int) sq.SelectBuilder {
	if after != nil {
		q = q.Where(sq.Or{
			sq.Lt{createdCol: after.CreatedAt},
			sq.And{
				sq.Eq{createdCol: after.CreatedAt},
				sq.Lt{idCol: after.ID},
			},
		})
	}
	return q.OrderBy(createdCol+" DESC", idCol+" DESC").Limit(uint64(limit))
}

// validID reports whether s can be bound to a uuid column.
func validID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
