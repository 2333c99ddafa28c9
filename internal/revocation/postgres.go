package revocation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spec-kit/content-service/internal/domain"
)

// PostgresStore persists revocations in the revoked_tokens table.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

var (
	_ Store  = (*PostgresStore)(nil)
	_ Pruner = (*PostgresStore)(nil)
)

// NewPostgresStore wraps db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	const query = `
INSERT INTO revoked_tokens (token_hash, revoked_at, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (token_hash) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, HashToken(token), s.now().UTC(), expiresAt.UTC()); err != nil {
		return fmt.Errorf("%w: revoke token: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_hash = $1)`
	var revoked bool
	if err := s.db.QueryRowContext(ctx, query, HashToken(token)).Scan(&revoked); err != nil {
		return false, fmt.Errorf("%w: check revocation: %v", domain.ErrStorageUnavailable, err)
	}
	return revoked, nil
}

func (s *PostgresStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM revoked_tokens WHERE expires_at < $1`
	res, err := s.db.ExecContext(ctx, query, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: prune revocations: %v", domain.ErrStorageUnavailable, err)
	}
	return res.RowsAffected()
}
