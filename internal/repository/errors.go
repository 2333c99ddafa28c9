package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/content-service/internal/domain"
)

const uniqueViolation = "23505"

// translateError maps driver errors onto domain sentinels. Anything that is
// not a missing row or a uniqueness conflict is treated as an outage.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrDuplicateEmail
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, op, err)
}
