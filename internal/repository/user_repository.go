package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/pagination"
)

// UserRepository defines persistence access for users.
type UserRepository interface {
	pagination.Source[domain.User]
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	SoftDelete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail looks a user up by email. Soft-deleted rows are only
	// considered when includeDeleted is set.
	FindByEmail(ctx context.Context, email string, includeDeleted bool) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

var userColumns = []string{
	"u.id", "u.name", "u.email", "u.password_hash", "u.permission_id",
	"u.created_at", "u.updated_at", "u.deleted_at",
	"p.id", "p.code", "p.name", "p.description", "p.created_at", "p.updated_at",
}

func selectUsers() sq.SelectBuilder {
	return psql.Select(userColumns...).
		From("users u").
		LeftJoin("permissions p ON p.id = u.permission_id")
}

func userPageQuery(after *pagination.Key, limit int) sq.SelectBuilder {
	return keyset(selectUsers().Where(sq.Eq{"u.deleted_at": nil}), "u.created_at", "u.id", after, limit)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user         domain.User
		permissionID *string
		pID          *string
		pCode        *int
		pName        *string
		pDescription *string
		pCreatedAt   *time.Time
		pUpdatedAt   *time.Time
	)
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&permissionID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
		&pID,
		&pCode,
		&pName,
		&pDescription,
		&pCreatedAt,
		&pUpdatedAt,
	); err != nil {
		return nil, err
	}
	if permissionID != nil {
		user.PermissionID = *permissionID
	}
	if pID != nil {
		perm := &domain.Permission{ID: *pID}
		if pCode != nil {
			perm.Code = domain.PermissionCode(*pCode)
		}
		if pName != nil {
			perm.Name = *pName
		}
		if pDescription != nil {
			perm.Description = *pDescription
		}
		if pCreatedAt != nil {
			perm.CreatedAt = *pCreatedAt
		}
		if pUpdatedAt != nil {
			perm.UpdatedAt = *pUpdatedAt
		}
		user.Permission = perm
	}
	return &user, nil
}

func (r *userRepository) queryOne(ctx context.Context, op string, q sq.SelectBuilder) (*domain.User, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	user, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, translateError(op, err)
	}
	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, permission_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		nullableID(user.PermissionID),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return translateError("create user", err)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, password_hash=$3, permission_id=$4, updated_at=NOW()
        WHERE id=$5 AND deleted_at IS NULL
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		nullableID(user.PermissionID),
		user.ID,
	).Scan(&user.UpdatedAt)
	return translateError("update user", err)
}

func (r *userRepository) SoftDelete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	const query = `UPDATE users SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return translateError("delete user", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	return r.queryOne(ctx, "get user", selectUsers().Where(sq.Eq{"u.id": id, "u.deleted_at": nil}))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string, includeDeleted bool) (*domain.User, error) {
	q := selectUsers().Where(sq.Eq{"u.email": email})
	if includeDeleted {
		q = q.OrderBy("u.deleted_at DESC NULLS FIRST").Limit(1)
	} else {
		q = q.Where(sq.Eq{"u.deleted_at": nil})
	}
	return r.queryOne(ctx, "find user by email", q)
}

func (r *userRepository) Boundary(ctx context.Context, cursor string) (*pagination.Key, error) {
	if !validID(cursor) {
		return nil, nil
	}
	const query = `SELECT created_at, id FROM users WHERE id=$1 AND deleted_at IS NULL`
	var key pagination.Key
	if err := r.pool.QueryRow(ctx, query, cursor).Scan(&key.CreatedAt, &key.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError("resolve user cursor", err)
	}
	return &key, nil
}

func (r *userRepository) After(ctx context.Context, after *pagination.Key, limit int) ([]domain.User, error) {
	sqlStr, args, err := userPageQuery(after, limit).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, translateError("list users", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, translateError("scan user", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("list users", err)
	}
	return users, nil
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
