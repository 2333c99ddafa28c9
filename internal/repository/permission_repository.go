package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/content-service/internal/domain"
)

// PermissionRepository reads the permission reference table.
type PermissionRepository interface {
	List(ctx context.Context) ([]domain.Permission, error)
	GetByCode(ctx context.Context, code domain.PermissionCode) (*domain.Permission, error)
}

type permissionRepository struct {
	pool *pgxpool.Pool
}

// NewPermissionRepository returns a Postgres-backed implementation.
func NewPermissionRepository(pool *pgxpool.Pool) PermissionRepository {
	return &permissionRepository{pool: pool}
}

const permissionColumns = `id, code, name, description, created_at, updated_at`

func scanPermission(row pgx.Row) (*domain.Permission, error) {
	var p domain.Permission
	var code int
	if err := row.Scan(&p.ID, &code, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Code = domain.PermissionCode(code)
	return &p, nil
}

func (r *permissionRepository) List(ctx context.Context) ([]domain.Permission, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+permissionColumns+` FROM permissions ORDER BY code`)
	if err != nil {
		return nil, translateError("list permissions", err)
	}
	defer rows.Close()

	var out []domain.Permission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, translateError("scan permission", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("list permissions", err)
	}
	return out, nil
}

func (r *permissionRepository) GetByCode(ctx context.Context, code domain.PermissionCode) (*domain.Permission, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+permissionColumns+` FROM permissions WHERE code=$1`, int(code))
	p, err := scanPermission(row)
	if err != nil {
		return nil, translateError("get permission", err)
	}
	return p, nil
}
