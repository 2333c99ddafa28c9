// Package memory provides in-process repositories used by tests and by the
// server when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/repository"
)

// PermissionRepository holds the permission reference rows.
type PermissionRepository struct {
	mu    sync.RWMutex
	byID  map[string]domain.Permission
	codes map[domain.PermissionCode]string
}

var _ repository.PermissionRepository = (*PermissionRepository)(nil)

// NewPermissionRepository returns a repository seeded with the built-in
// permissions.
func NewPermissionRepository() *PermissionRepository {
	r := &PermissionRepository{
		byID:  make(map[string]domain.Permission),
		codes: make(map[domain.PermissionCode]string),
	}
	now := time.Now().UTC()
	for _, p := range domain.BuiltinPermissions {
		p.ID = uuid.NewString()
		p.CreatedAt, p.UpdatedAt = now, now
		r.put(p)
	}
	return r
}

func (r *PermissionRepository) put(p domain.Permission) {
	r.byID[p.ID] = p
	r.codes[p.Code] = p.ID
}

// Remove deletes the permission with code, leaving users that reference it
// dangling.
func (r *PermissionRepository) Remove(code domain.PermissionCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.codes[code]; ok {
		delete(r.byID, id)
		delete(r.codes, code)
	}
}

func (r *PermissionRepository) List(_ context.Context) ([]domain.Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Permission, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *PermissionRepository) GetByCode(_ context.Context, code domain.PermissionCode) (*domain.Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.codes[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := r.byID[id]
	return &p, nil
}

func (r *PermissionRepository) byIDCopy(id string) *domain.Permission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil
	}
	return &p
}
