package auth

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/repository"
)

// PermissionCatalog resolves permission codes to their display metadata. It
// is consulted for response shaping only; authorization uses codes directly.
type PermissionCatalog struct {
	mu      sync.RWMutex
	entries map[domain.PermissionCode]domain.Permission
}

// NewPermissionCatalog builds a catalog from perms.
func NewPermissionCatalog(perms []domain.Permission) *PermissionCatalog {
	c := &PermissionCatalog{entries: make(map[domain.PermissionCode]domain.Permission, len(perms))}
	for _, p := range perms {
		c.entries[p.Code] = p
	}
	return c
}

// LoadPermissionCatalog reads the permission table. An empty table yields
// the built-in permissions.
func LoadPermissionCatalog(ctx context.Context, repo repository.PermissionRepository) (*PermissionCatalog, error) {
	perms, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(perms) == 0 {
		perms = domain.BuiltinPermissions
	}
	return NewPermissionCatalog(perms), nil
}

// Lookup returns the permission registered for code.
func (c *PermissionCatalog) Lookup(code domain.PermissionCode) (domain.Permission, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.entries[code]
	if !ok {
		return domain.Permission{}, domain.ErrPermissionNotFound
	}
	return p, nil
}

// List returns every permission ordered by code.
func (c *PermissionCatalog) List() []domain.Permission {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Permission, 0, len(c.entries))
	for _, p := range c.entries {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
