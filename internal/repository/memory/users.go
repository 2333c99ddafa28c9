package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/pagination"
	"github.com/spec-kit/content-service/internal/repository"
)

// UserRepository stores users in a map and resolves their permission the
// way the SQL join does.
type UserRepository struct {
	mu          sync.RWMutex
	users       map[string]domain.User
	permissions *PermissionRepository
	now         func() time.Time
}

var _ repository.UserRepository = (*UserRepository)(nil)

// NewUserRepository builds an empty repository.
func NewUserRepository(permissions *PermissionRepository) *UserRepository {
	return &UserRepository{
		users:       make(map[string]domain.User),
		permissions: permissions,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the timestamp source for created rows.
func (r *UserRepository) WithClock(now func() time.Time) *UserRepository {
	r.now = now
	return r
}

func (r *UserRepository) hydrate(u domain.User) *domain.User {
	u.Permission = nil
	if u.PermissionID != "" && r.permissions != nil {
		u.Permission = r.permissions.byIDCopy(u.PermissionID)
	}
	return &u
}

func (r *UserRepository) emailTakenLocked(email, exceptID string) bool {
	for _, u := range r.users {
		if u.ID != exceptID && u.DeletedAt == nil && u.Email == email {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTakenLocked(user.Email, "") {
		return domain.ErrDuplicateEmail
	}
	now := r.now()
	user.ID = uuid.NewString()
	user.CreatedAt, user.UpdatedAt = now, now
	stored := *user
	stored.Permission = nil
	r.users[user.ID] = stored
	return nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.users[user.ID]
	if !ok || current.DeletedAt != nil {
		return domain.ErrNotFound
	}
	if r.emailTakenLocked(user.Email, user.ID) {
		return domain.ErrDuplicateEmail
	}
	current.Name = user.Name
	current.Email = user.Email
	current.PasswordHash = user.PasswordHash
	current.PermissionID = user.PermissionID
	current.UpdatedAt = r.now()
	user.UpdatedAt = current.UpdatedAt
	r.users[user.ID] = current
	return nil
}

func (r *UserRepository) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.users[id]
	if !ok || current.DeletedAt != nil {
		return domain.ErrNotFound
	}
	now := r.now()
	current.DeletedAt = &now
	r.users[id] = current
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}
	return r.hydrate(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string, includeDeleted bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var deleted *domain.User
	for _, u := range r.users {
		if u.Email != email {
			continue
		}
		if u.DeletedAt == nil {
			return r.hydrate(u), nil
		}
		if includeDeleted && (deleted == nil || u.DeletedAt.After(*deleted.DeletedAt)) {
			deleted = r.hydrate(u)
		}
	}
	if deleted != nil {
		return deleted, nil
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepository) Boundary(_ context.Context, cursor string) (*pagination.Key, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[cursor]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	return &pagination.Key{CreatedAt: u.CreatedAt, ID: u.ID}, nil
}

func (r *UserRepository) After(_ context.Context, after *pagination.Key, limit int) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	active := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		if u.DeletedAt != nil {
			continue
		}
		if after != nil && !userKey(u).Follows(*after) {
			continue
		}
		active = append(active, u)
	}
	sort.Slice(active, func(i, j int) bool { return userKey(active[i]).Precedes(userKey(active[j])) })
	if len(active) > limit {
		active = active[:limit]
	}
	out := make([]domain.User, 0, len(active))
	for _, u := range active {
		out = append(out, *r.hydrate(u))
	}
	return out, nil
}

func userKey(u domain.User) pagination.Key {
	return pagination.Key{CreatedAt: u.CreatedAt, ID: u.ID}
}
