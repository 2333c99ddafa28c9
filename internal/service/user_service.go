package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/events"
	"github.com/spec-kit/content-service/internal/pagination"
	"github.com/spec-kit/content-service/internal/repository"
)

// CreateUserInput is the admin payload for a new account.
type CreateUserInput struct {
	Name       string
	Email      string
	Password   string
	Permission domain.PermissionCode
}

// UpdateUserInput carries optional changes. Setting Permission promotes or
// demotes the user.
type UpdateUserInput struct {
	Name       *string
	Email      *string
	Password   *string
	Permission *domain.PermissionCode
}

// UserService implements user administration.
type UserService struct {
	users       repository.UserRepository
	permissions repository.PermissionRepository
	passwords   auth.PasswordVerifier
	pages       *pagination.Engine[domain.User]
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewUserService builds the service.
func NewUserService(
	users repository.UserRepository,
	permissions repository.PermissionRepository,
	passwords auth.PasswordVerifier,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:       users,
		permissions: permissions,
		passwords:   passwords,
		pages:       pagination.NewEngine[domain.User](users, func(u domain.User) string { return u.ID }),
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// List returns one page of active users, newest first.
func (s *UserService) List(ctx context.Context, cursor string) (pagination.Page[domain.User], error) {
	return s.pages.Page(ctx, cursor)
}

// Get returns an active user.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// Create adds a user with an explicit permission.
func (s *UserService) Create(ctx context.Context, actorID string, in CreateUserInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	if err := ensureEmailAvailable(ctx, s.users, email, ""); err != nil {
		return nil, err
	}
	perm, err := s.permission(ctx, in.Permission)
	if err != nil {
		return nil, err
	}
	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		PermissionID: perm.ID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	user.Permission = perm

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventUserCreated, user.ID, actorID, events.UserPayload{
		Email:      user.Email,
		Permission: perm.Code,
	}))
	return user, nil
}

// Update applies the non-nil fields of in.
func (s *UserService) Update(ctx context.Context, actorID, id string, in UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != user.Email {
			if err := ensureEmailAvailable(ctx, s.users, email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if in.Password != nil {
		hash, err := s.passwords.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if in.Permission != nil {
		perm, err := s.permission(ctx, *in.Permission)
		if err != nil {
			return nil, err
		}
		user.PermissionID = perm.ID
		user.Permission = perm
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventUserUpdated, user.ID, actorID, events.UserPayload{
		Email:      user.Email,
		Permission: user.PermissionCode(),
	}))
	return user, nil
}

// Promote changes the permission of a user.
func (s *UserService) Promote(ctx context.Context, actorID, id string, code domain.PermissionCode) (*domain.User, error) {
	return s.Update(ctx, actorID, id, UpdateUserInput{Permission: &code})
}

// Delete soft-deletes a user. Outstanding tokens of the user stop working
// because the principal can no longer be loaded.
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.users.SoftDelete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventUserDeleted, id, actorID, nil))
	return nil
}

func (s *UserService) permission(ctx context.Context, code domain.PermissionCode) (*domain.Permission, error) {
	if !code.Valid() {
		return nil, domain.ErrPermissionNotFound
	}
	perm, err := s.permissions.GetByCode(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrPermissionNotFound
	}
	return perm, err
}
