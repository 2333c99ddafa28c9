package dto

import (
	"time"

	"github.com/spec-kit/content-service/internal/domain"
)

// RegisterRequest payload for new users.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthEnvelope is returned by register and login.
type AuthEnvelope struct {
	User UserResponse `json:"user"`
	Auth AuthResponse `json:"auth"`
}

// CreateUserRequest is the admin payload for a new account.
type CreateUserRequest struct {
	Name       string `json:"name" validate:"required,notblank,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Permission int    `json:"permission" validate:"required,oneof=1 2 3"`
}

// UpdateUserRequest carries optional admin changes.
type UpdateUserRequest struct {
	Name       *string `json:"name" validate:"omitempty,notblank,max=100"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Password   *string `json:"password" validate:"omitempty,min=6"`
	Permission *int    `json:"permission" validate:"omitempty,oneof=1 2 3"`
}

// PermissionCode converts the optional permission field.
func (r UpdateUserRequest) PermissionCode() *domain.PermissionCode {
	if r.Permission == nil {
		return nil
	}
	code := domain.PermissionCode(*r.Permission)
	return &code
}

// PermissionResponse describes a permission level.
type PermissionResponse struct {
	Code        domain.PermissionCode `json:"code"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Permission *PermissionResponse `json:"permission,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// PermissionLookup resolves display metadata for a code.
type PermissionLookup interface {
	Lookup(code domain.PermissionCode) (domain.Permission, error)
}

// NewPermissionResponse shapes p.
func NewPermissionResponse(p domain.Permission) PermissionResponse {
	return PermissionResponse{Code: p.Code, Name: p.Name, Description: p.Description}
}

// NewUserResponse shapes u. The permission is described through catalog
// and omitted when the user has none.
func NewUserResponse(u *domain.User, catalog PermissionLookup) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Permission == nil {
		return resp
	}
	perm := *u.Permission
	if catalog != nil {
		if meta, err := catalog.Lookup(perm.Code); err == nil {
			perm = meta
		}
	}
	pr := PermissionResponse{Code: perm.Code, Name: perm.Name}
	resp.Permission = &pr
	return resp
}

// NewUserList shapes a slice of users.
func NewUserList(users []domain.User, catalog PermissionLookup) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i], catalog))
	}
	return out
}
