package domain

import "time"

// User is the principal that authenticates against the API.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	PermissionID string
	// Permission is nil when the referenced row is missing.
	Permission *Permission
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// IsDeleted reports whether the user has been soft-deleted.
func (u *User) IsDeleted() bool {
	return u != nil && u.DeletedAt != nil
}

// PermissionCode returns the code of the attached permission, or zero.
func (u *User) PermissionCode() PermissionCode {
	if u == nil || u.Permission == nil {
		return 0
	}
	return u.Permission.Code
}
