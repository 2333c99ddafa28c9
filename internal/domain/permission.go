package domain

import "time"

// PermissionCode is the closed set of privilege levels a user can hold.
type PermissionCode int

const (
	PermissionReader PermissionCode = 1
	PermissionEditor PermissionCode = 2
	PermissionAdmin  PermissionCode = 3
)

// Valid reports whether the code belongs to the known set.
func (c PermissionCode) Valid() bool {
	return c >= PermissionReader && c <= PermissionAdmin
}

// Permission is the reference row a user points at.
type Permission struct {
	ID          string
	Code        PermissionCode
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BuiltinPermissions mirrors the rows seeded by the initial migration.
var BuiltinPermissions = []Permission{
	{
		Code:        PermissionReader,
		Name:        "reader",
		Description: "Permission to only read articles. Actions: Read articles.",
	},
	{
		Code:        PermissionEditor,
		Name:        "editor",
		Description: "Permission to manage articles. Actions: Read, Create, Edit and Delete articles.",
	},
	{
		Code:        PermissionAdmin,
		Name:        "admin",
		Description: "Permission to manage articles and users. Actions: Read, Create, Edit and Delete articles and users.",
	},
}
