package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionNotFound = errors.New("permission not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
