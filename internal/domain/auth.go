package domain

import "time"

// RevokedToken is a blacklist row. Tokens are keyed by their SHA-256 digest.
type RevokedToken struct {
	TokenHash string
	RevokedAt time.Time
	ExpiresAt time.Time
}
