package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Store records tokens invalidated before their natural expiry. There is no
// un-revoke operation.
type Store interface {
	// Revoke marks token as revoked. Revoking twice is a no-op.
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	// IsRevoked reports whether token was revoked.
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Pruner removes revocation entries whose token has already expired. An
// expired token is rejected by the codec, so dropping its entry never
// re-admits it.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// HashToken returns the hex SHA-256 digest used as storage key so raw
// bearer tokens never reach persistent storage.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
