package auth

import (
	"errors"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

// Supported password hashing algorithms.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

const argon2idPrefix = "$argon2id$"

// ErrEmptyPassword is returned when hashing an empty plaintext.
var ErrEmptyPassword = errors.New("password is empty")

// PasswordVerifier hashes and verifies passwords.
type PasswordVerifier interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// PasswordHasher produces digests with the configured algorithm and verifies
// digests of either supported format.
type PasswordHasher struct {
	algorithm   string
	bcryptCost  int
	argonParams *argon2id.Params
}

// Rehasher is implemented by verifiers that can tell when a stored digest
// was produced with other settings than the ones used for new digests.
type Rehasher interface {
	NeedsRehash(digest string) bool
}

var (
	_ PasswordVerifier = (*PasswordHasher)(nil)
	_ Rehasher         = (*PasswordHasher)(nil)
)

// NewPasswordHasher builds a hasher. Unknown algorithms fall back to bcrypt.
func NewPasswordHasher(algorithm string, bcryptCost int) *PasswordHasher {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	algorithm = strings.ToLower(strings.TrimSpace(algorithm))
	if algorithm != AlgorithmArgon2id {
		algorithm = AlgorithmBcrypt
	}
	return &PasswordHasher{
		algorithm:   algorithm,
		bcryptCost:  bcryptCost,
		argonParams: argon2id.DefaultParams,
	}
}

// Algorithm returns the algorithm used for new digests.
func (h *PasswordHasher) Algorithm() string {
	return h.algorithm
}

// Hash returns a self-describing digest of plain.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	if h.algorithm == AlgorithmArgon2id {
		return argon2id.CreateHash(plain, h.argonParams)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches digest. Malformed digests yield false.
func (h *PasswordHasher) Verify(plain, digest string) bool {
	if digest == "" {
		return false
	}
	if strings.HasPrefix(digest, argon2idPrefix) {
		ok, err := argon2id.ComparePasswordAndHash(plain, digest)
		return err == nil && ok
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// NeedsRehash reports whether digest uses another algorithm, or another
// bcrypt cost, than Hash currently produces.
func (h *PasswordHasher) NeedsRehash(digest string) bool {
	if digest == "" {
		return false
	}
	isArgon := strings.HasPrefix(digest, argon2idPrefix)
	if h.algorithm == AlgorithmArgon2id {
		return !isArgon
	}
	if isArgon {
		return true
	}
	cost, err := bcrypt.Cost([]byte(digest))
	return err == nil && cost != h.bcryptCost
}
