package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/content-service/internal/domain"
)

const defaultTokenTTL = 60 * time.Minute

var (
	// ErrTokenMalformed covers unparsable tokens and signature mismatches.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenExpired is returned for well-signed tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Subject is the identity encoded into a token.
type Subject struct {
	ID         string
	Email      string
	Permission domain.PermissionCode
}

// Claims describes JWT payload.
type Claims struct {
	Email      string                `json:"email"`
	Permission domain.PermissionCode `json:"perm"`
	jwt.RegisteredClaims
}

// SubjectID returns the id of the user the token was issued to.
func (c *Claims) SubjectID() string {
	return c.Subject
}

// ExpiresAtTime returns the expiry or the zero time when absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// TokenCodec signs and verifies HS256 access tokens. The signing key is
// loaded once; rotating it invalidates every outstanding token.
type TokenCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption customises a TokenCodec.
type CodecOption func(*TokenCodec)

// WithIssuer sets the iss claim written and required by the codec.
func WithIssuer(issuer string) CodecOption {
	return func(c *TokenCodec) { c.issuer = issuer }
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec builds a codec.
func NewTokenCodec(secret string, ttl time.Duration, opts ...CodecOption) *TokenCodec {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	c := &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the default lifetime of issued tokens.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for subject with the default TTL.
func (c *TokenCodec) Issue(subject Subject) (string, time.Time, error) {
	return c.Encode(subject, c.ttl)
}

// Encode signs a token for subject expiring ttl from now.
func (c *TokenCodec) Encode(subject Subject, ttl time.Duration) (string, time.Time, error) {
	if strings.TrimSpace(subject.ID) == "" {
		return "", time.Time{}, errors.New("subject id is required")
	}
	now := c.now().UTC()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Email:      subject.Email,
		Permission: subject.Permission,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Decode validates signature and expiry and returns the claims.
func (c *TokenCodec) Decode(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrTokenMalformed
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
