package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/observability"
	"github.com/spec-kit/content-service/internal/repository"
	"github.com/spec-kit/content-service/internal/revocation"
	apperrors "github.com/spec-kit/content-service/pkg/util"
)

const principalKey = "auth_principal"

// Reasons an authentication attempt is rejected. They are logged and
// counted but never returned to the caller.
const (
	ReasonMissingHeader    = "missing_header"
	ReasonMalformedHeader  = "malformed_header"
	ReasonMalformedToken   = "malformed_token"
	ReasonExpiredToken     = "expired_token"
	ReasonRevokedToken     = "revoked_token"
	ReasonPrincipalMissing = "principal_missing"
)

// Forbidden messages, one per cause.
const (
	MsgNotAuthenticated       = "user not authenticated"
	MsgNoPermission           = "user has no permission"
	MsgPermissionNoCode       = "user permission has no code"
	MsgInsufficientPermission = "insufficient permissions"
)

// Principal represents the authenticated caller.
type Principal struct {
	User   *domain.User
	Claims *Claims
	// Token is the raw bearer token, kept so logout can revoke it.
	Token string
}

// AuthMiddleware validates bearer tokens, loads principals and enforces the
// operation policy.
type AuthMiddleware struct {
	tokens  *TokenCodec
	revoked revocation.Store
	users   repository.UserRepository
	policy  Policy
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(
	tokens *TokenCodec,
	revoked revocation.Store,
	users repository.UserRepository,
	policy Policy,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{
		tokens:  tokens,
		revoked: revoked,
		users:   users,
		policy:  policy,
		logger:  logger,
		metrics: metrics,
	}
}

func (m *AuthMiddleware) reject(c *fiber.Ctx, reason string, fields ...zap.Field) error {
	m.metrics.RecordAuthFailure(reason)
	fields = append(fields,
		zap.String("reason", reason),
		zap.String("path", c.Path()),
		zap.String("ip", c.IP()),
	)
	m.logger.Warn("authentication rejected", fields...)
	return apperrors.NewUnauthorized()
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return m.reject(c, ReasonMissingHeader)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return m.reject(c, ReasonMalformedHeader)
	}
	raw := strings.TrimSpace(parts[1])

	claims, err := m.tokens.Decode(raw)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return m.reject(c, ReasonExpiredToken)
		}
		return m.reject(c, ReasonMalformedToken)
	}

	ctx := c.UserContext()
	revoked, err := m.revoked.IsRevoked(ctx, raw)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if revoked {
		return m.reject(c, ReasonRevokedToken, zap.String("user_id", claims.SubjectID()))
	}

	user, err := m.users.GetByID(ctx, claims.SubjectID())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return m.reject(c, ReasonPrincipalMissing, zap.String("user_id", claims.SubjectID()))
		}
		return apperrors.NewInternalError(err)
	}
	if user.IsDeleted() {
		return m.reject(c, ReasonPrincipalMissing, zap.String("user_id", user.ID))
	}

	c.Locals(principalKey, &Principal{User: user, Claims: claims, Token: raw})
	return c.Next()
}

// Require admits the request when the principal's permission code belongs
// to the set the policy declares for op. It must run after Handle.
func (m *AuthMiddleware) Require(op Operation) fiber.Handler {
	allowed, known := m.policy[op]

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return m.deny(c, op, MsgNotAuthenticated)
		}
		if !known {
			return m.deny(c, op, MsgInsufficientPermission)
		}
		if len(allowed) == 0 {
			return c.Next()
		}
		if principal.User.Permission == nil {
			return m.deny(c, op, MsgNoPermission)
		}
		code := principal.User.Permission.Code
		if code == 0 {
			return m.deny(c, op, MsgPermissionNoCode)
		}
		if !allowed.Allows(code) {
			return m.deny(c, op, MsgInsufficientPermission)
		}
		return c.Next()
	}
}

func (m *AuthMiddleware) deny(c *fiber.Ctx, op Operation, msg string) error {
	m.metrics.RecordForbidden(string(op))
	m.logger.Info("permission denied", zap.String("operation", string(op)), zap.String("cause", msg))
	return apperrors.NewForbidden(msg)
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
