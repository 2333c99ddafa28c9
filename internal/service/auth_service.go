package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/events"
	"github.com/spec-kit/content-service/internal/observability"
	"github.com/spec-kit/content-service/internal/repository"
	"github.com/spec-kit/content-service/internal/revocation"
)

// timingPassword is hashed once at startup. Logins for unknown emails verify
// against its digest so they cost the same as a wrong password.
const timingPassword = "timing-equalizer-password"

// AuthResult is returned by register and login.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration, login and logout flows.
type AuthService struct {
	users       repository.UserRepository
	permissions repository.PermissionRepository
	revoked     revocation.Store
	tokens      *auth.TokenCodec
	passwords   auth.PasswordVerifier
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	metrics     *observability.Metrics
	dummyDigest string
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	Users       repository.UserRepository
	Permissions repository.PermissionRepository
	Revoked     revocation.Store
	Tokens      *auth.TokenCodec
	Passwords   auth.PasswordVerifier
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Metrics     *observability.Metrics
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dummy, err := deps.Passwords.Hash(timingPassword)
	if err != nil {
		logger.Warn("timing digest unavailable", zap.Error(err))
	}
	return &AuthService{
		users:       deps.Users,
		permissions: deps.Permissions,
		revoked:     deps.Revoked,
		tokens:      deps.Tokens,
		passwords:   deps.Passwords,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		metrics:     deps.Metrics,
		dummyDigest: dummy,
	}
}

// Register creates a Reader account and logs it in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	result, err := s.register(ctx, strings.TrimSpace(name), strings.TrimSpace(email), password)
	s.metrics.RecordAuthOutcome("register", outcome(err))
	return result, err
}

func (s *AuthService) register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	if err := ensureEmailAvailable(ctx, s.users, email, ""); err != nil {
		return nil, err
	}

	perm, err := s.permissions.GetByCode(ctx, domain.PermissionReader)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("reader permission missing: %w", domain.ErrPermissionNotFound)
		}
		return nil, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		PermissionID: perm.ID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	user.Permission = perm

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventUserRegistered, user.ID, user.ID, events.UserPayload{
		Email:      user.Email,
		Permission: perm.Code,
	}))
	return result, nil
}

// Login verifies credentials. Unknown emails, wrong passwords and broken
// permission references all yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	result, err := s.login(ctx, strings.TrimSpace(email), password)
	s.metrics.RecordAuthOutcome("login", outcome(err))
	return result, err
}

func (s *AuthService) login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email, false)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.passwords.Verify(password, s.dummyDigest)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.passwords.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Permission == nil || user.Permission.Code == 0 {
		s.logger.Warn("login refused: permission reference missing", zap.String("user_id", user.ID))
		return nil, domain.ErrInvalidCredentials
	}

	s.upgradeDigest(ctx, user, password)

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventUserLoggedIn, user.ID, user.ID, nil))
	return result, nil
}

// Logout revokes token. Revoking an already revoked token succeeds.
func (s *AuthService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	err := s.revoked.Revoke(ctx, token, expiresAt)
	s.metrics.RecordAuthOutcome("logout", outcome(err))
	if err != nil {
		return err
	}
	s.publish(ctx, events.New(events.EventTokenRevoked, revocation.HashToken(token), "", events.TokenRevokedPayload{
		ExpiresAt: expiresAt,
	}))
	return nil
}

// upgradeDigest rewrites a digest produced with outdated hasher settings, so
// stored digests converge on the format the timing digest uses. Failures are
// logged and never fail the login.
func (s *AuthService) upgradeDigest(ctx context.Context, user *domain.User, password string) {
	rehasher, ok := s.passwords.(auth.Rehasher)
	if !ok || !rehasher.NeedsRehash(user.PasswordHash) {
		return
	}
	hash, err := s.passwords.Hash(password)
	if err != nil {
		s.logger.Warn("password rehash failed", zap.String("user_id", user.ID), zap.Error(err))
		return
	}
	previous := user.PasswordHash
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		user.PasswordHash = previous
		s.logger.Warn("password rehash not stored", zap.String("user_id", user.ID), zap.Error(err))
	}
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokens.Issue(auth.Subject{
		ID:         user.ID,
		Email:      user.Email,
		Permission: user.PermissionCode(),
	})
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.logger, event)
}

func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// ensureEmailAvailable fails with domain.ErrDuplicateEmail when an active
// user other than exceptID holds email.
func ensureEmailAvailable(ctx context.Context, users repository.UserRepository, email, exceptID string) error {
	existing, err := users.FindByEmail(ctx, email, true)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case !existing.IsDeleted() && existing.ID != exceptID:
		return domain.ErrDuplicateEmail
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "duplicate_email"
	default:
		return "error"
	}
}
