package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/events"
	"github.com/spec-kit/content-service/internal/repository/memory"
	"github.com/spec-kit/content-service/internal/revocation"
)

type fixture struct {
	perms      *memory.PermissionRepository
	users      *memory.UserRepository
	articles   *memory.ArticleRepository
	revoked    *revocation.MemoryStore
	codec      *auth.TokenCodec
	hasher     *auth.PasswordHasher
	dispatcher events.Dispatcher
	auth       *AuthService
	userSvc    *UserService
	articleSvc *ArticleService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		perms:      memory.NewPermissionRepository(),
		revoked:    revocation.NewMemoryStore(),
		codec:      auth.NewTokenCodec("test-secret", time.Hour),
		hasher:     auth.NewPasswordHasher(auth.AlgorithmBcrypt, bcrypt.MinCost),
		dispatcher: events.NewInMemoryDispatcher(),
	}
	f.users = memory.NewUserRepository(f.perms)
	f.articles = memory.NewArticleRepository(f.users)
	f.auth = NewAuthService(AuthDependencies{
		Users:       f.users,
		Permissions: f.perms,
		Revoked:     f.revoked,
		Tokens:      f.codec,
		Passwords:   f.hasher,
		Dispatcher:  f.dispatcher,
		Logger:      zap.NewNop(),
	})
	f.userSvc = NewUserService(f.users, f.perms, f.hasher, f.dispatcher, zap.NewNop())
	f.articleSvc = NewArticleService(f.articles, f.dispatcher, zap.NewNop())
	return f
}

func (f *fixture) register(t *testing.T, email string) *AuthResult {
	t.Helper()
	res, err := f.auth.Register(context.Background(), "Name", email, "abcdef")
	require.NoError(t, err)
	return res
}
