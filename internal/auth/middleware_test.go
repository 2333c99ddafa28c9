package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/repository/memory"
	"github.com/spec-kit/content-service/internal/revocation"
	apperrors "github.com/spec-kit/content-service/pkg/util"
)

type middlewareFixture struct {
	app     *fiber.App
	codec   *TokenCodec
	revoked *revocation.MemoryStore
	users   *memory.UserRepository
	perms   *memory.PermissionRepository
}

func newMiddlewareFixture(t *testing.T, policy Policy) *middlewareFixture {
	t.Helper()
	f := &middlewareFixture{
		codec:   NewTokenCodec("secret", time.Hour),
		revoked: revocation.NewMemoryStore(),
		perms:   memory.NewPermissionRepository(),
	}
	f.users = memory.NewUserRepository(f.perms)
	mw := NewAuthMiddleware(f.codec, f.revoked, f.users, policy, zap.NewNop(), nil)

	f.app = fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		de := apperrors.ToDomainError(err)
		return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code, "message": de.Message})
	}})
	f.app.Get("/me", mw.Handle, mw.Require(OpMe), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.User.ID)
	})
	f.app.Post("/articles", mw.Handle, mw.Require(OpArticlesCreate), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusCreated)
	})
	f.app.Get("/unknown", mw.Handle, mw.Require(Operation("nope")), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return f
}

func (f *middlewareFixture) user(t *testing.T, email string, code domain.PermissionCode) (*domain.User, string) {
	t.Helper()
	perm, err := f.perms.GetByCode(context.Background(), code)
	require.NoError(t, err)
	u := &domain.User{Name: "U", Email: email, PasswordHash: "x", PermissionID: perm.ID}
	require.NoError(t, f.users.Create(context.Background(), u))
	token, _, err := f.codec.Issue(Subject{ID: u.ID, Email: email, Permission: code})
	require.NoError(t, err)
	return u, token
}

func (f *middlewareFixture) do(t *testing.T, method, path, token string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	body := map[string]string{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestHandleUnauthenticatedCasesLookAlike(t *testing.T) {
	f := newMiddlewareFixture(t, DefaultPolicy())
	u, token := f.user(t, "a@x.com", domain.PermissionReader)

	expired, _, err := NewTokenCodec("secret", time.Hour, WithClock(func() time.Time {
		return time.Now().Add(-3 * time.Hour)
	})).Issue(Subject{ID: u.ID})
	require.NoError(t, err)

	ghost, _, err := f.codec.Issue(Subject{ID: "00000000-0000-0000-0000-000000000000"})
	require.NoError(t, err)

	revokedToken, _, err := f.codec.Issue(Subject{ID: u.ID})
	require.NoError(t, err)
	require.NoError(t, f.revoked.Revoke(context.Background(), revokedToken, time.Now().Add(time.Hour)))

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic " + token,
		"empty bearer":   "Bearer ",
		"garbage":        "Bearer not-a-token",
		"expired":        "Bearer " + expired,
		"revoked":        "Bearer " + revokedToken,
		"unknown user":   "Bearer " + ghost,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			status, body := f.do(t, http.MethodGet, "/me", header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "not authenticated", body["message"])
		})
	}
}

func TestHandleRejectsSoftDeletedPrincipal(t *testing.T) {
	f := newMiddlewareFixture(t, DefaultPolicy())
	u, token := f.user(t, "gone@x.com", domain.PermissionAdmin)
	require.NoError(t, f.users.SoftDelete(context.Background(), u.ID))

	status, _ := f.do(t, http.MethodGet, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRequireEmptySetAdmitsAnyPrincipal(t *testing.T) {
	f := newMiddlewareFixture(t, DefaultPolicy())
	_, token := f.user(t, "r@x.com", domain.PermissionReader)

	status, _ := f.do(t, http.MethodGet, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
}

func TestRequireChecksMembership(t *testing.T) {
	f := newMiddlewareFixture(t, DefaultPolicy())
	_, reader := f.user(t, "r@x.com", domain.PermissionReader)
	_, editor := f.user(t, "e@x.com", domain.PermissionEditor)
	_, admin := f.user(t, "a@x.com", domain.PermissionAdmin)

	status, body := f.do(t, http.MethodPost, "/articles", "Bearer "+reader)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, MsgInsufficientPermission, body["message"])

	status, _ = f.do(t, http.MethodPost, "/articles", "Bearer "+editor)
	assert.Equal(t, http.StatusCreated, status)
	status, _ = f.do(t, http.MethodPost, "/articles", "Bearer "+admin)
	assert.Equal(t, http.StatusCreated, status)
}

func TestRequireMissingPermissionReference(t *testing.T) {
	f := newMiddlewareFixture(t, DefaultPolicy())
	_, token := f.user(t, "e@x.com", domain.PermissionEditor)
	f.perms.Remove(domain.PermissionEditor)

	status, body := f.do(t, http.MethodPost, "/articles", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, MsgNoPermission, body["message"])

	status, _ = f.do(t, http.MethodGet, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
}

func TestRequireDeniesUnknownOperation(t *testing.T) {
	f := newMiddlewareFixture(t, DefaultPolicy())
	_, token := f.user(t, "a@x.com", domain.PermissionAdmin)

	status, _ := f.do(t, http.MethodGet, "/unknown", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRequireWithoutPrincipal(t *testing.T) {
	mw := NewAuthMiddleware(nil, nil, nil, DefaultPolicy(), nil, nil)
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		de := apperrors.ToDomainError(err)
		return c.Status(de.HTTPStatus).SendString(de.Message)
	}})
	app.Get("/me", mw.Require(OpMe), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequirePermissionWithoutCode(t *testing.T) {
	mw := NewAuthMiddleware(nil, nil, nil, DefaultPolicy(), nil, nil)
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		de := apperrors.ToDomainError(err)
		return c.Status(de.HTTPStatus).SendString(de.Message)
	}})
	app.Post("/articles", func(c *fiber.Ctx) error {
		c.Locals(principalKey, &Principal{User: &domain.User{ID: "u", Permission: &domain.Permission{ID: "p"}}})
		return c.Next()
	}, mw.Require(OpArticlesCreate), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusCreated) })

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/articles", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	buf := make([]byte, 64)
	n, _ := resp.Body.Read(buf)
	assert.Equal(t, MsgPermissionNoCode, string(buf[:n]))
}
