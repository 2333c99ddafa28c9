package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/config"
	"github.com/spec-kit/content-service/internal/domain"
)

func TestPromoteChangesPermission(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "a@x.com")

	user, err := f.userSvc.Promote(context.Background(), "admin", reg.User.ID, domain.PermissionEditor)
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionEditor, user.PermissionCode())

	stored, err := f.users.GetByID(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionEditor, stored.PermissionCode())
}

func TestPromoteUnknownCode(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "a@x.com")

	_, err := f.userSvc.Promote(context.Background(), "admin", reg.User.ID, domain.PermissionCode(7))
	assert.ErrorIs(t, err, domain.ErrPermissionNotFound)
}

func TestUpdateEmailConflict(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com")
	b := f.register(t, "b@x.com")

	taken := "a@x.com"
	_, err := f.userSvc.Update(context.Background(), "admin", b.User.ID, UpdateUserInput{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	same := "b@x.com"
	name := "Bee"
	user, err := f.userSvc.Update(context.Background(), "admin", b.User.ID, UpdateUserInput{Email: &same, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Bee", user.Name)
}

func TestCreateListAndDeleteUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, email := range []string{"1@x.com", "2@x.com", "3@x.com"} {
		_, err := f.userSvc.Create(ctx, "admin", CreateUserInput{Name: "U", Email: email, Password: "abcdef", Permission: domain.PermissionReader})
		require.NoError(t, err)
	}

	page, err := f.userSvc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.False(t, page.HasMore)

	require.NoError(t, f.userSvc.Delete(ctx, "admin", page.Items[0].ID))
	assert.ErrorIs(t, f.userSvc.Delete(ctx, "admin", page.Items[0].ID), domain.ErrNotFound)

	page, err = f.userSvc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestEnsureRootAdminIsIdempotent(t *testing.T) {
	f := newFixture(t)
	cfg := config.SeedConfig{RootName: "Root", RootEmail: "root@admin.com", RootPassword: "rootpass"}

	require.NoError(t, EnsureRootAdmin(context.Background(), f.userSvc, cfg, zap.NewNop()))
	require.NoError(t, EnsureRootAdmin(context.Background(), f.userSvc, cfg, zap.NewNop()))

	root, err := f.users.FindByEmail(context.Background(), "root@admin.com", false)
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionAdmin, root.PermissionCode())

	assert.NoError(t, EnsureRootAdmin(context.Background(), f.userSvc, config.SeedConfig{}, zap.NewNop()))
}
