package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/repository/memory"
)

func TestPermissionCatalogLookup(t *testing.T) {
	catalog, err := LoadPermissionCatalog(context.Background(), memory.NewPermissionRepository())
	require.NoError(t, err)

	p, err := catalog.Lookup(domain.PermissionEditor)
	require.NoError(t, err)
	assert.Equal(t, "editor", p.Name)

	_, err = catalog.Lookup(domain.PermissionCode(9))
	assert.ErrorIs(t, err, domain.ErrPermissionNotFound)

	list := catalog.List()
	require.Len(t, list, 3)
	assert.Equal(t, domain.PermissionReader, list[0].Code)
	assert.Equal(t, domain.PermissionAdmin, list[2].Code)
}

func TestDefaultPolicyIsSetMembership(t *testing.T) {
	policy := DefaultPolicy()

	assert.Empty(t, policy[OpMe])
	assert.True(t, policy[OpArticlesCreate].Allows(domain.PermissionAdmin))
	assert.True(t, policy[OpArticlesCreate].Allows(domain.PermissionEditor))
	assert.False(t, policy[OpArticlesCreate].Allows(domain.PermissionReader))
	assert.False(t, policy[OpUsersUpdate].Allows(domain.PermissionEditor))
	assert.True(t, policy[OpArticlesList].Allows(domain.PermissionReader))
}
