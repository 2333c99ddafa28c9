package dto

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/pkg/util"
)

type stubCatalog map[domain.PermissionCode]domain.Permission

func (s stubCatalog) Lookup(code domain.PermissionCode) (domain.Permission, error) {
	p, ok := s[code]
	if !ok {
		return domain.Permission{}, errors.New("missing")
	}
	return p, nil
}

func TestNewUserResponseUsesCatalogName(t *testing.T) {
	u := &domain.User{ID: "u1", Email: "a@x.com", PasswordHash: "secret", Permission: &domain.Permission{Code: domain.PermissionEditor}}
	resp := NewUserResponse(u, stubCatalog{domain.PermissionEditor: {Code: domain.PermissionEditor, Name: "editor"}})

	require.NotNil(t, resp.Permission)
	assert.Equal(t, "editor", resp.Permission.Name)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
}

func TestNewUserResponseWithoutPermission(t *testing.T) {
	resp := NewUserResponse(&domain.User{ID: "u1"}, nil)
	assert.Nil(t, resp.Permission)
}

func TestPageMetaOmitsEmptyCursor(t *testing.T) {
	raw, err := json.Marshal(PageResponse[int]{Data: []int{}, Meta: PageMeta{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[],"meta":{"hasMore":false}}`, string(raw))
}

func TestRequestValidation(t *testing.T) {
	err := util.ValidateStruct(RegisterRequest{Name: "", Email: "nope", Password: "123"})
	require.Error(t, err)
	var de *util.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Contains(t, de.Details, "name")
	assert.Contains(t, de.Details, "email")
	assert.Contains(t, de.Details, "password")

	assert.NoError(t, util.ValidateStruct(RegisterRequest{Name: "A", Email: "a@x.com", Password: "abcdef"}))

	short := "short"
	err = util.ValidateStruct(UpdateArticleRequest{Content: &short})
	require.Error(t, err)

	assert.NoError(t, util.ValidateStruct(UpdateArticleRequest{}))
	assert.NoError(t, util.ValidateStruct(CreateArticleRequest{Title: "Hello", Content: "long enough body"}))

	blank := "   "
	for name, req := range map[string]any{
		"register":       RegisterRequest{Name: blank, Email: "a@x.com", Password: "abcdef"},
		"create user":    CreateUserRequest{Name: blank, Email: "a@x.com", Password: "abcdef", Permission: 1},
		"update user":    UpdateUserRequest{Name: &blank},
		"create article": CreateArticleRequest{Title: blank, Content: "long enough body"},
		"update article": UpdateArticleRequest{Title: &blank},
	} {
		err := util.ValidateStruct(req)
		require.ErrorAs(t, err, &de, name)
		assert.Equal(t, "VALIDATION_FAILED", de.Code, name)
	}

	bad := 5
	assert.Error(t, util.ValidateStruct(UpdateUserRequest{Permission: &bad}))
}
