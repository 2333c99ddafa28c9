package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/content-service/internal/domain"
)

func TestArticleListingAcrossPages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	step := 0
	f.articles.WithClock(func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	})

	author := f.register(t, "e@x.com")
	var created []*domain.Article
	for i := 0; i < 15; i++ {
		a, err := f.articleSvc.Create(ctx, author.User.ID, fmt.Sprintf("Title %02d", i), "some long content")
		require.NoError(t, err)
		created = append(created, a)
	}

	first, err := f.articleSvc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, first.Items, 10)
	assert.True(t, first.HasMore)
	assert.Equal(t, created[14].ID, first.Items[0].ID)
	assert.Equal(t, first.Items[9].ID, first.NextCursor)
	assert.Equal(t, "Name", first.Items[0].AuthorName)

	second, err := f.articleSvc.List(ctx, first.NextCursor)
	require.NoError(t, err)
	require.Len(t, second.Items, 5)
	assert.False(t, second.HasMore)
	assert.Equal(t, created[0].ID, second.Items[4].ID)
}

func TestArticleUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.articleSvc.Create(ctx, "author", "  Hello  ", "content body")
	require.NoError(t, err)
	assert.Equal(t, "Hello", a.Title)

	title := "Changed"
	updated, err := f.articleSvc.Update(ctx, "author", a.ID, &title, nil)
	require.NoError(t, err)
	assert.Equal(t, "Changed", updated.Title)
	assert.Equal(t, "content body", updated.Content)

	require.NoError(t, f.articleSvc.Delete(ctx, "author", a.ID))
	_, err = f.articleSvc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.articleSvc.Update(ctx, "author", a.ID, &title, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
