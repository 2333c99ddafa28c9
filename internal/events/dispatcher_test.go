package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishRunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	boom := errors.New("boom")

	d.Subscribe(EventArticleCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.ResourceID)
		return boom
	})
	d.Subscribe(EventArticleCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.ResourceID)
		return nil
	})
	d.Subscribe(EventArticleDeleted, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), New(EventArticleCreated, "a1", "u1", ArticlePayload{Title: "t"}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first:a1", "second:a1"}, calls)
}

func TestNewStampsEvent(t *testing.T) {
	e := New(EventUserRegistered, "u1", "", nil)
	require.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, EventUserRegistered, e.Type)
}
