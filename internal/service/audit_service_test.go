package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/content-service/internal/events"
	"github.com/spec-kit/content-service/internal/observability"
)

func TestAuditServiceWithoutLogger(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	var audit *AuditService
	require.NotPanics(t, func() {
		audit = NewAuditService(dispatcher, nil, metrics)
	})
	audit.RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(),
		events.New(events.EventArticleCreated, "article-1", "user-1", events.ArticlePayload{Title: "Hello"})))

	count, err := testutil.GatherAndCount(metrics.Registry(), "audit_events_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
