package observability

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/config"
)

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "bogus"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordAuthFailure("expired_token")
	m.RecordAuthFailure("expired_token")
	m.RecordForbidden("article.create")
	m.RecordPruned(4)
	m.RecordPruned(0)
	m.RecordRequest("/api/articles", "GET", 200, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.authFailures.WithLabelValues("expired_token")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.forbidden.WithLabelValues("article.create")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.revokedPruned))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/articles", "200")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordAuthFailure("x")
		m.RecordRequest("/", "GET", 200, time.Second)
		m.RecordError("/", "GET", "X")
	})
}

func TestRequestLoggerRecordsRoutePattern(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/items/42", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(body))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/items/:id", "200")))
}
