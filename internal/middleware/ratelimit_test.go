package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketloop/marketplace/internal/config"
)

func rateLimitContext(t *testing.T, userID string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/tickets", nil)
	req.RemoteAddr = "10.0.0.7:4123"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/tickets")
	if userID != "" {
		c.Set("user_id", userID)
	}
	return c
}

func TestBuildRateKeyStrategies(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl"}
	c := rateLimitContext(t, "user42")

	cases := map[string]string{
		"ip":      "rl:ip:10.0.0.7",
		"user":    "rl:user:user42",
		"route":   "rl:route:GET /v1/tickets",
		"ip_user": "rl:ip:10.0.0.7:user:user42",
		"":        "rl:ip:10.0.0.7:user:user42:route:GET /v1/tickets",
		"bogus":   "rl:ip:10.0.0.7:user:user42:route:GET /v1/tickets",
	}
	for strategy, want := range cases {
		cfg.KeyStrategy = strategy
		assert.Equal(t, want, buildRateKey(cfg, c), "strategy %q", strategy)
	}
}

func TestBuildRateKeyAnonymousUser(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	c := rateLimitContext(t, "")

	assert.Equal(t, "rl:user:anon", buildRateKey(cfg, c))
}

func TestNewTokenBucketDisabledPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)

	called := false
	next := func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}

	c := rateLimitContext(t, "user42")
	require.NoError(t, mw(next)(c))
	assert.True(t, called)
	assert.Empty(t, c.Response().Header().Get("X-RateLimit-Limit"))
}

func TestAsInt64Conversions(t *testing.T) {
	assert.Equal(t, int64(7), asInt64(int64(7)))
	assert.Equal(t, int64(7), asInt64("7"))
	assert.Equal(t, int64(7), asInt64(float64(7.0)))
	assert.Equal(t, int64(0), asInt64("not a number"))
	assert.Equal(t, int64(0), asInt64(nil))
}
