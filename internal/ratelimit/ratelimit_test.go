// File: internal/ratelimit/ratelimit_test.go
package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(t *testing.T, headers map[string]string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

func testConfig() *Config {
	return &Config{
		WindowSize:    time.Minute,
		MaxAttempts:   3,
		CleanupPeriod: time.Minute,
		BanDuration:   time.Minute,
	}
}

func TestAllowWithinLimit(t *testing.T) {
	limiter := NewMemoryRateLimiter(testConfig())
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("10.0.0.1")
		assert.True(t, allowed, "attempt %d", i+1)
		assert.Equal(t, 2-i, info.Remaining)
	}
}

func TestBansAfterLimitExceeded(t *testing.T) {
	limiter := NewMemoryRateLimiter(testConfig())
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("10.0.0.1")
		require.True(t, allowed)
	}

	allowed, info := limiter.Allow("10.0.0.1")
	assert.False(t, allowed)
	assert.True(t, info.Banned)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestIdentifiersAreIndependent(t *testing.T) {
	limiter := NewMemoryRateLimiter(testConfig())
	defer limiter.Close()

	for i := 0; i < 4; i++ {
		limiter.Allow("10.0.0.1")
	}

	allowed, _ := limiter.Allow("10.0.0.2")
	assert.True(t, allowed)
}

func TestGetClientIPHeaders(t *testing.T) {
	r := newRequest(t, map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"})
	assert.Equal(t, "203.0.113.9", GetClientIP(r))

	r = newRequest(t, map[string]string{"X-Real-IP": "203.0.113.10"})
	assert.Equal(t, "203.0.113.10", GetClientIP(r))

	r = newRequest(t, nil)
	assert.Equal(t, "192.0.2.1", GetClientIP(r))
}
