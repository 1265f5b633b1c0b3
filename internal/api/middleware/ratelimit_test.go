package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func rateLimitedEcho(rps float64, burst int) *echo.Echo {
	e := echo.New()
	e.Use(RateLimiter(rps, burst, nil, nil))
	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "success")
	})
	return e
}

func get(e *echo.Echo, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_WithinLimit(t *testing.T) {
	e := rateLimitedEcho(10, 20)
	assert.Equal(t, http.StatusOK, get(e, "").Code)
}

func TestRateLimiter_ExceedsLimit(t *testing.T) {
	e := rateLimitedEcho(1, 1)

	assert.Equal(t, http.StatusOK, get(e, "").Code)

	rec := get(e, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRateLimiter_PerIP(t *testing.T) {
	e := rateLimitedEcho(1, 1)

	assert.Equal(t, http.StatusOK, get(e, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(e, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, get(e, "10.0.0.2:1234").Code)
}

func TestRateLimiter_DefaultsForNonPositiveValues(t *testing.T) {
	e := rateLimitedEcho(0, 0)
	for i := 0; i < DefaultBurst; i++ {
		assert.Equal(t, http.StatusOK, get(e, "").Code)
	}
}

func TestIPRateLimiter_SameLimiterPerIP(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(10), 20)

	assert.Same(t, limiter.GetLimiter("192.168.1.1"), limiter.GetLimiter("192.168.1.1"))
	assert.NotSame(t, limiter.GetLimiter("192.168.1.1"), limiter.GetLimiter("192.168.1.2"))
}

func TestIPRateLimiter_CleanupStale(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(10), 20)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.GetLimiter("192.168.1.1")
	now = now.Add(15 * time.Minute)
	limiter.GetLimiter("192.168.1.2")

	removed := limiter.CleanupStale(10 * time.Minute)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, limiter.Len())
}

func TestRateLimiter_CleanupStopsWhenDone(t *testing.T) {
	done := make(chan struct{})
	mw := RateLimiter(10, 20, nil, done)
	assert.NotNil(t, mw)
	close(done)
}
