package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func rateLimitedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(denyAllLimiter{}))
	handler := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/health", handler)
	r.GET("/metrics", handler)
	r.GET("/resources", handler)
	return r
}

func TestRateLimit_BlocksWhenExhausted(t *testing.T) {
	r := rateLimitedRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resources", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestRateLimit_SkipsHealthAndMetrics(t *testing.T) {
	r := rateLimitedRouter()

	for _, path := range []string{"/health", "/metrics"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected %s to bypass the limiter, got %d", path, w.Code)
		}
	}
}
