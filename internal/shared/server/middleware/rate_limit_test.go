package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newSessionLimitRouter(limiter *RateLimiter, userID *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", *userID)
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/sessions/:id/submit" {
				return "MODEL"
			}
			return "DEFAULT"
		},
		Limiter: limiter,
		Rules: map[string]RateLimitRule{
			"MODEL":   {Rate: 1, Burst: 2},
			"DEFAULT": {Rate: 20, Burst: 40},
		},
	}))
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	r.GET("/api/v1/sessions/:id", ok)
	r.POST("/api/v1/sessions/:id/submit", ok)
	return r
}

func serve(r *gin.Engine, method, path string) int {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(method, path, nil))
	return resp.Code
}

func TestRateLimitModelGroupTighterThanDefault(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	user := "guest:test-guest"
	r := newSessionLimitRouter(NewRateLimiter(func() time.Time { return now }), &user)

	for i := 0; i < 2; i++ {
		if code := serve(r, http.MethodPost, "/api/v1/sessions/s1/submit"); code != http.StatusOK {
			t.Fatalf("submit %d expected 200, got %d", i+1, code)
		}
	}
	if code := serve(r, http.MethodPost, "/api/v1/sessions/s1/submit"); code != http.StatusTooManyRequests {
		t.Fatalf("submit 3 expected 429, got %d", code)
	}

	// Session reads draw from their own bucket.
	for i := 0; i < 10; i++ {
		if code := serve(r, http.MethodGet, "/api/v1/sessions/s1"); code != http.StatusOK {
			t.Fatalf("session read %d expected 200, got %d", i+1, code)
		}
	}
}

func TestRateLimitBucketsArePerPrincipal(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	user := "user-a"
	r := newSessionLimitRouter(NewRateLimiter(func() time.Time { return now }), &user)

	for i := 0; i < 2; i++ {
		serve(r, http.MethodPost, "/api/v1/sessions/s1/submit")
	}
	if code := serve(r, http.MethodPost, "/api/v1/sessions/s1/submit"); code != http.StatusTooManyRequests {
		t.Fatalf("user-a expected 429, got %d", code)
	}

	user = "user-b"
	if code := serve(r, http.MethodPost, "/api/v1/sessions/s2/submit"); code != http.StatusOK {
		t.Fatalf("user-b expected 200, got %d", code)
	}

	now = now.Add(time.Second)
	user = "user-a"
	if code := serve(r, http.MethodPost, "/api/v1/sessions/s1/submit"); code != http.StatusOK {
		t.Fatalf("user-a after refill expected 200, got %d", code)
	}
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "guest:test-guest")
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			return "DEFAULT"
		},
		Limiter: limiter,
		Rules: map[string]RateLimitRule{
			"DEFAULT": {Rate: 1, Burst: 1},
		},
	}))
	r.GET("/api/v1/limited", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req1 := httptest.NewRequest(http.MethodGet, "/api/v1/limited", nil)
	resp1 := httptest.NewRecorder()
	r.ServeHTTP(resp1, req1)
	if resp1.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/limited", nil)
	resp2 := httptest.NewRecorder()
	r.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp2.Code)
	}
	if resp2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	var payload map[string]any
	if err := json.NewDecoder(resp2.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["error"] != "rate_limited" {
		t.Fatalf("expected error=rate_limited")
	}
	if _, ok := payload["retryAfterMs"]; !ok {
		t.Fatalf("expected retryAfterMs in response")
	}
}
