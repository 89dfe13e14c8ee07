package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/formguard/internal/middleware"
)

const testRateLimit = 3

func limitedRouter(maxRequests int, done chan struct{}) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RateLimiter(maxRequests, time.Minute, done))
	r.POST("/submit", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func hit(r *gin.Engine, remoteAddr string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", http.NoBody)
	req.RemoteAddr = remoteAddr
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	done := make(chan struct{})
	defer close(done)
	r := limitedRouter(testRateLimit, done)

	if code := hit(r, "1.2.3.4:1234"); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	done := make(chan struct{})
	defer close(done)
	r := limitedRouter(testRateLimit, done)

	for i := 0; i < testRateLimit; i++ {
		if code := hit(r, "1.2.3.4:1234"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}

	if code := hit(r, "1.2.3.4:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
}

func TestRateLimiter_DifferentIPsIndependent(t *testing.T) {
	done := make(chan struct{})
	defer close(done)
	r := limitedRouter(1, done)

	if code := hit(r, "1.1.1.1:1234"); code != http.StatusOK {
		t.Fatalf("IP1: expected 200, got %d", code)
	}
	if code := hit(r, "2.2.2.2:1234"); code != http.StatusOK {
		t.Fatalf("IP2: expected 200, got %d", code)
	}
}
