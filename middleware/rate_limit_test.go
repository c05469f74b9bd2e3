package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterPerClient(t *testing.T) {
	l := NewRateLimiter(4) // burst 2
	if !l.Allow("a") || !l.Allow("a") {
		t.Fatalf("burst should be allowed")
	}
	if l.Allow("a") {
		t.Fatalf("third immediate request should be limited")
	}
	if !l.Allow("b") {
		t.Fatalf("other clients have their own bucket")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	r := gin.New()
	r.POST("/x", NewRateLimiter(2).Middleware(), func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}
}

func TestRateLimiterClampsNonPositiveRate(t *testing.T) {
	for _, perMinute := range []int{0, -5, 1} {
		l := NewRateLimiter(perMinute)
		if l.burst != 1 {
			t.Fatalf("perMinute=%d: expected burst 1, got %d", perMinute, l.burst)
		}
		if !l.Allow("c") || l.Allow("c") {
			t.Fatalf("perMinute=%d: expected exactly one immediate request", perMinute)
		}
	}
}
