package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cppla/yatube/models"
)

func TestAccessLogTagsRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID())
	r.Use(func(ctx *gin.Context) {
		ctx.Set(ContextUserKey, &models.User{ID: 3, Username: "carol"})
	})
	r.Use(AccessLog(zap.New(core), time.RFC3339, true))
	r.GET("/posts/1/", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/1/?x=1", nil))

	id := w.Header().Get(RequestIDHeader)
	if id == "" {
		t.Fatalf("missing request id header")
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusOK) || fields["query"] != "x=1" {
		t.Fatalf("unexpected fields %v", fields)
	}
	if fields["request_id"] != id || fields["user"] != "carol" {
		t.Fatalf("request context missing from %v", fields)
	}
}

func TestAccessLogSkipsHealth(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(AccessLog(zap.New(core), time.RFC3339, true))
	r.GET("/health", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	if logs.Len() != 0 {
		t.Fatalf("health checks should not be logged, got %d entries", logs.Len())
	}
}

func TestRequestIDReusesClientValue(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected client id to be echoed, got %q", got)
	}
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected the panic to be logged once, got %d", logs.Len())
	}
}
