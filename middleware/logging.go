package middleware

import (
	"strings"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"
	// ContextRequestIDKey stores the request id inside the Gin context.
	ContextRequestIDKey = "request_id"
)

// RequestID assigns every request an id, reusing one supplied by the client.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := strings.TrimSpace(ctx.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set(ContextRequestIDKey, id)
		ctx.Header(RequestIDHeader, id)
		ctx.Next()
	}
}

// AccessLog writes one zap entry per request, tagged with the request id and,
// when known, the acting user.
func AccessLog(logger *zap.Logger, timeFormat string, utc bool) gin.HandlerFunc {
	return ginzap.GinzapWithConfig(logger, &ginzap.Config{
		TimeFormat: timeFormat,
		UTC:        utc,
		SkipPaths:  []string{"/health"},
		Context: func(ctx *gin.Context) []zapcore.Field {
			fields := []zapcore.Field{zap.String("request_id", ctx.GetString(ContextRequestIDKey))}
			if user := CurrentUser(ctx); user != nil {
				fields = append(fields, zap.String("user", user.Username))
			}
			return fields
		},
	})
}

// Recovery logs panics through zap and answers 500.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return ginzap.RecoveryWithZap(logger, true)
}
