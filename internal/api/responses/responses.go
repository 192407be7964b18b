// internal/api/responses/responses.go
package responses

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var logger = zap.NewNop()

// InitLogger builds the process-wide zap logger. Call it once, first
// thing in main; before that every log call is a no-op.
func InitLogger() {
	var (
		l   *zap.Logger
		err error
	)
	if os.Getenv("GIN_MODE") == gin.ReleaseMode {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return
	}
	logger = l
	zap.ReplaceGlobals(l)
}

// Logger exposes the shared logger to handlers and services.
func Logger() *zap.Logger {
	return logger
}

// Error logs the failure and aborts the request with a JSON error body.
// Optional details are surfaced to the client; keep them free of
// internals the end user should not see.
func Error(c *gin.Context, status int, message string, details ...string) {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
	}
	if len(details) > 0 {
		fields = append(fields, zap.Strings("details", details))
	}
	logger.Warn(message, fields...)

	body := gin.H{"error": message}
	if len(details) > 0 {
		body["details"] = details
	}
	c.AbortWithStatusJSON(status, body)
}

// OK writes a 200 JSON response.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
