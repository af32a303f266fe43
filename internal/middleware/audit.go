package middleware

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/falmutairi/projecthub/backend/internal/services"
	"github.com/gin-gonic/gin"
)

var passwordField = regexp.MustCompile(`"password"\s*:\s*"[^"]*"`)

// AuditLog records write operations (POST/PUT/PATCH/DELETE) to system_logs.
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != "POST" && method != "PUT" && method != "PATCH" && method != "DELETE" {
			c.Next()
			return
		}

		// Capture request body (up to 2000 chars for Extra)
		var bodySnippet string
		if c.Request.Body != nil && strings.Contains(c.ContentType(), "json") {
			bodyBytes, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			bodySnippet = string(bodyBytes)
			if len(bodySnippet) > 2000 {
				bodySnippet = bodySnippet[:2000] + "...[truncated]"
			}
			bodySnippet = passwordField.ReplaceAllString(bodySnippet, `"password":"***"`)
		}

		c.Next()

		userID := GetUserID(c)
		status := c.Writer.Status()

		var uid *uint
		if userID > 0 {
			uid = &userID
		}

		module := routeModule(c.FullPath())
		message := fmt.Sprintf("%s %s -> %d", method, c.Request.URL.Path, status)

		services.LogInfo(module, method, message, uid, c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
			"status": status,
			"body":   bodySnippet,
			"audit":  true,
		})
	}
}

// routeModule extracts the first meaningful path segment after /api.
func routeModule(fullPath string) string {
	path := strings.TrimPrefix(fullPath, "/api/")
	if idx := strings.IndexByte(path, '/'); idx > 0 {
		path = path[:idx]
	}
	if path == "" {
		return "unknown"
	}
	return path
}
