package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/brainviz/connectome-core/pkg/logger"
)

// RequestLogger logs one structured line per HTTP request. Level follows the
// response status: 4xx warns, 5xx errors, everything else is info.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		requestID := ""
		if param.Keys != nil {
			if rid, exists := param.Keys["request_id"]; exists {
				if s, ok := rid.(string); ok {
					requestID = s
				}
			}
		}
		if requestID == "" {
			requestID = param.Request.Header.Get(RequestIDHeader)
		}

		fields := []interface{}{
			"method", param.Method,
			"path", param.Path,
			"status", param.StatusCode,
			"latency", param.Latency,
			"client_ip", param.ClientIP,
			"user_agent", param.Request.UserAgent(),
			"request_id", requestID,
			"content_length", param.Request.ContentLength,
		}
		if param.ErrorMessage != "" {
			fields = append(fields, "error", param.ErrorMessage)
		}

		switch {
		case param.StatusCode >= 500:
			log.Error("HTTP Request", fields...)
		case param.StatusCode >= 400:
			log.Warn("HTTP Request", fields...)
		default:
			log.Info("HTTP Request", fields...)
		}

		return ""
	})
}
