package middleware

import (
	"time"

	"agence-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger emits one structured access line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		config.GetLogger().WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"ip":      c.ClientIP(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}
