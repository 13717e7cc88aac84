package middleware

import (
	"time" // Request latency measurement

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RequestLoggingMiddleware logs every request with its status and latency
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now() // Record start time
		c.Next()            // Process the request
		// Log the request after it has been handled
		logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,           // HTTP method
			"path":    c.Request.URL.Path,         // Request path
			"status":  c.Writer.Status(),          // Response status code
			"latency": time.Since(start).String(), // Handling duration
		}).Info("Request handled")
	}
}
