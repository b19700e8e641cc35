package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

type RequestObserver interface {
	Observe(method, route string, status int, elapsed time.Duration)
}

// Metrics records each request under its route template.
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		observer.Observe(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
