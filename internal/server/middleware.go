package server

import (
	"auction-engine/utils"
	"time"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware keeps a well-formed incoming X-Request-ID or assigns a new one
func RequestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if !utils.IsID(id) {
		id = utils.GenerateID()
	}
	c.Set("request_id", id)
	c.Header(requestIDHeader, id)
	c.Next()
}

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     c.Writer.Status(),
		"latency":    time.Since(start).String(),
		"request_id": c.GetString("request_id"),
	})
}
