package utils

import (
	"github.com/gin-gonic/gin"
)

// Stable codes for failures that are not business errors
const (
	CodeUnauthorized   = "unauthorized"
	CodeInvalidRequest = "request.invalid"
	CodeInternal       = "internal.error"
)

// JSONResponse sends a structured JSON response
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// JSONError sends a structured error response. code is the stable,
// machine-readable reason; message is for humans.
func JSONError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   code,
	})
}
