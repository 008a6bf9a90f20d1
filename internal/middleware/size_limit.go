package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ats-backend/internal/utilities"
)

// room for multipart boundaries and part headers
const multipartOverhead = int64(8 * 1024)

// SizeLimit caps the request body at maxBodyBytes plus multipart framing.
// Reading past the cap fails with *http.MaxBytesError, which handlers report as 413.
func SizeLimit(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBodyBytes+multipartOverhead {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
				Error: "Entity too large",
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes+multipartOverhead)
		c.Next()
	}
}
