package response

import (
	"github.com/gin-gonic/gin"
)

// Response standardizes the API JSON response
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response. fieldErrors is omitted from the body when empty.
func Error(c *gin.Context, code int, message string, fieldErrors map[string]string) {
	c.JSON(code, Response{
		Success: false,
		Message: message,
		Errors:  fieldErrors,
	})
}
