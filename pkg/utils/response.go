package utils

import (
	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Errors:  []string{message},
	})
}

// ErrorsResponse reports every failure message at once, e.g. the aggregated
// field errors from ValidateStruct.
func ErrorsResponse(c *gin.Context, status int, errors []string) {
	if len(errors) == 0 {
		errors = []string{"internal server error"}
	}
	c.JSON(status, Response{
		Success: false,
		Errors:  errors,
	})
}
