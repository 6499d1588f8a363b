package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorBody là format lỗi thống nhất: {"error": "...", "details": ...}
type ErrorBody struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// Success responses
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// Error responses
func Error(c *gin.Context, statusCode int, message string, details interface{}) {
	c.JSON(statusCode, ErrorBody{
		Error:   message,
		Details: details,
	})
}

// Abort dùng trong middleware: ghi lỗi và dừng chain
func Abort(c *gin.Context, statusCode int, message string, details interface{}) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{
		Error:   message,
		Details: details,
	})
}

// Common error responses
func BadRequest(c *gin.Context, message string, details interface{}) {
	Error(c, http.StatusBadRequest, message, details)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}

func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message, nil)
}

func ServiceUnavailable(c *gin.Context, message string, details interface{}) {
	Error(c, http.StatusServiceUnavailable, message, details)
}

// ValidationDetails chuyển lỗi binding thành map field → lý do
func ValidationDetails(err error) map[string]string {
	details := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		details["query"] = err.Error()
		return details
	}

	for _, fe := range verrs {
		details[strings.ToLower(fe.Field())] = describe(fe)
	}
	return details
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "required":
		return "is required"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
