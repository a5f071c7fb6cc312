package response

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Success writes the standard API envelope around data.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

// Error writes a failure envelope with a machine code and a single
// human-readable message.
func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// ValidationFailed writes a failure envelope carrying every field message
// joined into one string. The API exposes a single error string per response.
func ValidationFailed(c *gin.Context, statusCode int, messages []string) {
	Error(c, statusCode, "VALIDATION_ERROR", "Validation failed: "+strings.Join(messages, ", "))
}
