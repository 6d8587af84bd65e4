package middleware

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zone-app/api-go/apperrors"
)

type errorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type errorEnvelope struct {
	Success   bool      `json:"success"`
	Error     errorBody `json:"error"`
	RequestID string    `json:"requestId"`
}

// ErrorHandler is the single point that shapes error responses. Controllers
// and other middleware push errors via c.Error; the last one wins. Unknown
// errors degrade to a generic 500 whose message is suppressed in release mode.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		appErr := apperrors.From(err)

		if appErr.Code == apperrors.CodeInternal {
			log.Printf("[%s] %s %s: %v", GetRequestID(c), c.Request.Method, c.Request.URL.Path, err)
			if gin.Mode() == gin.ReleaseMode {
				appErr.Message = "Internal server error"
				appErr.Details = nil
			}
		}

		c.JSON(appErr.Status, errorEnvelope{
			Success: false,
			Error: errorBody{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			},
			RequestID: GetRequestID(c),
		})
	}
}
