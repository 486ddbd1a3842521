package respond

import (
	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/shared/apperr"
	"jobassist-backend/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if isGuest, ok := c.Get("isGuest"); ok {
		fields["is_guest"] = isGuest
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Fail maps a core error to its status, code and client-safe message.
func Fail(c *gin.Context, err error) {
	if apperr.KindOf(err) == apperr.KindInternal || apperr.KindOf(err) == apperr.KindRemoteStore {
		telemetry.Error("http.failure_cause", map[string]any{
			"path":       c.Request.URL.Path,
			"request_id": c.GetString("requestId"),
			"error":      err,
		})
	}
	Error(c, apperr.HTTPStatus(err), apperr.Code(err), apperr.Message(err), nil)
}
