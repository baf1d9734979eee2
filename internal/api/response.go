package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
)

// Response is the envelope of every API reply.
type Response struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Data    any            `json:"data,omitempty"`
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

// fail writes err with the HTTP status matching its code. Uncoded errors
// are internal and their text is not exposed.
func fail(c *gin.Context, err error) {
	var ce *clierr.Error
	if !errors.As(err, &ce) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, Response{Error: "internal error", Code: clierr.InternalError})
		return
	}
	c.JSON(statusFor(ce.Code), Response{Error: ce.Message, Code: ce.Code, Details: ce.Details})
}

func statusFor(code string) int {
	switch code {
	case clierr.TaskNotFound:
		return http.StatusNotFound
	case clierr.NotLoggedIn, clierr.InvalidCredentials:
		return http.StatusUnauthorized
	case clierr.Forbidden:
		return http.StatusForbidden
	case clierr.EmailTaken, clierr.StatusConflict:
		return http.StatusConflict
	case clierr.InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
