package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError maps a service error onto the wire. apierr values carry
// their own status and code; anything else is a 500.
func RespondError(c *gin.Context, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	status := apierr.StatusOf(err)
	if status == http.StatusInternalServerError {
		// Internal detail stays out of the response body.
		msg = "internal server error"
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    apierr.CodeOf(err),
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
