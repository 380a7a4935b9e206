package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/logger"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

// Respond maps err onto the HTTP status of its kind. IO failures are logged
// with their cause and answered with an opaque message.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		be = BusinessError{Kind: KindIO, Code: "internal_error", Message: "Unexpected error.", Cause: err}
	}

	switch be.Kind {
	case KindValidation:
		BadRequest(c, be.Code, be.Message)
	case KindNotFound:
		NotFound(c, be.Code, be.Message)
	case KindConflict:
		Write(c, http.StatusConflict, be.Code, be.Message)
	default:
		logger.WithField("path", c.FullPath()).
			WithField("code", be.Code).
			WithError(be.Cause).
			Error("request failed")
		Internal(c, be.Code, be.Message)
	}
}
