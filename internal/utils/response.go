package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/apperr"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/types"
	"github.com/rs/zerolog"
)

// ErrorStatus maps an application error onto its HTTP status, error code and
// client message. Unknown errors become a generic 500.
func ErrorStatus(err error) (int, string, string) {
	var (
		status  int
		code    string
		message string
	)

	switch {
	case errors.Is(err, apperr.ErrValidation):
		status, code, message = http.StatusBadRequest, types.ErrCodeInvalidRequest, "Invalid request"
	case errors.Is(err, apperr.ErrInvalidCredentials):
		status, code, message = http.StatusBadRequest, types.ErrCodeInvalidCredentials, "Invalid email or password"
	case errors.Is(err, apperr.ErrUnauthorized):
		status, code, message = http.StatusUnauthorized, types.ErrCodeUnauthorized, "Authorization token is required"
	case errors.Is(err, apperr.ErrInvalidToken):
		status, code, message = http.StatusForbidden, types.ErrCodeInvalidToken, "Invalid or expired token"
	case errors.Is(err, apperr.ErrForbidden):
		status, code, message = http.StatusForbidden, types.ErrCodeForbidden, "Access denied"
	case errors.Is(err, apperr.ErrNotFound):
		status, code, message = http.StatusNotFound, types.ErrCodeNotFound, "Not found"
	case errors.Is(err, apperr.ErrConflict):
		status, code, message = http.StatusConflict, types.ErrCodeConflict, "Already exists"
	default:
		return http.StatusInternalServerError, types.ErrCodeInternal, "Internal server error"
	}

	if m := apperr.Message(err); m != "" {
		message = m
	}

	return status, code, message
}

// RespondError aborts the request with the JSON error envelope. Internal errors
// are logged and never shown to the client.
func RespondError(ctx *gin.Context, log zerolog.Logger, err error) {
	status, code, message := ErrorStatus(err)

	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", ctx.Request.Method).
			Str("path", ctx.FullPath()).
			Msg("request failed")
	}

	ctx.AbortWithStatusJSON(status, types.ErrorResponse{Error: message, Code: code})
}

// RespondBadRequest answers with a 400 for input that failed binding.
func RespondBadRequest(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusBadRequest, types.ErrorResponse{
		Error: message,
		Code:  types.ErrCodeInvalidRequest,
	})
}
