package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// verbose controls whether 500 responses echo the underlying failure
// detail. Enabled from config in development setups only.
var verbose bool

// SetVerbose switches between verbose and terse store-error responses
func SetVerbose(v bool) {
	verbose = v
}

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error   string `json:"error"`             // error code for client-side mapping
	Message string `json:"message"`           // human-readable message
	Details string `json:"details,omitempty"` // underlying failure, verbose mode only
}

// RespondWithError writes a standard error response
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Shortcut helpers for the common cases

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

// InternalError writes a 500 for a store or other internal failure.
// The underlying error is only echoed in verbose mode.
func InternalError(c *gin.Context, err error, context string) {
	info := ParseError(err, context)

	resp := ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	}
	if verbose && err != nil {
		resp.Details = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}
