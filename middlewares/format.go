package middlewares

import (
	"net/http"

	"github.com/diyorbekkd/thDent/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// HttpError logs an error and writes an HTTP error response to the client.
func HttpError(c *gin.Context, message string, status int, err error) {
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Int("status", status).Str("path", c.FullPath()).Msg(message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// StatusFor maps the error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsInvalidArgument(err):
		return http.StatusBadRequest
	case apperrors.IsConflict(err):
		return http.StatusConflict
	case apperrors.IsStorageUnavailable(err):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// RespondError writes err with the status its taxonomy implies. Client
// errors echo the message; server errors stay opaque.
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	message := err.Error()
	switch status {
	case http.StatusServiceUnavailable:
		message = "storage unavailable, try again"
	case http.StatusInternalServerError:
		message = "internal server error"
	}
	HttpError(c, message, status, err)
}
