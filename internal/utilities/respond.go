package utilities

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"talenttrack-backend/internal/apperror"
)

// RespondError writes the JSON error body and the status code matching
// the error taxonomy. Unrecognized errors become 500s.
func RespondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	var (
		validation  *apperror.ValidationError
		notFound    *apperror.NotFoundError
		unavailable *apperror.JobUnavailableError
		terminal    *apperror.TerminalStateError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &unavailable):
		return http.StatusConflict
	case errors.As(err, &terminal):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
