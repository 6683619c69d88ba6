package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eslsoft/parcours/internal/entity"
)

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps domain errors onto HTTP statuses. Version conflicts are
// retried inside the engine, so one escaping here means retries are exhausted.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, entity.ErrUnknownLesson), errors.Is(err, entity.ErrUnknownAssessment):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrLessonLocked),
		errors.Is(err, entity.ErrLessonNotCompleted),
		errors.Is(err, entity.ErrAssessmentNotStarted):
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrAlreadyPassed), errors.Is(err, entity.ErrAttemptsExhausted):
		return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrNegativeXP):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case entity.IsVersionConflict(err):
		return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}
