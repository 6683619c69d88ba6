package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eslsoft/parcours/internal/entity"
	"github.com/eslsoft/parcours/internal/usecase"
)

type attemptResponse struct {
	AttemptID    string             `json:"attempt_id,omitempty"`
	Status       string             `json:"status"`
	AttemptsUsed int32              `json:"attempts_used"`
	MaxRetries   int32              `json:"max_retries"`
	Deadline     *time.Time         `json:"deadline,omitempty"`
	Questions    []questionResponse `json:"questions,omitempty"`
}

type questionResponse struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt,omitempty"`
}

type answersRequest struct {
	Answers map[string]string `json:"answers"`
}

type submissionResponse struct {
	Status string  `json:"status"`
	Score  float64 `json:"score"`
}

// StartAssessment starts or resumes an assessment attempt.
// POST /api/v1/users/:user/assessments/:assessment/start
func (h *ProgressHandler) StartAssessment(c echo.Context) error {
	view, err := h.progress.StartAssessment(c.Request().Context(), c.Param("user"), entity.AssessmentID(c.Param("assessment")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toAttemptResponse(view))
}

// RecordAnswers stores partial answers for a later submit or auto-submit.
// POST /api/v1/users/:user/assessments/:assessment/answers
func (h *ProgressHandler) RecordAnswers(c echo.Context) error {
	var req answersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if err := h.progress.RecordAnswers(c.Request().Context(), c.Param("user"), entity.AssessmentID(c.Param("assessment")), req.Answers); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SubmitAssessment scores the attempt.
// POST /api/v1/users/:user/assessments/:assessment/submit
func (h *ProgressHandler) SubmitAssessment(c echo.Context) error {
	var req answersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	result, err := h.progress.SubmitAssessment(c.Request().Context(), c.Param("user"), entity.AssessmentID(c.Param("assessment")), req.Answers)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, submissionResponse{Status: result.Status.String(), Score: result.Score})
}

func toAttemptResponse(view *usecase.AttemptView) attemptResponse {
	resp := attemptResponse{
		AttemptID:    view.AttemptID,
		Status:       view.Status.String(),
		AttemptsUsed: view.AttemptsUsed,
		MaxRetries:   view.MaxRetries,
	}
	if !view.Deadline.IsZero() {
		deadline := view.Deadline
		resp.Deadline = &deadline
	}
	for _, question := range view.Questions {
		resp.Questions = append(resp.Questions, questionResponse{ID: question.ID, Prompt: question.Prompt})
	}
	return resp
}
