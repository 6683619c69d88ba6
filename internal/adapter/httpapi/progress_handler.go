package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eslsoft/parcours/internal/entity"
	"github.com/eslsoft/parcours/internal/usecase"
)

// ProgressHandler exposes the progression engine to the UI over REST.
type ProgressHandler struct {
	progress usecase.ProgressUsecase
}

// NewProgressHandler builds the handler around the engine.
func NewProgressHandler(progress usecase.ProgressUsecase) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// Register mounts all routes under the given group.
func (h *ProgressHandler) Register(g *echo.Group) {
	g.POST("/users/:user/lessons/:lesson/complete", h.CompleteLesson)
	g.POST("/users/:user/lessons/:lesson/start", h.StartLesson)
	g.POST("/users/:user/lessons/:lesson/review-fail", h.FailReview)
	g.GET("/users/:user/lessons/unlocked", h.GetUnlockedLessons)
	g.GET("/users/:user/level", h.GetCurrentLevel)
	g.GET("/users/:user/streak", h.GetStreakStatus)
	g.GET("/users/:user/reviews/due", h.GetDueReviews)
	g.GET("/users/:user/achievements", h.GetAchievements)
	g.POST("/users/:user/assessments/:assessment/start", h.StartAssessment)
	g.POST("/users/:user/assessments/:assessment/answers", h.RecordAnswers)
	g.POST("/users/:user/assessments/:assessment/submit", h.SubmitAssessment)
}

type completeLessonRequest struct {
	XPEarned int64 `json:"xp_earned"`
	Review   bool  `json:"review"`
}

type completeLessonResponse struct {
	UnlockedLessons []entity.LessonID      `json:"unlocked_lessons"`
	Level           levelResponse          `json:"level"`
	LeveledUp       bool                   `json:"leveled_up"`
	NewAchievements []entity.AchievementID `json:"new_achievements,omitempty"`
}

type levelResponse struct {
	Level          int32 `json:"level"`
	XPIntoLevel    int64 `json:"xp_into_level"`
	XPForNextLevel int64 `json:"xp_for_next_level"`
}

// CompleteLesson records a lesson completion or review completion.
// POST /api/v1/users/:user/lessons/:lesson/complete
func (h *ProgressHandler) CompleteLesson(c echo.Context) error {
	var req completeLessonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	result, err := h.progress.CompleteLesson(c.Request().Context(), c.Param("user"), entity.LessonID(c.Param("lesson")), req.XPEarned, req.Review)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, completeLessonResponse{
		UnlockedLessons: result.UnlockedLessons,
		Level: levelResponse{
			Level:          result.Level.Level,
			XPIntoLevel:    result.Level.XPIntoLevel,
			XPForNextLevel: result.Level.XPForNextLevel,
		},
		LeveledUp:       result.LeveledUp,
		NewAchievements: result.NewAchievements,
	})
}

// StartLesson marks a lesson as opened.
// POST /api/v1/users/:user/lessons/:lesson/start
func (h *ProgressHandler) StartLesson(c echo.Context) error {
	if err := h.progress.StartLesson(c.Request().Context(), c.Param("user"), entity.LessonID(c.Param("lesson"))); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// FailReview records a failed review of a completed lesson.
// POST /api/v1/users/:user/lessons/:lesson/review-fail
func (h *ProgressHandler) FailReview(c echo.Context) error {
	if err := h.progress.FailReview(c.Request().Context(), c.Param("user"), entity.LessonID(c.Param("lesson"))); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUnlockedLessons returns the currently unlocked lesson ids.
// GET /api/v1/users/:user/lessons/unlocked
func (h *ProgressHandler) GetUnlockedLessons(c echo.Context) error {
	lessons, err := h.progress.GetUnlockedLessons(c.Request().Context(), c.Param("user"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string][]entity.LessonID{"unlocked_lessons": lessons})
}

// GetCurrentLevel returns the user's level and XP progress.
// GET /api/v1/users/:user/level
func (h *ProgressHandler) GetCurrentLevel(c echo.Context) error {
	level, err := h.progress.GetCurrentLevel(c.Request().Context(), c.Param("user"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, levelResponse{
		Level:          level.Level,
		XPIntoLevel:    level.XPIntoLevel,
		XPForNextLevel: level.XPForNextLevel,
	})
}

type streakResponse struct {
	Current        int32 `json:"current"`
	Longest        int32 `json:"longest"`
	DaysUntilReset int32 `json:"days_until_reset"`
}

// GetStreakStatus returns the user's daily streak.
// GET /api/v1/users/:user/streak
func (h *ProgressHandler) GetStreakStatus(c echo.Context) error {
	status, err := h.progress.GetStreakStatus(c.Request().Context(), c.Param("user"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, streakResponse{
		Current:        status.Current,
		Longest:        status.Longest,
		DaysUntilReset: status.DaysUntilReset,
	})
}

// GetDueReviews returns lessons due for review. The optional now query
// parameter (RFC 3339) lets the UI ask about a specific instant.
// GET /api/v1/users/:user/reviews/due
func (h *ProgressHandler) GetDueReviews(c echo.Context) error {
	var now time.Time
	if raw := c.QueryParam("now"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid now parameter, want RFC 3339"})
		}
		now = parsed
	}
	due, err := h.progress.GetDueReviews(c.Request().Context(), c.Param("user"), now)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string][]entity.LessonID{"due_reviews": due})
}

type achievementResponse struct {
	ID        entity.AchievementID `json:"id"`
	Title     string               `json:"title,omitempty"`
	Unlocked  bool                 `json:"unlocked"`
	Current   int64                `json:"current"`
	Threshold int64                `json:"threshold"`
	XPReward  int64                `json:"xp_reward"`
}

// GetAchievements returns every achievement with unlock state and progress.
// GET /api/v1/users/:user/achievements
func (h *ProgressHandler) GetAchievements(c echo.Context) error {
	statuses, err := h.progress.GetAchievements(c.Request().Context(), c.Param("user"))
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]achievementResponse, 0, len(statuses))
	for _, status := range statuses {
		resp = append(resp, achievementResponse{
			ID:        status.ID,
			Title:     status.Title,
			Unlocked:  status.Unlocked,
			Current:   status.Current,
			Threshold: status.Threshold,
			XPReward:  status.XPReward,
		})
	}
	return c.JSON(http.StatusOK, map[string][]achievementResponse{"achievements": resp})
}
