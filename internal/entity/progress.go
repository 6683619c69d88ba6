package entity

import "time"

// DayKey is a calendar date ("2006-01-02") in a user's timezone. Streaks
// compare day keys, never elapsed durations, so DST shifts cannot split a day.
type DayKey string

// StreakState tracks consecutive-day activity for one user.
type StreakState struct {
	Current         int32  `json:"current"`
	Longest         int32  `json:"longest"`
	LastActivityDay DayKey `json:"last_activity_day,omitempty"`
	Timezone        string `json:"timezone,omitempty"`
}

// ReviewEntry is the spaced-repetition schedule for one completed lesson.
// Entries are only ever advanced or reset, never removed.
type ReviewEntry struct {
	NextDueAt         time.Time `json:"next_due_at"`
	IntervalDays      int32     `json:"interval_days"`
	ConsecutivePasses int32     `json:"consecutive_passes"`
}

// AssessmentStatus enumerates the attempt lifecycle states.
type AssessmentStatus int32

const (
	AssessmentNotStarted AssessmentStatus = iota
	AssessmentInProgress
	AssessmentPassed
	AssessmentFailed
	AssessmentLocked
)

// String returns the wire spelling of the status.
func (s AssessmentStatus) String() string {
	switch s {
	case AssessmentNotStarted:
		return "not_started"
	case AssessmentInProgress:
		return "in_progress"
	case AssessmentPassed:
		return "passed"
	case AssessmentFailed:
		return "failed"
	case AssessmentLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// AssessmentAttempt is the per-user state of one assessment.
type AssessmentAttempt struct {
	Status       AssessmentStatus  `json:"status"`
	AttemptsUsed int32             `json:"attempts_used"`
	AttemptID    string            `json:"attempt_id,omitempty"`
	Deadline     time.Time         `json:"deadline,omitempty"`
	LastAnswers  map[string]string `json:"last_answers,omitempty"`
}

// ProgressSnapshot is the full durable progression state for one user.
// CompletedLessons, Achievements and Reviews are append-only; XPTotal never
// decreases; Version increases on every persisted write.
type ProgressSnapshot struct {
	UserID           string                             `json:"user_id"`
	CompletedLessons map[LessonID]bool                  `json:"completed_lessons"`
	XPTotal          int64                              `json:"xp_total"`
	Streak           StreakState                        `json:"streak"`
	Achievements     map[AchievementID]bool             `json:"achievements"`
	Reviews          map[LessonID]ReviewEntry           `json:"reviews"`
	Assessments      map[AssessmentID]AssessmentAttempt `json:"assessments"`
	LastOpened       map[LessonID]time.Time             `json:"last_opened,omitempty"`
	Version          int64                              `json:"version"`
}

// NewProgressSnapshot returns the empty state a user starts from.
func NewProgressSnapshot(userID string) *ProgressSnapshot {
	return &ProgressSnapshot{
		UserID:           userID,
		CompletedLessons: make(map[LessonID]bool),
		Achievements:     make(map[AchievementID]bool),
		Reviews:          make(map[LessonID]ReviewEntry),
		Assessments:      make(map[AssessmentID]AssessmentAttempt),
		LastOpened:       make(map[LessonID]time.Time),
	}
}

// Normalize ensures all maps are non-nil after unmarshalling a stored snapshot.
func (s *ProgressSnapshot) Normalize() {
	if s.CompletedLessons == nil {
		s.CompletedLessons = make(map[LessonID]bool)
	}
	if s.Achievements == nil {
		s.Achievements = make(map[AchievementID]bool)
	}
	if s.Reviews == nil {
		s.Reviews = make(map[LessonID]ReviewEntry)
	}
	if s.Assessments == nil {
		s.Assessments = make(map[AssessmentID]AssessmentAttempt)
	}
	if s.LastOpened == nil {
		s.LastOpened = make(map[LessonID]time.Time)
	}
}

// Clone returns a deep copy so mutations never leak into a caller's snapshot.
func (s *ProgressSnapshot) Clone() *ProgressSnapshot {
	if s == nil {
		return nil
	}
	copy := *s
	copy.CompletedLessons = make(map[LessonID]bool, len(s.CompletedLessons))
	for id := range s.CompletedLessons {
		copy.CompletedLessons[id] = true
	}
	copy.Achievements = make(map[AchievementID]bool, len(s.Achievements))
	for id := range s.Achievements {
		copy.Achievements[id] = true
	}
	copy.Reviews = make(map[LessonID]ReviewEntry, len(s.Reviews))
	for id, entry := range s.Reviews {
		copy.Reviews[id] = entry
	}
	copy.Assessments = make(map[AssessmentID]AssessmentAttempt, len(s.Assessments))
	for id, attempt := range s.Assessments {
		cloned := attempt
		if attempt.LastAnswers != nil {
			cloned.LastAnswers = make(map[string]string, len(attempt.LastAnswers))
			for q, a := range attempt.LastAnswers {
				cloned.LastAnswers[q] = a
			}
		}
		copy.Assessments[id] = cloned
	}
	copy.LastOpened = make(map[LessonID]time.Time, len(s.LastOpened))
	for id, at := range s.LastOpened {
		copy.LastOpened[id] = at
	}
	return &copy
}
