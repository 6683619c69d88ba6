package progression

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/parcours/internal/entity"
)

// SubmissionResult is the outcome of a scored submission.
type SubmissionResult struct {
	Status entity.AssessmentStatus
	Score  float64
}

// ResolveExpiry lazily applies a missed deadline: an in-progress attempt whose
// deadline has elapsed is auto-submitted with whatever answers were last
// recorded. There is no timer thread; this runs at the next state-touching
// call. The second return reports whether the attempt changed.
func ResolveExpiry(attempt entity.AssessmentAttempt, def *entity.AssessmentDefinition, now time.Time) (entity.AssessmentAttempt, bool) {
	if attempt.Status != entity.AssessmentInProgress {
		return attempt, false
	}
	if attempt.Deadline.IsZero() || now.Before(attempt.Deadline) {
		return attempt, false
	}
	resolved, _ := finishAttempt(attempt, def, attempt.LastAnswers)
	return resolved, true
}

// StartAttempt moves an assessment into InProgress. NotStarted and Failed
// (with retries remaining) may start; an unexpired InProgress attempt resumes
// without penalty; Passed and Locked reject without mutation.
func StartAttempt(attempt entity.AssessmentAttempt, def *entity.AssessmentDefinition, now time.Time) (entity.AssessmentAttempt, error) {
	attempt, _ = ResolveExpiry(attempt, def, now)

	switch attempt.Status {
	case entity.AssessmentPassed:
		return attempt, entity.ErrAlreadyPassed
	case entity.AssessmentLocked:
		return attempt, entity.ErrAttemptsExhausted
	case entity.AssessmentInProgress:
		// Abandoned but unexpired attempt, resume it.
		return attempt, nil
	}

	attempt.Status = entity.AssessmentInProgress
	attempt.AttemptID = uuid.NewString()
	attempt.Deadline = now.Add(def.TimeLimit)
	attempt.LastAnswers = nil
	return attempt, nil
}

// RecordAnswers merges partial answers into an in-progress attempt so a later
// deadline expiry can auto-submit them.
func RecordAnswers(attempt entity.AssessmentAttempt, def *entity.AssessmentDefinition, answers map[string]string, now time.Time) (entity.AssessmentAttempt, error) {
	attempt, _ = ResolveExpiry(attempt, def, now)
	if attempt.Status != entity.AssessmentInProgress {
		return attempt, entity.ErrAssessmentNotStarted
	}
	if attempt.LastAnswers == nil {
		attempt.LastAnswers = make(map[string]string, len(answers))
	}
	for id, answer := range answers {
		attempt.LastAnswers[id] = answer
	}
	return attempt, nil
}

// SubmitAttempt scores an in-progress attempt. A submission after the deadline
// is never rejected; it scores the answers recorded before expiry.
func SubmitAttempt(attempt entity.AssessmentAttempt, def *entity.AssessmentDefinition, answers map[string]string, now time.Time) (entity.AssessmentAttempt, SubmissionResult, error) {
	var expired bool
	attempt, expired = ResolveExpiry(attempt, def, now)
	if expired {
		return attempt, SubmissionResult{Status: attempt.Status, Score: Score(def, attempt.LastAnswers)}, nil
	}

	switch attempt.Status {
	case entity.AssessmentPassed:
		return attempt, SubmissionResult{Status: attempt.Status}, entity.ErrAlreadyPassed
	case entity.AssessmentLocked:
		return attempt, SubmissionResult{Status: attempt.Status}, entity.ErrAttemptsExhausted
	case entity.AssessmentInProgress:
	default:
		return attempt, SubmissionResult{Status: attempt.Status}, entity.ErrAssessmentNotStarted
	}

	if answers != nil {
		if attempt.LastAnswers == nil {
			attempt.LastAnswers = make(map[string]string, len(answers))
		}
		for id, answer := range answers {
			attempt.LastAnswers[id] = answer
		}
	}

	resolved, score := finishAttempt(attempt, def, attempt.LastAnswers)
	return resolved, SubmissionResult{Status: resolved.Status, Score: score}, nil
}

func finishAttempt(attempt entity.AssessmentAttempt, def *entity.AssessmentDefinition, answers map[string]string) (entity.AssessmentAttempt, float64) {
	score := Score(def, answers)
	attempt.Deadline = time.Time{}
	if score >= def.PassingScore {
		attempt.Status = entity.AssessmentPassed
		return attempt, score
	}
	attempt.AttemptsUsed++
	if attempt.AttemptsUsed >= def.MaxRetries {
		attempt.Status = entity.AssessmentLocked
	} else {
		attempt.Status = entity.AssessmentFailed
	}
	return attempt, score
}

// Score returns the fraction of questions answered exactly right, compared
// case- and whitespace-insensitively.
func Score(def *entity.AssessmentDefinition, answers map[string]string) float64 {
	if len(def.Questions) == 0 {
		return 0
	}
	var correct int
	for _, question := range def.Questions {
		given, ok := answers[question.ID]
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(question.Answer)) {
			correct++
		}
	}
	return float64(correct) / float64(len(def.Questions))
}
