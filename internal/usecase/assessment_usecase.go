package usecase

import (
	"context"

	"github.com/eslsoft/parcours/internal/entity"
	"github.com/eslsoft/parcours/internal/progression"
)

func (u *progressUsecase) StartAssessment(ctx context.Context, userID string, assessmentID entity.AssessmentID) (*AttemptView, error) {
	def, err := u.graph.AssessmentByID(assessmentID)
	if err != nil {
		return nil, err
	}

	var view *AttemptView
	_, err = u.mutate(ctx, userID, func(snap *entity.ProgressSnapshot) error {
		if !u.graph.IsUnlocked(def.LessonID, snap.CompletedLessons) && !snap.CompletedLessons[def.LessonID] {
			return entity.ErrLessonLocked
		}
		started, err := progression.StartAttempt(snap.Assessments[assessmentID], def, u.clock())
		if err != nil {
			return err
		}
		snap.Assessments[assessmentID] = started
		view = u.attemptView(started, def)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (u *progressUsecase) RecordAnswers(ctx context.Context, userID string, assessmentID entity.AssessmentID, answers map[string]string) error {
	def, err := u.graph.AssessmentByID(assessmentID)
	if err != nil {
		return err
	}
	var lapsed error
	_, err = u.mutate(ctx, userID, func(snap *entity.ProgressSnapshot) error {
		lapsed = nil
		now := u.clock()
		resolved, expired := progression.ResolveExpiry(snap.Assessments[assessmentID], def, now)
		if expired {
			// Persist the auto-submit even though this recording is too late.
			snap.Assessments[assessmentID] = resolved
			lapsed = entity.ErrAssessmentNotStarted
			return nil
		}
		recorded, err := progression.RecordAnswers(resolved, def, answers, now)
		if err != nil {
			return err
		}
		snap.Assessments[assessmentID] = recorded
		return nil
	})
	if err != nil {
		return err
	}
	return lapsed
}

func (u *progressUsecase) SubmitAssessment(ctx context.Context, userID string, assessmentID entity.AssessmentID, answers map[string]string) (*progression.SubmissionResult, error) {
	def, err := u.graph.AssessmentByID(assessmentID)
	if err != nil {
		return nil, err
	}

	var result progression.SubmissionResult
	_, err = u.mutate(ctx, userID, func(snap *entity.ProgressSnapshot) error {
		submitted, res, err := progression.SubmitAttempt(snap.Assessments[assessmentID], def, answers, u.clock())
		if err != nil {
			return err
		}
		snap.Assessments[assessmentID] = submitted
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (u *progressUsecase) attemptView(attempt entity.AssessmentAttempt, def *entity.AssessmentDefinition) *AttemptView {
	view := &AttemptView{
		AttemptID:    attempt.AttemptID,
		Status:       attempt.Status,
		AttemptsUsed: attempt.AttemptsUsed,
		MaxRetries:   def.MaxRetries,
		Deadline:     attempt.Deadline,
	}
	for _, question := range def.Questions {
		view.Questions = append(view.Questions, QuestionView{ID: question.ID, Prompt: question.Prompt})
	}
	return view
}
