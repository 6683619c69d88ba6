package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/parcours/internal/content"
	"github.com/eslsoft/parcours/internal/entity"
	"github.com/eslsoft/parcours/internal/progression"
	"github.com/eslsoft/parcours/internal/repository"
)

// Tuning carries the engine constants surfaced through configuration.
type Tuning struct {
	XPBase                  int64
	FirstReviewIntervalDays int32
	ReviewGrowthFactor      float64
	DefaultTimezone         string
	MaxSaveRetries          int
}

// CompletionResult is returned to the UI after a lesson completion.
type CompletionResult struct {
	UnlockedLessons []entity.LessonID
	Level           progression.LevelInfo
	LeveledUp       bool
	NewAchievements []entity.AchievementID
}

// AchievementStatus reports one achievement with unlock state and progress.
type AchievementStatus struct {
	ID        entity.AchievementID
	Title     string
	Unlocked  bool
	Current   int64
	Threshold int64
	XPReward  int64
}

// AttemptView is the UI-facing state of an assessment attempt. Question
// answers never leave the engine.
type AttemptView struct {
	AttemptID    string
	Status       entity.AssessmentStatus
	AttemptsUsed int32
	MaxRetries   int32
	Deadline     time.Time
	Questions    []QuestionView
}

// QuestionView is a question stripped of its expected answer.
type QuestionView struct {
	ID     string
	Prompt string
}

// ProgressUsecase is the progression engine: every state transition a
// learner's activity can cause goes through here. All computations are pure
// over an in-memory snapshot; the repository is the only I/O boundary.
type ProgressUsecase interface {
	// CompleteLesson records a lesson completion. With review=true it advances
	// the lesson's review schedule instead; xpEarned is ignored on that path,
	// since lesson XP is only awarded on the first completion.
	CompleteLesson(ctx context.Context, userID string, lessonID entity.LessonID, xpEarned int64, review bool) (*CompletionResult, error)
	FailReview(ctx context.Context, userID string, lessonID entity.LessonID) error
	StartLesson(ctx context.Context, userID string, lessonID entity.LessonID) error
	GetUnlockedLessons(ctx context.Context, userID string) ([]entity.LessonID, error)
	GetCurrentLevel(ctx context.Context, userID string) (progression.LevelInfo, error)
	GetStreakStatus(ctx context.Context, userID string) (progression.StreakStatus, error)
	GetDueReviews(ctx context.Context, userID string, now time.Time) ([]entity.LessonID, error)
	GetAchievements(ctx context.Context, userID string) ([]AchievementStatus, error)

	StartAssessment(ctx context.Context, userID string, assessmentID entity.AssessmentID) (*AttemptView, error)
	RecordAnswers(ctx context.Context, userID string, assessmentID entity.AssessmentID, answers map[string]string) error
	SubmitAssessment(ctx context.Context, userID string, assessmentID entity.AssessmentID, answers map[string]string) (*progression.SubmissionResult, error)
}

const defaultMaxSaveRetries = 3

// NewProgressUsecase wires the content graph and repository into the engine.
func NewProgressUsecase(graph *content.Graph, repo repository.ProgressRepository, tuning Tuning) ProgressUsecase {
	if tuning.MaxSaveRetries <= 0 {
		tuning.MaxSaveRetries = defaultMaxSaveRetries
	}
	curve := progression.NewCurve(tuning.XPBase)
	return &progressUsecase{
		graph:     graph,
		repo:      repo,
		curve:     curve,
		schedule:  progression.NewSchedule(tuning.FirstReviewIntervalDays, tuning.ReviewGrowthFactor),
		evaluator: progression.NewEvaluator(curve, graph.Achievements(), graph.Lessons()),
		tuning:    tuning,
		clock:     time.Now,
	}
}

type progressUsecase struct {
	graph     *content.Graph
	repo      repository.ProgressRepository
	curve     progression.Curve
	schedule  progression.Schedule
	evaluator *progression.Evaluator
	tuning    Tuning
	clock     func() time.Time
}

// mutate runs the load -> clone -> apply -> versioned-save loop. A stale-write
// rejection reloads the latest snapshot and replays fn against it; every other
// error aborts. Version conflicts are the only automatically retried failure.
func (u *progressUsecase) mutate(ctx context.Context, userID string, fn func(snap *entity.ProgressSnapshot) error) (*entity.ProgressSnapshot, error) {
	var lastErr error
	for attempt := 0; attempt < u.tuning.MaxSaveRetries; attempt++ {
		loaded, err := u.repo.Load(ctx, userID)
		if err != nil {
			return nil, err
		}
		loaded.Normalize()

		work := loaded.Clone()
		if err := fn(work); err != nil {
			return nil, err
		}

		work.Version = loaded.Version + 1
		if err := u.repo.Save(ctx, work, loaded.Version); err != nil {
			if entity.IsVersionConflict(err) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return work, nil
	}
	return nil, lastErr
}

func (u *progressUsecase) load(ctx context.Context, userID string) (*entity.ProgressSnapshot, error) {
	snap, err := u.repo.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	snap.Normalize()
	return snap, nil
}

func (u *progressUsecase) CompleteLesson(ctx context.Context, userID string, lessonID entity.LessonID, xpEarned int64, review bool) (*CompletionResult, error) {
	if xpEarned < 0 {
		return nil, entity.ErrNegativeXP
	}
	if _, err := u.graph.Lesson(lessonID); err != nil {
		return nil, err
	}

	result := &CompletionResult{}
	snap, err := u.mutate(ctx, userID, func(snap *entity.ProgressSnapshot) error {
		if !u.graph.IsUnlocked(lessonID, snap.CompletedLessons) {
			return entity.ErrLessonLocked
		}

		now := u.clock()
		levelBefore := u.curve.LevelAt(snap.XPTotal).Level
		result.NewAchievements = nil

		switch {
		case !snap.CompletedLessons[lessonID]:
			if review {
				// A review completion needs a prior first completion; the
				// caller must not infer one from the other.
				return entity.ErrLessonNotCompleted
			}
			snap.CompletedLessons[lessonID] = true
			snap.XPTotal += xpEarned
			u.recordActivity(snap, now)
			snap.Reviews[lessonID] = u.schedule.FirstEntry(now)
			result.NewAchievements = u.evaluator.Evaluate(snap)

		case review:
			entry, ok := snap.Reviews[lessonID]
			if !ok {
				entry = u.schedule.FirstEntry(now)
			}
			snap.Reviews[lessonID] = u.schedule.Advance(entry, now)
			u.recordActivity(snap, now)
			result.NewAchievements = u.evaluator.Evaluate(snap)

		default:
			// Duplicate first completion: idempotent, no XP re-award.
		}

		result.Level = u.curve.LevelAt(snap.XPTotal)
		result.LeveledUp = result.Level.Level > levelBefore
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.UnlockedLessons = sortedLessonIDs(u.graph.UnlockedLessons(snap.CompletedLessons))
	return result, nil
}

func (u *progressUsecase) FailReview(ctx context.Context, userID string, lessonID entity.LessonID) error {
	if _, err := u.graph.Lesson(lessonID); err != nil {
		return err
	}
	_, err := u.mutate(ctx, userID, func(snap *entity.ProgressSnapshot) error {
		if !snap.CompletedLessons[lessonID] {
			return entity.ErrLessonNotCompleted
		}
		now := u.clock()
		snap.Reviews[lessonID] = u.schedule.Reset(now)
		u.recordActivity(snap, now)
		u.evaluator.Evaluate(snap)
		return nil
	})
	return err
}

func (u *progressUsecase) StartLesson(ctx context.Context, userID string, lessonID entity.LessonID) error {
	if _, err := u.graph.Lesson(lessonID); err != nil {
		return err
	}
	_, err := u.mutate(ctx, userID, func(snap *entity.ProgressSnapshot) error {
		if !u.graph.IsUnlocked(lessonID, snap.CompletedLessons) {
			return entity.ErrLessonLocked
		}
		snap.LastOpened[lessonID] = u.clock()
		return nil
	})
	return err
}

func (u *progressUsecase) GetUnlockedLessons(ctx context.Context, userID string) ([]entity.LessonID, error) {
	snap, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sortedLessonIDs(u.graph.UnlockedLessons(snap.CompletedLessons)), nil
}

func (u *progressUsecase) GetCurrentLevel(ctx context.Context, userID string) (progression.LevelInfo, error) {
	snap, err := u.load(ctx, userID)
	if err != nil {
		return progression.LevelInfo{}, err
	}
	return u.curve.LevelAt(snap.XPTotal), nil
}

func (u *progressUsecase) GetStreakStatus(ctx context.Context, userID string) (progression.StreakStatus, error) {
	snap, err := u.load(ctx, userID)
	if err != nil {
		return progression.StreakStatus{}, err
	}
	return progression.Status(snap.Streak, u.clock()), nil
}

func (u *progressUsecase) GetDueReviews(ctx context.Context, userID string, now time.Time) ([]entity.LessonID, error) {
	snap, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if now.IsZero() {
		now = u.clock()
	}
	return progression.DueLessons(snap.Reviews, now), nil
}

func (u *progressUsecase) GetAchievements(ctx context.Context, userID string) ([]AchievementStatus, error) {
	snap, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	statuses := make([]AchievementStatus, 0, len(u.evaluator.Definitions()))
	for _, def := range u.evaluator.Definitions() {
		current, threshold := u.evaluator.Progress(snap, def)
		statuses = append(statuses, AchievementStatus{
			ID:        def.ID,
			Title:     def.Title,
			Unlocked:  snap.Achievements[def.ID],
			Current:   current,
			Threshold: threshold,
			XPReward:  def.XPReward,
		})
	}
	return statuses, nil
}

// recordActivity updates the streak, defaulting the timezone on first use.
func (u *progressUsecase) recordActivity(snap *entity.ProgressSnapshot, now time.Time) {
	if snap.Streak.Timezone == "" {
		snap.Streak.Timezone = u.tuning.DefaultTimezone
	}
	snap.Streak = progression.RecordActivity(snap.Streak, now)
}

func sortedLessonIDs(set map[entity.LessonID]bool) []entity.LessonID {
	ids := lo.Keys(set)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
