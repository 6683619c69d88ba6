package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eslsoft/parcours/internal/entity"
)

func completeUpTo(t *testing.T, u *progressUsecase, lessons ...entity.LessonID) {
	t.Helper()
	for _, id := range lessons {
		if _, err := u.CompleteLesson(context.Background(), "u1", id, 100, false); err != nil {
			t.Fatalf("complete %s: %v", id, err)
		}
	}
}

func TestStartAssessmentRequiresUnlockedLesson(t *testing.T) {
	ctx := context.Background()
	u := newTestUsecase(t, newFakeProgressRepo(), time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	// l3 is locked until l1 and l2 are done.
	_, err := u.StartAssessment(ctx, "u1", "food-quiz")
	if !errors.Is(err, entity.ErrLessonLocked) {
		t.Fatalf("err = %v, want ErrLessonLocked", err)
	}
}

func TestStartAssessmentUnknownID(t *testing.T) {
	ctx := context.Background()
	u := newTestUsecase(t, newFakeProgressRepo(), time.Now())

	_, err := u.StartAssessment(ctx, "u1", "ghost-quiz")
	if !errors.Is(err, entity.ErrUnknownAssessment) {
		t.Fatalf("err = %v, want ErrUnknownAssessment", err)
	}
}

func TestAssessmentPassFlow(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProgressRepo()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	u := newTestUsecase(t, repo, now)
	completeUpTo(t, u, "l1", "l2")

	view, err := u.StartAssessment(ctx, "u1", "food-quiz")
	if err != nil {
		t.Fatalf("StartAssessment: %v", err)
	}
	if view.Status != entity.AssessmentInProgress {
		t.Errorf("Status = %s, want in_progress", view.Status)
	}
	if len(view.Questions) != 2 {
		t.Fatalf("Questions = %d, want 2", len(view.Questions))
	}
	for _, q := range view.Questions {
		if q.Prompt == "" {
			t.Error("question prompt missing from view")
		}
	}
	if !view.Deadline.Equal(now.Add(10 * time.Minute)) {
		t.Errorf("Deadline = %v, want now+10m", view.Deadline)
	}

	if err := u.RecordAnswers(ctx, "u1", "food-quiz", map[string]string{"q1": "bread"}); err != nil {
		t.Fatalf("RecordAnswers: %v", err)
	}

	result, err := u.SubmitAssessment(ctx, "u1", "food-quiz", map[string]string{"q2": "wrong"})
	if err != nil {
		t.Fatalf("SubmitAssessment: %v", err)
	}
	if result.Status != entity.AssessmentPassed {
		t.Errorf("Status = %s, want passed at 0.5", result.Status)
	}
	if result.Score != 0.5 {
		t.Errorf("Score = %f, want 0.5", result.Score)
	}

	snap, _ := repo.Load(ctx, "u1")
	if snap.Assessments["food-quiz"].Status != entity.AssessmentPassed {
		t.Error("pass not persisted")
	}
}

func TestAssessmentRetryCap(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProgressRepo()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	u := newTestUsecase(t, repo, now)
	completeUpTo(t, u, "l1", "l2")

	for i := 0; i < 3; i++ {
		if _, err := u.StartAssessment(ctx, "u1", "food-quiz"); err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
		result, err := u.SubmitAssessment(ctx, "u1", "food-quiz", map[string]string{"q1": "nope"})
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		want := entity.AssessmentFailed
		if i == 2 {
			want = entity.AssessmentLocked
		}
		if result.Status != want {
			t.Fatalf("attempt %d: Status = %s, want %s", i, result.Status, want)
		}
	}

	before, _ := repo.Load(ctx, "u1")
	if _, err := u.StartAssessment(ctx, "u1", "food-quiz"); !errors.Is(err, entity.ErrAttemptsExhausted) {
		t.Fatalf("fourth start = %v, want ErrAttemptsExhausted", err)
	}
	after, _ := repo.Load(ctx, "u1")
	if after.Version != before.Version {
		t.Error("rejected start still persisted a write")
	}
}

func TestAssessmentDeadlineAutoSubmit(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProgressRepo()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	u := newTestUsecase(t, repo, now)
	completeUpTo(t, u, "l1", "l2")

	if _, err := u.StartAssessment(ctx, "u1", "food-quiz"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := u.RecordAnswers(ctx, "u1", "food-quiz", map[string]string{"q1": "bread", "q2": "water"}); err != nil {
		t.Fatalf("record: %v", err)
	}

	// Deadline passes while the learner is away; recording now must surface
	// the lapse but persist the auto-submitted pass.
	u.clock = func() time.Time { return now.Add(time.Hour) }
	err := u.RecordAnswers(ctx, "u1", "food-quiz", map[string]string{"q2": "late edit"})
	if !errors.Is(err, entity.ErrAssessmentNotStarted) {
		t.Fatalf("late record = %v, want ErrAssessmentNotStarted", err)
	}

	snap, _ := repo.Load(ctx, "u1")
	attempt := snap.Assessments["food-quiz"]
	if attempt.Status != entity.AssessmentPassed {
		t.Errorf("Status = %s, want passed from recorded answers", attempt.Status)
	}
	if attempt.LastAnswers["q2"] == "late edit" {
		t.Error("post-deadline answer was recorded")
	}
}

func TestAssessmentResumeAfterAbandon(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProgressRepo()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	u := newTestUsecase(t, repo, now)
	completeUpTo(t, u, "l1", "l2")

	first, err := u.StartAssessment(ctx, "u1", "food-quiz")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	u.clock = func() time.Time { return now.Add(5 * time.Minute) }
	resumed, err := u.StartAssessment(ctx, "u1", "food-quiz")
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed.AttemptID != first.AttemptID {
		t.Error("resume issued a new attempt id")
	}
	if resumed.AttemptsUsed != 0 {
		t.Errorf("AttemptsUsed = %d, abandoning penalized the learner", resumed.AttemptsUsed)
	}
}

func TestSubmitAfterPassRejected(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProgressRepo()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	u := newTestUsecase(t, repo, now)
	completeUpTo(t, u, "l1", "l2")

	if _, err := u.StartAssessment(ctx, "u1", "food-quiz"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := u.SubmitAssessment(ctx, "u1", "food-quiz", map[string]string{"q1": "bread"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := u.SubmitAssessment(ctx, "u1", "food-quiz", map[string]string{"q1": "bread"}); !errors.Is(err, entity.ErrAlreadyPassed) {
		t.Errorf("re-submit = %v, want ErrAlreadyPassed", err)
	}
	if _, err := u.StartAssessment(ctx, "u1", "food-quiz"); !errors.Is(err, entity.ErrAlreadyPassed) {
		t.Errorf("re-start = %v, want ErrAlreadyPassed", err)
	}
}
