package entity

import (
	"testing"
	"time"
)

func TestSnapshotCloneIsolation(t *testing.T) {
	original := NewProgressSnapshot("u1")
	original.CompletedLessons["l1"] = true
	original.XPTotal = 100
	original.Achievements["a1"] = true
	original.Reviews["l1"] = ReviewEntry{IntervalDays: 3}
	original.Assessments["q1"] = AssessmentAttempt{
		Status:      AssessmentInProgress,
		LastAnswers: map[string]string{"q1": "bread"},
	}
	original.LastOpened["l1"] = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	clone := original.Clone()
	clone.CompletedLessons["l2"] = true
	clone.XPTotal = 999
	clone.Achievements["a2"] = true
	clone.Reviews["l2"] = ReviewEntry{IntervalDays: 1}
	clone.Assessments["q1"].LastAnswers["q1"] = "voided"
	clone.LastOpened["l2"] = time.Now()

	if len(original.CompletedLessons) != 1 {
		t.Error("clone mutation leaked into CompletedLessons")
	}
	if original.XPTotal != 100 {
		t.Error("clone mutation leaked into XPTotal")
	}
	if len(original.Achievements) != 1 {
		t.Error("clone mutation leaked into Achievements")
	}
	if len(original.Reviews) != 1 {
		t.Error("clone mutation leaked into Reviews")
	}
	if original.Assessments["q1"].LastAnswers["q1"] != "bread" {
		t.Error("clone mutation leaked into recorded answers")
	}
	if len(original.LastOpened) != 1 {
		t.Error("clone mutation leaked into LastOpened")
	}
}

func TestSnapshotCloneNil(t *testing.T) {
	var snap *ProgressSnapshot
	if snap.Clone() != nil {
		t.Error("cloning nil should return nil")
	}
}

func TestNormalizeFillsMaps(t *testing.T) {
	snap := &ProgressSnapshot{UserID: "u1"}
	snap.Normalize()
	if snap.CompletedLessons == nil || snap.Achievements == nil ||
		snap.Reviews == nil || snap.Assessments == nil || snap.LastOpened == nil {
		t.Error("Normalize left a nil map")
	}
}
