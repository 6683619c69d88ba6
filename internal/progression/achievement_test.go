package progression

import (
	"testing"

	"github.com/eslsoft/parcours/internal/entity"
)

var evalLessons = []entity.LessonDefinition{
	{ID: "l1", XPReward: 100, Skills: []entity.SkillTag{"grammar"}},
	{ID: "l2", XPReward: 100, Skills: []entity.SkillTag{"grammar"}},
	{ID: "l3", XPReward: 50, Skills: []entity.SkillTag{"listening"}},
}

func newSnapshot(completed ...entity.LessonID) *entity.ProgressSnapshot {
	snap := entity.NewProgressSnapshot("u1")
	for _, id := range completed {
		snap.CompletedLessons[id] = true
	}
	return snap
}

func TestEvaluateUnlocksAtThreshold(t *testing.T) {
	defs := []entity.AchievementDefinition{
		{ID: "first-lesson", Metric: entity.MetricLessonsCompleted, Threshold: 1, XPReward: 10},
		{ID: "five-lessons", Metric: entity.MetricLessonsCompleted, Threshold: 5, XPReward: 50},
	}
	e := NewEvaluator(NewCurve(100), defs, evalLessons)

	snap := newSnapshot("l1")
	unlocked := e.Evaluate(snap)
	if len(unlocked) != 1 || unlocked[0] != "first-lesson" {
		t.Fatalf("unlocked = %v, want [first-lesson]", unlocked)
	}
	if snap.XPTotal != 10 {
		t.Errorf("XPTotal = %d, want achievement reward 10", snap.XPTotal)
	}
	if !snap.Achievements["first-lesson"] {
		t.Error("first-lesson not marked unlocked in snapshot")
	}
}

func TestEvaluateUnlockIsTerminal(t *testing.T) {
	defs := []entity.AchievementDefinition{
		{ID: "first-lesson", Metric: entity.MetricLessonsCompleted, Threshold: 1, XPReward: 10},
	}
	e := NewEvaluator(NewCurve(100), defs, evalLessons)

	snap := newSnapshot("l1")
	e.Evaluate(snap)
	again := e.Evaluate(snap)
	if len(again) != 0 {
		t.Errorf("second evaluation unlocked %v, want nothing", again)
	}
	if snap.XPTotal != 10 {
		t.Errorf("XPTotal = %d, reward re-awarded", snap.XPTotal)
	}
}

func TestEvaluateXPCascade(t *testing.T) {
	// Unlocking the lesson achievement awards enough XP to cross the XP
	// achievement's threshold within the same evaluation.
	defs := []entity.AchievementDefinition{
		{ID: "xp-150", Metric: entity.MetricXP, Threshold: 150, XPReward: 5},
		{ID: "first-lesson", Metric: entity.MetricLessonsCompleted, Threshold: 1, XPReward: 60},
	}
	e := NewEvaluator(NewCurve(100), defs, evalLessons)

	snap := newSnapshot("l1")
	snap.XPTotal = 100
	unlocked := e.Evaluate(snap)
	if len(unlocked) != 2 {
		t.Fatalf("unlocked = %v, want both achievements", unlocked)
	}
	if snap.XPTotal != 165 {
		t.Errorf("XPTotal = %d, want 100+60+5", snap.XPTotal)
	}
}

func TestEvaluateStreakMetric(t *testing.T) {
	defs := []entity.AchievementDefinition{
		{ID: "week-streak", Metric: entity.MetricStreak, Threshold: 7, XPReward: 70},
	}
	e := NewEvaluator(NewCurve(100), defs, evalLessons)

	snap := newSnapshot()
	snap.Streak.Current = 6
	if unlocked := e.Evaluate(snap); len(unlocked) != 0 {
		t.Fatalf("unlocked at streak 6: %v", unlocked)
	}
	snap.Streak.Current = 7
	if unlocked := e.Evaluate(snap); len(unlocked) != 1 {
		t.Fatalf("not unlocked at streak 7")
	}
}

func TestEvaluateSkillLevelMetric(t *testing.T) {
	defs := []entity.AchievementDefinition{
		{ID: "grammar-2", Metric: entity.MetricSkillLevel, Threshold: 2, XPReward: 20},
	}
	e := NewEvaluator(NewCurve(100), defs, evalLessons)

	// One grammar lesson: 100 skill XP, level 1. Not enough.
	snap := newSnapshot("l1")
	if unlocked := e.Evaluate(snap); len(unlocked) != 0 {
		t.Fatalf("unlocked at skill level 1: %v", unlocked)
	}

	// Two grammar lessons: 200 skill XP is still level 1 on the curve.
	snap = newSnapshot("l1", "l2")
	if unlocked := e.Evaluate(snap); len(unlocked) != 0 {
		t.Fatalf("unlocked at 200 skill XP: %v", unlocked)
	}
}

func TestProgressReporting(t *testing.T) {
	def := entity.AchievementDefinition{ID: "five-lessons", Metric: entity.MetricLessonsCompleted, Threshold: 5}
	e := NewEvaluator(NewCurve(100), []entity.AchievementDefinition{def}, evalLessons)

	snap := newSnapshot("l1", "l2")
	current, threshold := e.Progress(snap, def)
	if current != 2 || threshold != 5 {
		t.Errorf("Progress = %d/%d, want 2/5", current, threshold)
	}
}
