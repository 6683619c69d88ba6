package progression

import (
	"testing"

	"github.com/eslsoft/parcours/internal/entity"
)

func TestScheduleIntervalGrowth(t *testing.T) {
	s := NewSchedule(1, 2.5)
	now := utc(2025, 3, 10, 9)

	entry := s.FirstEntry(now)
	if entry.IntervalDays != 1 {
		t.Fatalf("first interval = %d, want 1", entry.IntervalDays)
	}
	if !entry.NextDueAt.Equal(now.AddDate(0, 0, 1)) {
		t.Errorf("first NextDueAt = %v, want now+1d", entry.NextDueAt)
	}

	entry = s.Advance(entry, now)
	if entry.IntervalDays != 3 {
		t.Errorf("second interval = %d, want 3", entry.IntervalDays)
	}
	entry = s.Advance(entry, now)
	if entry.IntervalDays != 8 {
		t.Errorf("third interval = %d, want 8", entry.IntervalDays)
	}
	if entry.ConsecutivePasses != 2 {
		t.Errorf("ConsecutivePasses = %d, want 2", entry.ConsecutivePasses)
	}
}

func TestScheduleAdvanceAlwaysGrows(t *testing.T) {
	// A factor barely above 1 must still move the interval forward.
	s := NewSchedule(1, 1.1)
	entry := s.FirstEntry(utc(2025, 3, 10, 9))
	entry = s.Advance(entry, utc(2025, 3, 11, 9))
	if entry.IntervalDays != 2 {
		t.Errorf("interval = %d, want 2", entry.IntervalDays)
	}
}

func TestScheduleReset(t *testing.T) {
	s := NewSchedule(1, 2.5)
	now := utc(2025, 3, 10, 9)
	entry := s.FirstEntry(now)
	entry = s.Advance(entry, now)
	entry = s.Advance(entry, now)

	entry = s.Reset(now)
	if entry.IntervalDays != 1 || entry.ConsecutivePasses != 0 {
		t.Errorf("after reset got interval=%d passes=%d, want 1/0", entry.IntervalDays, entry.ConsecutivePasses)
	}
	if !entry.NextDueAt.Equal(now.AddDate(0, 0, 1)) {
		t.Errorf("NextDueAt = %v, want now+1d", entry.NextDueAt)
	}
}

func TestNewScheduleDefaults(t *testing.T) {
	s := NewSchedule(0, 0)
	entry := s.FirstEntry(utc(2025, 3, 10, 9))
	if entry.IntervalDays != DefaultFirstIntervalDays {
		t.Errorf("interval = %d, want default %d", entry.IntervalDays, DefaultFirstIntervalDays)
	}
	entry = s.Advance(entry, utc(2025, 3, 11, 9))
	if entry.IntervalDays != 3 {
		t.Errorf("interval = %d, want 3 under default growth", entry.IntervalDays)
	}
}

func TestDueLessonsOrdering(t *testing.T) {
	now := utc(2025, 3, 20, 9)
	reviews := map[entity.LessonID]entity.ReviewEntry{
		"l-recent":   {NextDueAt: utc(2025, 3, 19, 9)},
		"l-oldest":   {NextDueAt: utc(2025, 3, 15, 9)},
		"l-tie-b":    {NextDueAt: utc(2025, 3, 18, 9)},
		"l-tie-a":    {NextDueAt: utc(2025, 3, 18, 9)},
		"l-not-due":  {NextDueAt: utc(2025, 3, 21, 9)},
		"l-due-now":  {NextDueAt: now},
		"l-far-away": {NextDueAt: utc(2025, 4, 1, 9)},
	}

	got := DueLessons(reviews, now)
	want := []entity.LessonID{"l-oldest", "l-tie-a", "l-tie-b", "l-recent", "l-due-now"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDueLessonsEmpty(t *testing.T) {
	if got := DueLessons(nil, utc(2025, 3, 20, 9)); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}
