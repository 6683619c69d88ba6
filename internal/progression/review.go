package progression

import (
	"math"
	"sort"
	"time"

	"github.com/eslsoft/parcours/internal/entity"
)

// Spaced-repetition defaults in the SM-2 family. Both are tunable through
// configuration so product tuning never requires touching the scheduler.
const (
	DefaultFirstIntervalDays = 1
	DefaultGrowthFactor      = 2.5
)

// Schedule advances review entries. Entries only move forward or reset; they
// are never dropped, so the full review history stays reconstructable.
type Schedule struct {
	firstIntervalDays int32
	growthFactor      float64
}

// NewSchedule builds a schedule, falling back to defaults for non-positive
// tuning values.
func NewSchedule(firstIntervalDays int32, growthFactor float64) Schedule {
	if firstIntervalDays <= 0 {
		firstIntervalDays = DefaultFirstIntervalDays
	}
	if growthFactor <= 1 {
		growthFactor = DefaultGrowthFactor
	}
	return Schedule{firstIntervalDays: firstIntervalDays, growthFactor: growthFactor}
}

// FirstEntry creates the schedule entry for a lesson's first completion.
func (s Schedule) FirstEntry(now time.Time) entity.ReviewEntry {
	return entity.ReviewEntry{
		NextDueAt:    now.AddDate(0, 0, int(s.firstIntervalDays)),
		IntervalDays: s.firstIntervalDays,
	}
}

// Advance applies a passed review: the interval grows by the configured
// factor, rounded to the nearest whole day.
func (s Schedule) Advance(entry entity.ReviewEntry, now time.Time) entity.ReviewEntry {
	next := int32(math.Round(float64(entry.IntervalDays) * s.growthFactor))
	if next <= entry.IntervalDays {
		next = entry.IntervalDays + 1
	}
	return entity.ReviewEntry{
		NextDueAt:         now.AddDate(0, 0, int(next)),
		IntervalDays:      next,
		ConsecutivePasses: entry.ConsecutivePasses + 1,
	}
}

// Reset applies a failed review: back to the first interval with no passes.
func (s Schedule) Reset(now time.Time) entity.ReviewEntry {
	return entity.ReviewEntry{
		NextDueAt:    now.AddDate(0, 0, int(s.firstIntervalDays)),
		IntervalDays: s.firstIntervalDays,
	}
}

// DueLessons returns the lessons whose review is due at now, most overdue
// first with ties broken by lesson id for deterministic output.
func DueLessons(reviews map[entity.LessonID]entity.ReviewEntry, now time.Time) []entity.LessonID {
	type dueLesson struct {
		id  entity.LessonID
		due time.Time
	}
	var due []dueLesson
	for id, entry := range reviews {
		if !entry.NextDueAt.After(now) {
			due = append(due, dueLesson{id: id, due: entry.NextDueAt})
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].due.Equal(due[j].due) {
			return due[i].due.Before(due[j].due)
		}
		return due[i].id < due[j].id
	})
	ids := make([]entity.LessonID, len(due))
	for i, d := range due {
		ids[i] = d.id
	}
	return ids
}
