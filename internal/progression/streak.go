package progression

import (
	"time"

	"github.com/eslsoft/parcours/internal/entity"
)

const dayKeyLayout = "2006-01-02"

// DayKeyFor returns the calendar date of t in the named timezone. An unknown
// or empty timezone falls back to UTC rather than failing a recording call.
func DayKeyFor(t time.Time, timezone string) entity.DayKey {
	loc, err := time.LoadLocation(timezone)
	if err != nil || timezone == "" {
		loc = time.UTC
	}
	return entity.DayKey(t.In(loc).Format(dayKeyLayout))
}

// daysBetween returns the calendar-day distance from a to b. Both keys are
// plain dates, so the comparison is immune to DST transitions.
func daysBetween(a, b entity.DayKey) int {
	ta, errA := time.ParseInLocation(dayKeyLayout, string(a), time.UTC)
	tb, errB := time.ParseInLocation(dayKeyLayout, string(b), time.UTC)
	if errA != nil || errB != nil {
		return 0
	}
	return int(tb.Sub(ta).Hours() / 24)
}

// RecordActivity applies one activity occurrence to the streak state.
// Same-day activity is a no-op, a next-day activity extends the streak, and
// any longer gap (or first-ever activity) restarts it at one.
func RecordActivity(state entity.StreakState, now time.Time) entity.StreakState {
	today := DayKeyFor(now, state.Timezone)
	switch {
	case state.LastActivityDay == today:
		return state
	case state.LastActivityDay != "" && daysBetween(state.LastActivityDay, today) == 1:
		state.Current++
	default:
		state.Current = 1
	}
	if state.Current > state.Longest {
		state.Longest = state.Current
	}
	state.LastActivityDay = today
	return state
}

// StreakStatus is the user-facing streak report.
type StreakStatus struct {
	Current        int32
	Longest        int32
	DaysUntilReset int32
}

// Status reports the streak alongside how many days remain before it lapses,
// clamped at zero once the grace day has passed.
func Status(state entity.StreakState, now time.Time) StreakStatus {
	status := StreakStatus{Current: state.Current, Longest: state.Longest}
	if state.LastActivityDay == "" {
		return status
	}
	today := DayKeyFor(now, state.Timezone)
	// A stored day ahead of today (clock skew, a timezone change moving the
	// user west) must not report more than the single grace day.
	remaining := 1 - daysBetween(state.LastActivityDay, today)
	if remaining < 0 {
		remaining = 0
	} else if remaining > 1 {
		remaining = 1
	}
	status.DaysUntilReset = int32(remaining)
	return status
}
