package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for progression operations. Validation-class failures carry
// no payload and are matched with errors.Is by adapters.
var (
	ErrLessonLocked         = errors.New("lesson is locked")
	ErrUnknownLesson        = errors.New("unknown lesson")
	ErrUnknownAssessment    = errors.New("unknown assessment")
	ErrNegativeXP           = errors.New("xp earned must not be negative")
	ErrLessonNotCompleted   = errors.New("lesson has not been completed")
	ErrAttemptsExhausted    = errors.New("assessment attempts exhausted")
	ErrAlreadyPassed        = errors.New("assessment already passed")
	ErrAssessmentNotStarted = errors.New("assessment has not been started")
)

// ConfigError reports malformed content at catalog load time. It is fatal and
// surfaced to whoever maintains the content, never to a learner.
type ConfigError struct {
	Reason   string
	Cycle    []string
	Dangling []string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("content config error: ")
	b.WriteString(e.Reason)
	if len(e.Cycle) > 0 {
		fmt.Fprintf(&b, " (cycle: %s)", strings.Join(e.Cycle, " -> "))
	}
	if len(e.Dangling) > 0 {
		fmt.Fprintf(&b, " (dangling: %s)", strings.Join(e.Dangling, ", "))
	}
	return b.String()
}

// VersionConflictError is returned by the store when a write carried a stale
// version. Callers reload the latest snapshot and replay the mutation; it is
// the only error retried automatically.
type VersionConflictError struct {
	UserID   string
	Expected int64
	Actual   int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict for user %s: expected %d, store has %d", e.UserID, e.Expected, e.Actual)
}

// IsVersionConflict reports whether err is a stale-write rejection.
func IsVersionConflict(err error) bool {
	var conflict *VersionConflictError
	return errors.As(err, &conflict)
}
