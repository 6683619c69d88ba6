package entity

import "time"

// LessonID identifies a lesson in the content catalog.
type LessonID string

// ModuleID identifies a module in the content catalog.
type ModuleID string

// AchievementID identifies an achievement definition.
type AchievementID string

// AssessmentID identifies an assessment definition.
type AssessmentID string

// SkillTag labels a lesson with a skill it trains (e.g. "listening", "grammar").
type SkillTag string

// LessonDefinition is a static catalog entry. Immutable after content load.
type LessonDefinition struct {
	ID            LessonID
	ModuleID      ModuleID
	Title         string
	Prerequisites []LessonID
	XPReward      int64
	Skills        []SkillTag
	Assessment    *AssessmentDefinition
}

// ModuleDefinition groups an ordered list of lessons behind module-level prerequisites.
type ModuleDefinition struct {
	ID            ModuleID
	Title         string
	Lessons       []LessonID
	Prerequisites []ModuleID
}

// MetricKind enumerates the metrics an achievement requirement can target.
// The set is closed; content parsing rejects anything else at load time.
type MetricKind int32

const (
	MetricUnspecified MetricKind = iota
	MetricLessonsCompleted
	MetricStreak
	MetricXP
	MetricSkillLevel
)

// String returns the catalog spelling of the metric kind.
func (m MetricKind) String() string {
	switch m {
	case MetricLessonsCompleted:
		return "lessons_completed"
	case MetricStreak:
		return "streak"
	case MetricXP:
		return "xp"
	case MetricSkillLevel:
		return "skill_level"
	default:
		return "unspecified"
	}
}

// ParseMetricKind converts a catalog string into a MetricKind.
func ParseMetricKind(s string) (MetricKind, bool) {
	switch s {
	case "lessons_completed":
		return MetricLessonsCompleted, true
	case "streak":
		return MetricStreak, true
	case "xp":
		return MetricXP, true
	case "skill_level":
		return MetricSkillLevel, true
	default:
		return MetricUnspecified, false
	}
}

// AchievementDefinition is a declarative (metric, threshold) unlock rule.
type AchievementDefinition struct {
	ID        AchievementID
	Title     string
	Metric    MetricKind
	Threshold int64
	XPReward  int64
}

// Question is a single assessment question with its expected answer.
type Question struct {
	ID     string
	Prompt string
	Answer string
}

// AssessmentDefinition configures one assessment's questions and attempt policy.
type AssessmentDefinition struct {
	ID           AssessmentID
	LessonID     LessonID
	Questions    []Question
	PassingScore float64
	TimeLimit    time.Duration
	MaxRetries   int32
}
