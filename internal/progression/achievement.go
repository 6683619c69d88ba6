package progression

import (
	"github.com/eslsoft/parcours/internal/entity"
)

// Evaluator unlocks achievements against a progress snapshot. Unlocks are
// terminal and award XP through the same accumulation path as lessons, which
// can in turn satisfy XP-based achievements; evaluation therefore runs to a
// fixed point bounded by the number of definitions.
type Evaluator struct {
	curve   Curve
	defs    []entity.AchievementDefinition
	lessons map[entity.LessonID]*entity.LessonDefinition
}

// NewEvaluator builds an evaluator over the catalog's achievement definitions.
func NewEvaluator(curve Curve, defs []entity.AchievementDefinition, lessons []entity.LessonDefinition) *Evaluator {
	byID := make(map[entity.LessonID]*entity.LessonDefinition, len(lessons))
	for i := range lessons {
		byID[lessons[i].ID] = &lessons[i]
	}
	return &Evaluator{curve: curve, defs: defs, lessons: byID}
}

// Evaluate unlocks every achievement whose requirement the snapshot now meets,
// mutating the snapshot's achievement set and XP total in place. It returns
// the newly unlocked ids in definition order.
func (e *Evaluator) Evaluate(snap *entity.ProgressSnapshot) []entity.AchievementID {
	var unlocked []entity.AchievementID
	// One extra pass per definition is the worst case: each pass unlocks at
	// least one achievement or terminates.
	for pass := 0; pass <= len(e.defs); pass++ {
		progressed := false
		for _, def := range e.defs {
			if snap.Achievements[def.ID] {
				continue
			}
			if e.metricValue(snap, def.Metric) >= def.Threshold {
				snap.Achievements[def.ID] = true
				snap.XPTotal += def.XPReward
				unlocked = append(unlocked, def.ID)
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return unlocked
}

// Progress reports how far the snapshot is toward a single requirement.
func (e *Evaluator) Progress(snap *entity.ProgressSnapshot, def entity.AchievementDefinition) (current, threshold int64) {
	return e.metricValue(snap, def.Metric), def.Threshold
}

// Definitions returns the evaluator's achievement definitions.
func (e *Evaluator) Definitions() []entity.AchievementDefinition {
	return e.defs
}

func (e *Evaluator) metricValue(snap *entity.ProgressSnapshot, metric entity.MetricKind) int64 {
	switch metric {
	case entity.MetricLessonsCompleted:
		return int64(len(snap.CompletedLessons))
	case entity.MetricStreak:
		return int64(snap.Streak.Current)
	case entity.MetricXP:
		return snap.XPTotal
	case entity.MetricSkillLevel:
		return e.bestSkillLevel(snap)
	default:
		return 0
	}
}

// bestSkillLevel derives per-skill levels from the XP of skill-tagged
// completed lessons and returns the highest one.
func (e *Evaluator) bestSkillLevel(snap *entity.ProgressSnapshot) int64 {
	xpBySkill := make(map[entity.SkillTag]int64)
	for id := range snap.CompletedLessons {
		lesson, ok := e.lessons[id]
		if !ok {
			continue
		}
		for _, skill := range lesson.Skills {
			xpBySkill[skill] += lesson.XPReward
		}
	}
	var best int64
	for _, xp := range xpBySkill {
		if level := int64(e.curve.LevelAt(xp).Level); level > best {
			best = level
		}
	}
	return best
}
