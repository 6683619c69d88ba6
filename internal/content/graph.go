package content

import (
	"github.com/samber/lo"

	"github.com/eslsoft/parcours/internal/entity"
)

// Graph is the immutable, id-keyed view of the content catalog. All lookups
// are total once construction succeeds; a graph that failed validation is
// never handed out.
type Graph struct {
	modules      []entity.ModuleDefinition
	lessons      []entity.LessonDefinition
	achievements []entity.AchievementDefinition

	moduleByID         map[entity.ModuleID]*entity.ModuleDefinition
	lessonByID         map[entity.LessonID]*entity.LessonDefinition
	assessmentByID     map[entity.AssessmentID]*entity.AssessmentDefinition
	assessmentByLesson map[entity.LessonID]*entity.AssessmentDefinition
}

// NewGraph flattens a parsed catalog into an adjacency-indexed graph,
// rejecting structurally invalid content with a ConfigError.
func NewGraph(catalog *Catalog) (*Graph, error) {
	g := &Graph{
		moduleByID:         make(map[entity.ModuleID]*entity.ModuleDefinition),
		lessonByID:         make(map[entity.LessonID]*entity.LessonDefinition),
		assessmentByID:     make(map[entity.AssessmentID]*entity.AssessmentDefinition),
		assessmentByLesson: make(map[entity.LessonID]*entity.AssessmentDefinition),
	}

	for _, module := range catalog.Modules {
		g.modules = append(g.modules, module.definition())
		for _, lesson := range module.Lessons {
			g.lessons = append(g.lessons, lesson.definition(entity.ModuleID(module.ID)))
		}
	}
	for _, achievement := range catalog.Achievements {
		metric, _ := entity.ParseMetricKind(achievement.Metric)
		g.achievements = append(g.achievements, entity.AchievementDefinition{
			ID:        entity.AchievementID(achievement.ID),
			Title:     achievement.Title,
			Metric:    metric,
			Threshold: achievement.Threshold,
			XPReward:  achievement.XPReward,
		})
	}

	if err := validateGraph(g); err != nil {
		return nil, err
	}

	for i := range g.modules {
		g.moduleByID[g.modules[i].ID] = &g.modules[i]
	}
	for i := range g.lessons {
		lesson := &g.lessons[i]
		g.lessonByID[lesson.ID] = lesson
		if lesson.Assessment != nil {
			g.assessmentByID[lesson.Assessment.ID] = lesson.Assessment
			g.assessmentByLesson[lesson.ID] = lesson.Assessment
		}
	}
	return g, nil
}

// Modules returns all module definitions in catalog order.
func (g *Graph) Modules() []entity.ModuleDefinition {
	return g.modules
}

// Lessons returns all lesson definitions in catalog order.
func (g *Graph) Lessons() []entity.LessonDefinition {
	return g.lessons
}

// Achievements returns all achievement definitions in catalog order.
func (g *Graph) Achievements() []entity.AchievementDefinition {
	return g.achievements
}

// Lesson returns a lesson definition by id.
func (g *Graph) Lesson(id entity.LessonID) (*entity.LessonDefinition, error) {
	lesson, ok := g.lessonByID[id]
	if !ok {
		return nil, entity.ErrUnknownLesson
	}
	return lesson, nil
}

// LessonPrerequisites returns the direct prerequisite lesson ids for a lesson.
func (g *Graph) LessonPrerequisites(id entity.LessonID) ([]entity.LessonID, error) {
	lesson, err := g.Lesson(id)
	if err != nil {
		return nil, err
	}
	return lesson.Prerequisites, nil
}

// Assessment returns the assessment attached to a lesson, or nil if none.
func (g *Graph) Assessment(lessonID entity.LessonID) *entity.AssessmentDefinition {
	return g.assessmentByLesson[lessonID]
}

// AssessmentByID returns an assessment definition by its own id.
func (g *Graph) AssessmentByID(id entity.AssessmentID) (*entity.AssessmentDefinition, error) {
	assessment, ok := g.assessmentByID[id]
	if !ok {
		return nil, entity.ErrUnknownAssessment
	}
	return assessment, nil
}

// moduleCompleted reports whether every lesson in the module is completed.
func (g *Graph) moduleCompleted(module *entity.ModuleDefinition, completed map[entity.LessonID]bool) bool {
	return lo.EveryBy(module.Lessons, func(id entity.LessonID) bool {
		return completed[id]
	})
}

// moduleUnlocked reports whether every prerequisite module is completed.
func (g *Graph) moduleUnlocked(module *entity.ModuleDefinition, completed map[entity.LessonID]bool) bool {
	return lo.EveryBy(module.Prerequisites, func(id entity.ModuleID) bool {
		prereq, ok := g.moduleByID[id]
		return ok && g.moduleCompleted(prereq, completed)
	})
}

// UnlockedLessons derives the set of currently unlocked lessons from the
// completed set. A lesson is unlocked iff its module is unlocked and every
// lesson prerequisite is completed; the set is recomputed on every call and
// never stored, so it cannot diverge from the completed set.
func (g *Graph) UnlockedLessons(completed map[entity.LessonID]bool) map[entity.LessonID]bool {
	unlockedModules := make(map[entity.ModuleID]bool, len(g.modules))
	for i := range g.modules {
		module := &g.modules[i]
		unlockedModules[module.ID] = g.moduleUnlocked(module, completed)
	}

	unlocked := make(map[entity.LessonID]bool)
	for i := range g.lessons {
		lesson := &g.lessons[i]
		if !unlockedModules[lesson.ModuleID] {
			continue
		}
		satisfied := lo.EveryBy(lesson.Prerequisites, func(id entity.LessonID) bool {
			return completed[id]
		})
		if satisfied {
			unlocked[lesson.ID] = true
		}
	}
	return unlocked
}

// IsUnlocked reports whether a single lesson is currently unlocked.
func (g *Graph) IsUnlocked(id entity.LessonID, completed map[entity.LessonID]bool) bool {
	return g.UnlockedLessons(completed)[id]
}
