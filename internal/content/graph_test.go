package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslsoft/parcours/internal/entity"
)

// testCatalog is two modules: basics (greetings -> numbers, food needs both)
// and travel, gated on completing basics, with one independent lesson plus an
// assessed one.
func testCatalog() *Catalog {
	return &Catalog{
		Modules: []catalogModule{
			{
				ID:    "basics",
				Title: "French Basics",
				Lessons: []catalogLesson{
					{ID: "greetings", Title: "Greetings", XPReward: 100, Skills: []string{"speaking"}},
					{ID: "numbers", Title: "Numbers", Prerequisites: []string{"greetings"}, XPReward: 100},
					{ID: "food", Title: "Food", Prerequisites: []string{"greetings", "numbers"}, XPReward: 150},
				},
			},
			{
				ID:            "travel",
				Title:         "Travel",
				Prerequisites: []string{"basics"},
				Lessons: []catalogLesson{
					{ID: "directions", Title: "Directions", XPReward: 200},
					{
						ID: "hotel", Title: "At the Hotel", Prerequisites: []string{"directions"}, XPReward: 200,
						Assessment: &catalogAssessment{
							ID: "hotel-quiz", PassingScore: 0.6, TimeLimitSecs: 300, MaxRetries: 3,
							Questions: []catalogQuestion{{ID: "q1", Prompt: "une chambre?", Answer: "a room"}},
						},
					},
				},
			},
		},
		Achievements: []catalogAchievement{
			{ID: "debutant", Title: "Débutant", Metric: "lessons_completed", Threshold: 1, XPReward: 10},
		},
	}
}

func completedSet(ids ...entity.LessonID) map[entity.LessonID]bool {
	set := make(map[entity.LessonID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func TestUnlockedLessons(t *testing.T) {
	g, err := NewGraph(testCatalog())
	require.NoError(t, err)

	cases := []struct {
		name      string
		completed map[entity.LessonID]bool
		unlocked  []entity.LessonID
		locked    []entity.LessonID
	}{
		{
			name:      "fresh user",
			completed: completedSet(),
			unlocked:  []entity.LessonID{"greetings"},
			locked:    []entity.LessonID{"numbers", "food", "directions", "hotel"},
		},
		{
			name:      "greetings done",
			completed: completedSet("greetings"),
			unlocked:  []entity.LessonID{"greetings", "numbers"},
			locked:    []entity.LessonID{"food", "directions"},
		},
		{
			name:      "multi prerequisite",
			completed: completedSet("greetings", "numbers"),
			unlocked:  []entity.LessonID{"food"},
			locked:    []entity.LessonID{"directions"},
		},
		{
			name:      "module gate opens",
			completed: completedSet("greetings", "numbers", "food"),
			unlocked:  []entity.LessonID{"directions"},
			locked:    []entity.LessonID{"hotel"},
		},
		{
			name:      "second module progresses",
			completed: completedSet("greetings", "numbers", "food", "directions"),
			unlocked:  []entity.LessonID{"hotel"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			unlocked := g.UnlockedLessons(tc.completed)
			for _, id := range tc.unlocked {
				assert.True(t, unlocked[id], "%s should be unlocked", id)
			}
			for _, id := range tc.locked {
				assert.False(t, unlocked[id], "%s should be locked", id)
			}
		})
	}
}

func TestIsUnlockedMatchesSet(t *testing.T) {
	g, err := NewGraph(testCatalog())
	require.NoError(t, err)

	completed := completedSet("greetings")
	assert.True(t, g.IsUnlocked("numbers", completed))
	assert.False(t, g.IsUnlocked("food", completed))
}

func TestGraphLookups(t *testing.T) {
	g, err := NewGraph(testCatalog())
	require.NoError(t, err)

	lesson, err := g.Lesson("greetings")
	require.NoError(t, err)
	assert.Equal(t, entity.ModuleID("basics"), lesson.ModuleID)
	assert.Equal(t, int64(100), lesson.XPReward)

	_, err = g.Lesson("nope")
	assert.ErrorIs(t, err, entity.ErrUnknownLesson)

	assessment := g.Assessment("hotel")
	require.NotNil(t, assessment)
	assert.Equal(t, entity.AssessmentID("hotel-quiz"), assessment.ID)
	assert.Nil(t, g.Assessment("greetings"))

	byID, err := g.AssessmentByID("hotel-quiz")
	require.NoError(t, err)
	assert.Equal(t, entity.LessonID("hotel"), byID.LessonID)

	_, err = g.AssessmentByID("nope")
	assert.ErrorIs(t, err, entity.ErrUnknownAssessment)

	prereqs, err := g.LessonPrerequisites("food")
	require.NoError(t, err)
	assert.Equal(t, []entity.LessonID{"greetings", "numbers"}, prereqs)
}

func TestNewGraphRejectsLessonCycle(t *testing.T) {
	catalog := testCatalog()
	catalog.Modules[0].Lessons[0].Prerequisites = []string{"food"}

	_, err := NewGraph(catalog)
	var cfgErr *entity.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.NotEmpty(t, cfgErr.Cycle)
}

func TestNewGraphRejectsModuleCycle(t *testing.T) {
	catalog := testCatalog()
	catalog.Modules[0].Prerequisites = []string{"travel"}

	_, err := NewGraph(catalog)
	var cfgErr *entity.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.NotEmpty(t, cfgErr.Cycle)
}

func TestNewGraphRejectsDanglingPrerequisite(t *testing.T) {
	catalog := testCatalog()
	catalog.Modules[0].Lessons[1].Prerequisites = []string{"ghost"}

	_, err := NewGraph(catalog)
	var cfgErr *entity.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Dangling, "numbers -> ghost")
}

func TestNewGraphRejectsDuplicateLessonID(t *testing.T) {
	catalog := testCatalog()
	catalog.Modules[1].Lessons[0].ID = "greetings"

	_, err := NewGraph(catalog)
	var cfgErr *entity.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "duplicate lesson id")
}

func TestNewGraphRejectsZeroTimeLimit(t *testing.T) {
	catalog := testCatalog()
	catalog.Modules[1].Lessons[1].Assessment.TimeLimitSecs = 0

	_, err := NewGraph(catalog)
	var cfgErr *entity.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "no time limit")
}

func TestNewGraphRejectsDuplicateModuleID(t *testing.T) {
	catalog := testCatalog()
	catalog.Modules[1].ID = "basics"

	_, err := NewGraph(catalog)
	var cfgErr *entity.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "duplicate module id")
}
