package content

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/eslsoft/parcours/internal/entity"
)

// Catalog mirrors the JSON content file maintained by content authors.
// Lessons are nested under their module in the file and flattened into
// id-keyed definitions when the graph is built.
type Catalog struct {
	Modules      []catalogModule      `json:"modules"`
	Achievements []catalogAchievement `json:"achievements"`
}

type catalogModule struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Prerequisites []string        `json:"prerequisites,omitempty"`
	Lessons       []catalogLesson `json:"lessons"`
}

type catalogLesson struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Prerequisites []string           `json:"prerequisites,omitempty"`
	XPReward      int64              `json:"xp_reward"`
	Skills        []string           `json:"skills,omitempty"`
	Assessment    *catalogAssessment `json:"assessment,omitempty"`
}

type catalogAssessment struct {
	ID            string            `json:"id"`
	PassingScore  float64           `json:"passing_score"`
	TimeLimitSecs int64             `json:"time_limit_secs"`
	MaxRetries    int32             `json:"max_retries"`
	Questions     []catalogQuestion `json:"questions"`
}

type catalogQuestion struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
}

type catalogAchievement struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Metric    string `json:"metric"`
	Threshold int64  `json:"threshold"`
	XPReward  int64  `json:"xp_reward"`
}

// ParseCatalog decodes and schema-validates raw catalog JSON. Structural
// validation (cycles, dangling references) happens in NewGraph.
func ParseCatalog(raw []byte) (*Catalog, error) {
	if err := validateSchema(raw); err != nil {
		return nil, err
	}
	var catalog Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}
	return &catalog, nil
}

func (m catalogModule) definition() entity.ModuleDefinition {
	def := entity.ModuleDefinition{
		ID:    entity.ModuleID(m.ID),
		Title: m.Title,
	}
	for _, id := range m.Prerequisites {
		def.Prerequisites = append(def.Prerequisites, entity.ModuleID(id))
	}
	for _, lesson := range m.Lessons {
		def.Lessons = append(def.Lessons, entity.LessonID(lesson.ID))
	}
	return def
}

func (l catalogLesson) definition(moduleID entity.ModuleID) entity.LessonDefinition {
	def := entity.LessonDefinition{
		ID:       entity.LessonID(l.ID),
		ModuleID: moduleID,
		Title:    l.Title,
		XPReward: l.XPReward,
	}
	for _, id := range l.Prerequisites {
		def.Prerequisites = append(def.Prerequisites, entity.LessonID(id))
	}
	for _, skill := range l.Skills {
		def.Skills = append(def.Skills, entity.SkillTag(skill))
	}
	if l.Assessment != nil {
		assessment := l.Assessment.definition(def.ID)
		def.Assessment = &assessment
	}
	return def
}

func (a catalogAssessment) definition(lessonID entity.LessonID) entity.AssessmentDefinition {
	def := entity.AssessmentDefinition{
		ID:           entity.AssessmentID(a.ID),
		LessonID:     lessonID,
		PassingScore: a.PassingScore,
		TimeLimit:    time.Duration(a.TimeLimitSecs) * time.Second,
		MaxRetries:   a.MaxRetries,
	}
	for _, q := range a.Questions {
		def.Questions = append(def.Questions, entity.Question{ID: q.ID, Prompt: q.Prompt, Answer: q.Answer})
	}
	return def
}
