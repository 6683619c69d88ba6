package content

import (
	"fmt"

	"github.com/eslsoft/parcours/internal/entity"
)

// validateGraph performs the structural checks the JSON schema cannot express:
// duplicate ids, dangling prerequisite references, prerequisite cycles at
// both the lesson and module level, and assessment timing sanity.
func validateGraph(g *Graph) error {
	lessonIDs := make(map[entity.LessonID]bool, len(g.lessons))
	moduleIDs := make(map[entity.ModuleID]bool, len(g.modules))
	assessmentIDs := make(map[entity.AssessmentID]bool)

	for _, module := range g.modules {
		if moduleIDs[module.ID] {
			return &entity.ConfigError{Reason: fmt.Sprintf("duplicate module id %q", module.ID)}
		}
		moduleIDs[module.ID] = true
	}
	for _, lesson := range g.lessons {
		if lessonIDs[lesson.ID] {
			return &entity.ConfigError{Reason: fmt.Sprintf("duplicate lesson id %q", lesson.ID)}
		}
		lessonIDs[lesson.ID] = true
		if lesson.Assessment != nil {
			if assessmentIDs[lesson.Assessment.ID] {
				return &entity.ConfigError{Reason: fmt.Sprintf("duplicate assessment id %q", lesson.Assessment.ID)}
			}
			assessmentIDs[lesson.Assessment.ID] = true
			if lesson.Assessment.TimeLimit <= 0 {
				return &entity.ConfigError{Reason: fmt.Sprintf("assessment %q has no time limit", lesson.Assessment.ID)}
			}
		}
	}
	for _, achievement := range g.achievements {
		if achievement.Metric == entity.MetricUnspecified {
			return &entity.ConfigError{Reason: fmt.Sprintf("achievement %q has an unknown metric", achievement.ID)}
		}
	}

	var dangling []string
	for _, module := range g.modules {
		for _, prereq := range module.Prerequisites {
			if !moduleIDs[prereq] {
				dangling = append(dangling, fmt.Sprintf("%s -> %s", module.ID, prereq))
			}
		}
	}
	for _, lesson := range g.lessons {
		for _, prereq := range lesson.Prerequisites {
			if !lessonIDs[prereq] {
				dangling = append(dangling, fmt.Sprintf("%s -> %s", lesson.ID, prereq))
			}
		}
	}
	if len(dangling) > 0 {
		return &entity.ConfigError{Reason: "prerequisite references nonexistent id", Dangling: dangling}
	}

	lessonEdges := make(map[string][]string, len(g.lessons))
	for _, lesson := range g.lessons {
		for _, prereq := range lesson.Prerequisites {
			lessonEdges[string(lesson.ID)] = append(lessonEdges[string(lesson.ID)], string(prereq))
		}
	}
	if cycle := findCycle(lessonEdges); cycle != nil {
		return &entity.ConfigError{Reason: "lesson prerequisites form a cycle", Cycle: cycle}
	}

	moduleEdges := make(map[string][]string, len(g.modules))
	for _, module := range g.modules {
		for _, prereq := range module.Prerequisites {
			moduleEdges[string(module.ID)] = append(moduleEdges[string(module.ID)], string(prereq))
		}
	}
	if cycle := findCycle(moduleEdges); cycle != nil {
		return &entity.ConfigError{Reason: "module prerequisites form a cycle", Cycle: cycle}
	}

	return nil
}

// findCycle runs a depth-first search with an explicit recursion stack and
// returns the first cycle found as the path of ids along it, or nil.
func findCycle(edges map[string][]string) []string {
	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[string]int, len(edges))
	var stack []string

	var visit func(id string) []string
	visit = func(id string) []string {
		state[id] = inStack
		stack = append(stack, id)
		for _, next := range edges[id] {
			switch state[next] {
			case inStack:
				// Slice the stack from the first occurrence of next to close the loop.
				for i, node := range stack {
					if node == next {
						cycle := append([]string{}, stack[i:]...)
						return append(cycle, next)
					}
				}
			case unvisited:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		return nil
	}

	for id := range edges {
		if state[id] == unvisited {
			if cycle := visit(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
