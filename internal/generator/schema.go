package generator

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema declares the JSON structure a structured generation must produce.
type Schema struct {
	Name       string
	Definition map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	compErr  error
}

// Validate checks raw JSON against the schema. Any failure means the
// structured output cannot be trusted and the call must fail closed.
func (s *Schema) Validate(raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := s.compile()
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", s.Name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema %q violation: %w", s.Name, err)
	}
	return nil
}

func (s *Schema) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		defBytes, err := json.Marshal(s.Definition)
		if err != nil {
			s.compErr = fmt.Errorf("marshal definition: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			s.compErr = fmt.Errorf("parse definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		url := fmt.Sprintf("schema://%s.json", s.Name)
		if err := c.AddResource(url, def); err != nil {
			s.compErr = fmt.Errorf("add resource: %w", err)
			return
		}
		s.compiled, s.compErr = c.Compile(url)
	})
	return s.compiled, s.compErr
}

func stringProp() map[string]any {
	return map[string]any{"type": "string"}
}

// DetailedLessonPlanSchema constrains the per-lecture detail-expansion
// stage. Field names mirror models.DetailedLessonPlan.
func DetailedLessonPlanSchema() *Schema {
	fields := []string{
		"lesson_topic",
		"learning_objectives",
		"learning_outcomes",
		"materials_required",
		"prerequisite_competencies",
		"prerequisite_quiz_questions_and_answers",
		"higher_order_thinking_skills",
		"curriculum_integration",
		"complex_concepts_teaching_iterations",
		"real_life_applications",
		"enhanced_recall_through_repetition",
		"summary_of_the_lesson",
		"home_assessments",
		"additional_considerations",
	}

	props := map[string]any{
		"step_by_step_instructional_plan": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"introduction":           stringProp(),
				"main_teaching_points":   stringProp(),
				"interactive_activities": stringProp(),
			},
			"required":             []any{"introduction", "main_teaching_points", "interactive_activities"},
			"additionalProperties": false,
		},
	}
	required := []any{"step_by_step_instructional_plan"}
	for _, f := range fields {
		props[f] = stringProp()
		required = append(required, f)
	}

	return &Schema{
		Name: "detailed-lesson-plan",
		Definition: map[string]any{
			"type":                 "object",
			"properties":           props,
			"required":             required,
			"additionalProperties": false,
		},
	}
}
