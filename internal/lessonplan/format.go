package lessonplan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lessonforge/backend/internal/models"
)

// FormatForReview renders an artifact as flat key: value text for the
// reviewer. The rendering is deterministic: struct fields appear in
// declaration order and map keys are sorted, so formatting the same
// input always yields the same text.
func FormatForReview(artifact interface{}) string {
	switch v := artifact.(type) {
	case []models.DetailedLessonPlan:
		var sb strings.Builder
		for i, plan := range v {
			fmt.Fprintf(&sb, "=== LESSON %d ===\n", i+1)
			sb.WriteString(formatLesson(plan))
			sb.WriteString("\n")
		}
		return sb.String()
	case models.DetailedLessonPlan:
		return formatLesson(v)
	case map[string]interface{}:
		return formatMap(v, "")
	case string:
		return v
	default:
		return fmt.Sprintf("%v", artifact)
	}
}

func formatLesson(plan models.DetailedLessonPlan) string {
	var sb strings.Builder

	field := func(key, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "**%s:**\n%s\n\n", key, value)
		}
	}

	field("Lesson Topic", plan.LessonTopic)
	field("Learning Objectives", plan.LearningObjectives)
	field("Learning Outcomes", plan.LearningOutcomes)
	field("Materials Required", plan.MaterialsRequired)
	field("Prerequisite Competencies", plan.PrerequisiteCompetencies)
	field("Prerequisite Quiz Questions and Answers", plan.PrerequisiteQuizQuestions)

	sb.WriteString("**Step by Step Instructional Plan:**\n")
	fmt.Fprintf(&sb, "  Introduction: %s\n", plan.InstructionalPlan.Introduction)
	fmt.Fprintf(&sb, "  Main Teaching Points: %s\n", plan.InstructionalPlan.MainTeachingPoints)
	fmt.Fprintf(&sb, "  Interactive Activities: %s\n\n", plan.InstructionalPlan.InteractiveActivities)

	field("Higher Order Thinking Skills", plan.HigherOrderThinkingSkills)
	field("Curriculum Integration", plan.CurriculumIntegration)
	field("Complex Concepts Teaching Iterations", plan.ComplexConceptIterations)
	field("Real Life Applications", plan.RealLifeApplications)
	field("Enhanced Recall Through Repetition", plan.EnhancedRecallThroughRepetition)
	field("Summary of the Lesson", plan.Summary)
	field("Home Assessments", plan.HomeAssessments)
	field("Additional Considerations", plan.AdditionalConsiderations)
	field("Quiz / Assignment", plan.QuizAssignment)
	if len(plan.WebResources) > 0 {
		field("Web Resources", strings.Join(plan.WebResources, "\n"))
	}
	field("Error", plan.Error)

	return sb.String()
}

func formatMap(m map[string]interface{}, indent string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		switch v := m[k].(type) {
		case map[string]interface{}:
			fmt.Fprintf(&sb, "%s**%s:**\n", indent, k)
			sb.WriteString(formatMap(v, indent+"  "))
		case string:
			if v != "" {
				fmt.Fprintf(&sb, "%s%s: %s\n", indent, k, v)
			}
		default:
			fmt.Fprintf(&sb, "%s%s: %v\n", indent, k, v)
		}
	}
	return sb.String()
}
