package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MockClient produces deterministic output for local development and
// tests. It keys off markers in the prompts to decide which stage is
// calling, mirroring what the real model would return for each.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

var lectureCountPattern = regexp.MustCompile(`number_of_lectures:\s*(\d+)`)

func (m *MockClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	switch {
	case strings.Contains(systemPrompt, "reviewing"):
		return mockReviewJSON, nil
	case strings.Contains(userPrompt, "Analyze this student assessment"):
		return mockProfileJSON, nil
	case strings.Contains(userPrompt, "generate a personalized lesson plan"):
		return mockPersonalizedPlanJSON, nil
	case strings.Contains(systemPrompt, "quizzes"):
		return "[Mock] Quiz:\n1. What is the main idea of this lesson?\n\nAssignment:\nWrite a short summary of the topic.", nil
	case strings.Contains(systemPrompt, "delimiter"):
		return buildMockOutline(lectureCount(userPrompt)), nil
	default:
		return "[Mock] Detailed lesson plan text covering objectives, activities, and assessments for this lecture.", nil
	}
}

func (m *MockClient) CompleteChat(ctx context.Context, messages []Message) (string, error) {
	return "[Mock] Thanks for sharing. Can you tell me how confident you feel about the key concepts of this chapter?", nil
}

func (m *MockClient) CompleteStructured(ctx context.Context, systemPrompt, userPrompt string, schema *Schema) (json.RawMessage, error) {
	if schema.Name != "detailed-lesson-plan" {
		return nil, genErr("structured", fmt.Errorf("mock has no fixture for schema %q", schema.Name))
	}
	raw := json.RawMessage(mockDetailedPlanJSON)
	if err := schema.Validate(raw); err != nil {
		return nil, genErr("structured", err)
	}
	return raw, nil
}

func lectureCount(userPrompt string) int {
	if m := lectureCountPattern.FindStringSubmatch(userPrompt); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return 2
}

func buildMockOutline(n int) string {
	blocks := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		blocks = append(blocks, fmt.Sprintf(
			"Lecture %d\nTopic: Mock topic %d\nKey points covered in this lecture\nSuggested activity for reinforcement", i, i))
	}
	return strings.Join(blocks, "\n=====\n")
}

const mockDetailedPlanJSON = `{
  "lesson_topic": "[Mock] Introduction to the chapter",
  "learning_objectives": "Students will understand the core concepts.",
  "learning_outcomes": "Students can explain and apply the concepts.",
  "materials_required": "Textbook, chart paper, markers",
  "prerequisite_competencies": "Familiarity with the previous chapter",
  "prerequisite_quiz_questions_and_answers": "Q: What did we learn last time? A: The basics.",
  "step_by_step_instructional_plan": {
    "introduction": "Recap of prior knowledge and hook activity.",
    "main_teaching_points": "Explain the central ideas with examples.",
    "interactive_activities": "Group discussion and concept mapping."
  },
  "higher_order_thinking_skills": "Compare, analyze, and evaluate scenarios.",
  "curriculum_integration": "Connections to environmental studies and math.",
  "complex_concepts_teaching_iterations": "Re-teach with a visual model.",
  "real_life_applications": "Everyday examples from the students' environment.",
  "enhanced_recall_through_repetition": "Exit-ticket recall questions.",
  "summary_of_the_lesson": "Key takeaways restated by students.",
  "home_assessments": "Worksheet covering today's concepts.",
  "additional_considerations": "Support strategies for mixed-ability groups."
}`

const mockReviewJSON = `{
  "quality_score": 0.85,
  "issues_found": [],
  "suggestions": ["Consider adding more visual aids."],
  "needs_revision": false,
  "review_summary": "Well structured lesson plan appropriate for the grade.",
  "reading_level_assessment": "Appropriate for grade level."
}`

const mockProfileJSON = `{
  "knowledge_level": "intermediate",
  "learning_style": "visual",
  "confidence_level": "medium",
  "strengths": ["conceptual understanding"],
  "weaknesses": ["applying formulas"],
  "learning_preferences": ["diagrams", "worked examples"],
  "study_habits": "studies in short daily sessions",
  "motivation_level": "high",
  "preferred_pace": "moderate"
}`

const mockPersonalizedPlanJSON = `{
  "lesson_title": "[Mock] Personalized plan",
  "learning_objectives": ["Understand key concepts", "Build confidence"],
  "teaching_strategy": "Visual-first explanations with worked examples",
  "content_breakdown": [
    {"section": "Introduction and Review", "duration": "15 minutes", "activities": ["Discussion"], "materials": ["Textbook"]}
  ],
  "interactive_activities": ["Concept mapping"],
  "assessment_methods": ["Formative quiz"],
  "study_materials": ["Textbook", "Practice worksheets"],
  "progress_tracking": ["Weekly check-ins"],
  "motivational_elements": ["Progress celebrations"],
  "support_resources": ["Study group"],
  "personalized_tips": ["Review diagrams before each session"],
  "estimated_duration": "2 hours",
  "difficulty_level": "intermediate",
  "success_criteria": ["Completes practice set independently"]
}`
