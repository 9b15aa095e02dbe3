package lessonplan

import (
	"fmt"
	"strings"
)

// OutlineDelimiter is the literal sentinel separating per-lecture outline
// blocks in the outline stage output. Prompt and parser agree on this
// exact string.
const OutlineDelimiter = "====="

func OutlineSystemPrompt() string {
	return `You are an AI specialized in curriculum design for K-12 education, generating pointer-form lesson plans aligned with NEP 2020, NCF 2023, and SQAAF guidelines.

Given the chapter content and lesson parameters, produce one concise outline block per lecture. Each block must contain:

Topic: <the single topic this lecture covers>
Learning Objectives: key objectives in brief points
Key Teaching Points: the concepts to cover, in order
Suggested Activities: engaging activities matched to the class size

Guidelines:
1. Use the content specified as the primary reference for all information. If no content is given, use your own knowledge.
2. Ensure that each lesson block logically progresses from the previous one for coherent learning.
3. Divide the chapter evenly across the requested number of lectures so the full chapter is covered.
4. Adjust depth and language to the specified grade level.
5. Emphasize inclusivity and accessibility in language and teaching methods.
6. The most important thing is to separate each block of lesson by the delimiter '` + OutlineDelimiter + `'

The focus is on generating concise and logical pointers, enabling detailed lesson plans to be built from each block.`
}

func DetailedSystemPrompt() string {
	return `You are an AI specialized in advanced curriculum design for K-12 education.
Your task is to transform a pointer-form lesson plan into a comprehensive detailed teaching guide aligned with NEP 2020, NCF 2023, and SQAAF guidelines.
Use the user-provided chapter content (if no content is given use your own knowledge) and outline to generate a single detailed lesson plan for the current lecture only.

Respond only with a JSON object that matches the given schema. Do not wrap it in markdown or prose.

Guidelines:
1. Expand each section thoroughly, providing teaching strategies, explanations, and examples.
2. Adjust the lesson plan to the specified grade level, ensuring the language and complexity are appropriate.
3. Adapt activities and classroom management strategies for the number of students given by the user.
4. Make sure the total time allocated across the instructional plan sums to the single-lecture duration.
5. The final output should be a self-contained detailed lesson guide that teachers can follow without additional references.`
}

func DetailedFreeTextSystemPrompt() string {
	return `Your task is to expand pointer-form lesson plans into fully detailed teaching guides aligned with the guidelines from NEP 2020, NCF 2023, and SQAAF. Using the provided outline, create a comprehensive, time-organized teaching plan with all the material a teacher needs to effectively deliver the content in the classroom.

Adjust the lesson plan and content to be appropriate for the specified grade level, ensuring that students can understand the content easily. Also mold the lesson plan according to the number of students in the class, adapting activities and strategies accordingly.

Cover, in order: Lesson Topic, Learning Objectives, Learning Outcomes, Materials Required, Prerequisite Competencies, Step-by-Step Instructional Plan, Higher Order Thinking Skills, Real-Life Applications, Summary of the Lesson, and Home Assessments.

Begin each point with a newline character. Do not use a dash or any other symbol at the start of a point. Produce only the detailed lesson plan, with no disclaimers or extraneous text before or after it.`
}

func QuizAssignmentSystemPrompt() string {
	return `You generate quizzes and assignments tailored to specific educational requirements. Users provide the board, grade, subject, and the content of a chapter in the form of a lesson plan. The user will also specify whether they want a quiz, an assignment, or both; strictly follow that instruction. Ensure the quiz and assignment are completely grounded in the given lesson plan and do not go outside the given context. Follow NEP 2020, NCF 2023, and SQAAF guidelines. Produce clear, well-structured headings without any extraneous text.`
}

func ReviewSystemPrompt() string {
	return `You are an expert educational content reviewer specializing in reviewing K-12 lesson plans for quality, age-appropriateness, curriculum alignment, and potential issues such as bias or inappropriate content. You assess reading level against the target grade. Respond with JSON only.`
}

// BuildOutlineUserPrompt merges the request fields and source content into
// the prompt-assembly text for the outline stage. Pure.
func BuildOutlineUserPrompt(st *PipelineState) string {
	var sb strings.Builder
	sb.WriteString("Generate lesson plan for :-\n")
	fmt.Fprintf(&sb, "grade: %s\n", st.Request.Grade)
	fmt.Fprintf(&sb, "subject: %s\n", st.Request.Subject)
	fmt.Fprintf(&sb, "chapter_number: %d\n", st.Request.ChapterNumber)
	fmt.Fprintf(&sb, "chapter_name: %s\n", st.ChapterName)
	fmt.Fprintf(&sb, "number_of_lectures: %d\n", st.Request.LectureCount)
	fmt.Fprintf(&sb, "duration_of_each_lecture: %d\n", st.Request.LectureDuration)
	fmt.Fprintf(&sb, "class_strength: %d\n", st.Request.ClassStrength)
	fmt.Fprintf(&sb, "content: %s\n", st.Content)
	if st.Request.Topic != "" {
		fmt.Fprintf(&sb, "topic: %s\n", st.Request.Topic)
	}
	return sb.String()
}

// BuildDetailUserPrompt builds the per-lecture expansion prompt from the
// lecture's outline block.
func BuildDetailUserPrompt(st *PipelineState, lecture int, outline string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "current_class: %d\n", lecture)
	fmt.Fprintf(&sb, "total_classes: %d\n", st.Request.LectureCount)
	fmt.Fprintf(&sb, "class_strength: %d\n", st.Request.ClassStrength)
	fmt.Fprintf(&sb, "number_of_lectures: %d\n", st.Request.LectureCount)
	fmt.Fprintf(&sb, "duration_of_each_lecture: %d\n", st.Request.LectureDuration)
	fmt.Fprintf(&sb, "lesson_plan_in_points: %s\n", outline)
	fmt.Fprintf(&sb, "content: %s\n", st.Content)
	fmt.Fprintf(&sb, "Generate output in language: %s\n", st.Request.Language)
	return sb.String()
}

// BuildQuizUserPrompt builds the quiz/assignment prompt for one lecture.
func BuildQuizUserPrompt(st *PipelineState, lecture int, lessonPlan string) string {
	var wanted string
	switch {
	case st.Request.Quiz && st.Request.Assignment:
		wanted = "Generate both a quiz and an assignment."
	case st.Request.Quiz:
		wanted = "Generate only a quiz."
	case st.Request.Assignment:
		wanted = "Generate only an assignment."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "current_class: %d\n", lecture)
	fmt.Fprintf(&sb, "total_classes: %d\n", st.Request.LectureCount)
	fmt.Fprintf(&sb, "class_strength: %d\n", st.Request.ClassStrength)
	fmt.Fprintf(&sb, "duration_of_each_lecture: %d\n", st.Request.LectureDuration)
	fmt.Fprintf(&sb, "Generate output in language: %s\n", st.Request.Language)
	sb.WriteString(wanted + "\n")
	fmt.Fprintf(&sb, "lesson_plan: %s\n", lessonPlan)
	return sb.String()
}

// BuildReviewUserPrompt builds the reviewer's analysis prompt around the
// flat text rendering of the lesson plan.
func BuildReviewUserPrompt(rendered, grade, subject, language string) string {
	return fmt.Sprintf(`Review the following lesson plan for grade %s %s (language of instruction: %s).

LESSON PLAN:
%s

Assess content quality, grade-appropriateness, curriculum alignment, inclusivity, and reading level. Identify any issues with a severity of "minor", "major", or "critical" (bias or inappropriate content is always critical).

Respond with JSON only:
{
  "quality_score": 0.0,
  "issues_found": [
    {"type": "string", "severity": "minor", "description": "string", "location": "string", "suggestion": "string"}
  ],
  "suggestions": ["string"],
  "needs_revision": false,
  "review_summary": "string",
  "reading_level_assessment": "string"
}

quality_score must be a number between 0.0 and 1.0.`, grade, subject, language, rendered)
}
