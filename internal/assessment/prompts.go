package assessment

import (
	"fmt"
	"strings"

	"github.com/lessonforge/backend/internal/models"
)

const (
	maxExcerpts       = 5
	maxExcerptLength  = 500
	assessmentOpening = "Hello! I'd like to start my assessment for this chapter."
)

// buildSystemInstruction renders the conversation's system turn from the
// session's content snapshot.
func buildSystemInstruction(snapshot models.ContentSnapshot) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `You are a friendly and encouraging tutor conducting a short conversational assessment of a student before a lesson.

Student context:
- Board: %s
- Grade: %s
- Subject: %s
- Chapter: %s (chapter %d)
- Language of conversation: %s

`, snapshot.Board, snapshot.Grade, snapshot.Subject, snapshot.ChapterName, snapshot.ChapterNumber, snapshot.Language)

	excerpts := snapshot.Excerpts
	if len(excerpts) > maxExcerpts {
		excerpts = excerpts[:maxExcerpts]
	}
	if len(excerpts) > 0 {
		sb.WriteString("Chapter material for reference:\n")
		for _, ex := range excerpts {
			text := ex.Content
			if len(text) > maxExcerptLength {
				text = text[:maxExcerptLength]
			}
			if ex.Title != "" {
				fmt.Fprintf(&sb, "%s: %s\n", ex.Title, text)
			} else {
				sb.WriteString(text + "\n")
			}
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("No chapter material is available; rely on your own knowledge of the subject.\n\n")
	}

	sb.WriteString(`Ask one question at a time. Over the conversation, learn the student's knowledge level, learning style, confidence, strengths, weaknesses, study habits, motivation, and preferred pace. Keep questions short, warm, and age-appropriate. Never lecture; this is an assessment, not a lesson.`)
	return sb.String()
}

// buildProfilePrompt asks for the structured analysis of a transcript.
func buildProfilePrompt(transcript string) string {
	return fmt.Sprintf(`Analyze this student assessment conversation and extract a learner profile.

CONVERSATION:
%s

Respond with JSON only:
{
  "knowledge_level": "beginner|intermediate|advanced|unknown",
  "learning_style": "visual|auditory|kinesthetic|reading_writing|unknown",
  "confidence_level": "low|medium|high|unknown",
  "strengths": ["string"],
  "weaknesses": ["string"],
  "learning_preferences": ["string"],
  "study_habits": "string or unknown",
  "motivation_level": "low|medium|high|unknown",
  "preferred_pace": "slow|moderate|fast|unknown"
}

Use "unknown" or an empty list for anything the conversation does not reveal.`, transcript)
}

// buildPlanPrompt asks for the personalized plan once assessment completes.
func buildPlanPrompt(snapshot models.ContentSnapshot, profile models.StudentProfile, transcript string) string {
	return fmt.Sprintf(`Based on the assessment below, generate a personalized lesson plan for this student.

Subject: %s, Grade: %s, Chapter: %s
Planned lectures: %d of %d minutes each
Language: %s

STUDENT PROFILE:
knowledge_level: %s
learning_style: %s
confidence_level: %s
strengths: %s
weaknesses: %s
learning_preferences: %s
study_habits: %s
motivation_level: %s
preferred_pace: %s

CONVERSATION:
%s

Respond with JSON only, matching this shape:
{
  "lesson_title": "string",
  "learning_objectives": ["string"],
  "teaching_strategy": "string",
  "content_breakdown": [{"section": "string", "duration": "string", "activities": ["string"], "materials": ["string"]}],
  "interactive_activities": ["string"],
  "assessment_methods": ["string"],
  "study_materials": ["string"],
  "progress_tracking": ["string"],
  "motivational_elements": ["string"],
  "support_resources": ["string"],
  "personalized_tips": ["string"],
  "estimated_duration": "string",
  "difficulty_level": "string",
  "success_criteria": ["string"]
}`,
		snapshot.Subject, snapshot.Grade, snapshot.ChapterName,
		snapshot.LectureCount, snapshot.LectureDuration, snapshot.Language,
		profile.KnowledgeLevel, profile.LearningStyle, profile.ConfidenceLevel,
		strings.Join(profile.Strengths, ", "), strings.Join(profile.Weaknesses, ", "),
		strings.Join(profile.LearningPreferences, ", "),
		profile.StudyHabits, profile.MotivationLevel, profile.PreferredPace,
		transcript)
}

// renderTranscript flattens the conversation for analysis prompts. The
// system turn is omitted; only what was actually said matters.
func renderTranscript(turns []models.TranscriptTurn) string {
	var sb strings.Builder
	for _, t := range turns {
		if t.Role == models.RoleSystem {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", t.Role, t.Content)
	}
	return sb.String()
}
