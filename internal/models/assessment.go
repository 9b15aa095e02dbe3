package models

import "time"

// Turn roles stored in an assessment transcript.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TranscriptTurn is one message in an assessment conversation.
type TranscriptTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ContentSnapshot is the source material captured when an assessment
// session starts. Excerpts may be empty, in which case the model relies
// on its own knowledge.
type ContentSnapshot struct {
	Board           string           `json:"board"`
	Grade           string           `json:"grade"`
	Subject         string           `json:"subject"`
	ChapterNumber   int              `json:"chapter_number"`
	ChapterName     string           `json:"chapter_name"`
	Language        string           `json:"language"`
	LectureCount    int              `json:"number_of_lectures"`
	LectureDuration int              `json:"duration_of_lecture"`
	Excerpts        []ContentExcerpt `json:"excerpts,omitempty"`
	Summary         string           `json:"summary,omitempty"`
	ContextType     string           `json:"context_type"`
}

// ContentExcerpt is one titled slice of chapter content.
type ContentExcerpt struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// StudentProfile is the analysis derived from an assessment transcript.
// Every scalar field defaults to "unknown" until inferred.
type StudentProfile struct {
	KnowledgeLevel      string   `json:"knowledge_level"`
	LearningStyle       string   `json:"learning_style"`
	ConfidenceLevel     string   `json:"confidence_level"`
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	LearningPreferences []string `json:"learning_preferences"`
	StudyHabits         string   `json:"study_habits"`
	MotivationLevel     string   `json:"motivation_level"`
	PreferredPace       string   `json:"preferred_pace"`
}

// UnknownProfile returns a profile with every field at its default.
func UnknownProfile() StudentProfile {
	return StudentProfile{
		KnowledgeLevel:  "unknown",
		LearningStyle:   "unknown",
		ConfidenceLevel: "unknown",
		StudyHabits:     "unknown",
		MotivationLevel: "unknown",
		PreferredPace:   "unknown",
	}
}

// ContentSection is one section of a personalized plan's breakdown.
type ContentSection struct {
	Section    string   `json:"section"`
	Duration   string   `json:"duration"`
	Activities []string `json:"activities"`
	Materials  []string `json:"materials"`
}

// PersonalizedLessonPlan is the plan generated once an assessment completes.
type PersonalizedLessonPlan struct {
	LessonTitle           string           `json:"lesson_title"`
	LearningObjectives    []string         `json:"learning_objectives"`
	TeachingStrategy      string           `json:"teaching_strategy"`
	ContentBreakdown      []ContentSection `json:"content_breakdown"`
	InteractiveActivities []string         `json:"interactive_activities"`
	AssessmentMethods     []string         `json:"assessment_methods"`
	StudyMaterials        []string         `json:"study_materials"`
	ProgressTracking      []string         `json:"progress_tracking"`
	MotivationalElements  []string         `json:"motivational_elements"`
	SupportResources      []string         `json:"support_resources"`
	PersonalizedTips      []string         `json:"personalized_tips"`
	EstimatedDuration     string           `json:"estimated_duration"`
	DifficultyLevel       string           `json:"difficulty_level"`
	SuccessCriteria       []string         `json:"success_criteria"`
	ParseError            bool             `json:"parse_error,omitempty"`
	RawResponse           string           `json:"raw_response,omitempty"`
}

// SessionError records a failed workflow step for a session.
type SessionError struct {
	StatusCode int    `json:"status_code"`
	Detail     string `json:"detail"`
}

// AssessmentSession is the persisted state of one conversational
// assessment, keyed by SessionID in the session store.
type AssessmentSession struct {
	SessionID  string                  `json:"session_id"`
	Content    ContentSnapshot         `json:"content"`
	Transcript []TranscriptTurn        `json:"transcript"`
	Profile    StudentProfile          `json:"profile"`
	IsComplete bool                    `json:"is_complete"`
	LessonPlan *PersonalizedLessonPlan `json:"lesson_plan,omitempty"`
	Error      *SessionError           `json:"error,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// StartAssessmentRequest initializes an assessment session.
type StartAssessmentRequest struct {
	Board           string `json:"board"`
	Grade           string `json:"grade"`
	Subject         string `json:"subject"`
	ChapterNumber   int    `json:"chapter_number"`
	LectureCount    int    `json:"number_of_lectures"`
	LectureDuration int    `json:"duration_of_lecture"`
	Language        string `json:"language"`
}

// ContinueAssessmentRequest carries one client turn for an open session.
type ContinueAssessmentRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// TurnResult is the outcome of one assessment turn.
type TurnResult struct {
	Response           string                  `json:"response"`
	AssessmentComplete bool                    `json:"assessment_complete"`
	HasLessonPlan      bool                    `json:"has_lesson_plan"`
	Profile            *StudentProfile         `json:"profile,omitempty"`
	LessonPlan         *PersonalizedLessonPlan `json:"lesson_plan,omitempty"`
}
