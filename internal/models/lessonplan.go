package models

// Language values accepted by the generation endpoints.
var AllowedLanguages = map[string]bool{
	"english": true,
	"hindi":   true,
}

// ContentSource identifies which input determines the lesson source material.
type ContentSource string

const (
	SourceChapter  ContentSource = "chapter"
	SourceTopic    ContentSource = "topic"
	SourceDocument ContentSource = "document"
)

// LessonRequest is the immutable input for one lesson-plan generation run.
// Exactly one of ChapterNumber / Topic / DocumentHandle determines the
// content source.
type LessonRequest struct {
	Board            string `json:"board"`
	Grade            string `json:"grade"`
	Subject          string `json:"subject"`
	ChapterNumber    int    `json:"chapter_number,omitempty"`
	Topic            string `json:"topic,omitempty"`
	DocumentHandle   string `json:"document_handle,omitempty"`
	LectureCount     int    `json:"number_of_lectures"`
	LectureDuration  int    `json:"duration_of_lecture"`
	ClassStrength    int    `json:"class_strength"`
	Language         string `json:"language"`
	Quiz             bool   `json:"quiz"`
	Assignment       bool   `json:"assignment"`
	StructuredOutput bool   `json:"structured_output"`
}

// Source reports which content source the request selects.
func (r LessonRequest) Source() ContentSource {
	switch {
	case r.ChapterNumber > 0:
		return SourceChapter
	case r.DocumentHandle != "":
		return SourceDocument
	default:
		return SourceTopic
	}
}

// InstructionalPlanStep is the nested step block of a detailed plan.
type InstructionalPlanStep struct {
	Introduction          string `json:"introduction"`
	MainTeachingPoints    string `json:"main_teaching_points"`
	InteractiveActivities string `json:"interactive_activities"`
}

// DetailedLessonPlan is one lecture's structured artifact. Field set follows
// the generation schema; WebResources and QuizAssignment are attached by
// later pipeline stages, Error marks a lecture whose generation failed.
type DetailedLessonPlan struct {
	LessonTopic                     string                `json:"lesson_topic"`
	LearningObjectives              string                `json:"learning_objectives"`
	LearningOutcomes                string                `json:"learning_outcomes"`
	MaterialsRequired               string                `json:"materials_required"`
	PrerequisiteCompetencies        string                `json:"prerequisite_competencies"`
	PrerequisiteQuizQuestions       string                `json:"prerequisite_quiz_questions_and_answers"`
	InstructionalPlan               InstructionalPlanStep `json:"step_by_step_instructional_plan"`
	HigherOrderThinkingSkills       string                `json:"higher_order_thinking_skills"`
	CurriculumIntegration           string                `json:"curriculum_integration"`
	ComplexConceptIterations        string                `json:"complex_concepts_teaching_iterations"`
	RealLifeApplications            string                `json:"real_life_applications"`
	EnhancedRecallThroughRepetition string                `json:"enhanced_recall_through_repetition"`
	Summary                         string                `json:"summary_of_the_lesson"`
	HomeAssessments                 string                `json:"home_assessments"`
	AdditionalConsiderations        string                `json:"additional_considerations"`
	QuizAssignment                  string                `json:"quiz_assignment,omitempty"`
	WebResources                    []string              `json:"web_resources,omitempty"`
	Error                           string                `json:"error,omitempty"`
}

// IssueSeverity classifies a single review finding.
type IssueSeverity string

const (
	SeverityMinor    IssueSeverity = "minor"
	SeverityMajor    IssueSeverity = "major"
	SeverityCritical IssueSeverity = "critical"
)

// ReviewIssue is one problem the automated reviewer found.
type ReviewIssue struct {
	Type        string        `json:"type"`
	Severity    IssueSeverity `json:"severity"`
	Description string        `json:"description"`
	Location    string        `json:"location,omitempty"`
	Suggestion  string        `json:"suggestion,omitempty"`
}

// ReviewVerdict is the reviewer's structured judgement of a lesson plan.
type ReviewVerdict struct {
	QualityScore           float64       `json:"quality_score"`
	IssuesFound            []ReviewIssue `json:"issues_found"`
	Suggestions            []string      `json:"suggestions"`
	NeedsRevision          bool          `json:"needs_revision"`
	ReviewSummary          string        `json:"review_summary"`
	ReadingLevelAssessment string        `json:"reading_level_assessment"`
}

// ReviewData is the review block attached to a successful response envelope.
type ReviewData struct {
	QualityScore           float64       `json:"quality_score"`
	IssuesFound            []ReviewIssue `json:"issues_found"`
	Suggestions            []string      `json:"suggestions"`
	ReviewSummary          string        `json:"review_summary"`
	ReadingLevelAssessment string        `json:"reading_level_assessment"`
	RevisionCount          int           `json:"revision_count"`
}

// Envelope is the response shape consumed by API callers.
type Envelope struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	ReviewData *ReviewData `json:"review_data,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
