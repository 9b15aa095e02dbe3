package lessonplan

import (
	"github.com/lessonforge/backend/internal/models"
)

// Stage enumerates the pipeline's states. The flow is linear with one
// feedback edge: prompt -> outline -> expand -> review, then either back
// to expand (at most once) or done.
type Stage int

const (
	StagePrompt Stage = iota
	StageOutline
	StageExpand
	StageReview
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StagePrompt:
		return "prompt"
	case StageOutline:
		return "outline"
	case StageExpand:
		return "expand"
	case StageReview:
		return "review"
	case StageDone:
		return "done"
	}
	return "unknown"
}

// MaxRevisions bounds the revision loop for the production pipeline: at
// most one revision cycle total.
const MaxRevisions = 1

// PipelineState is the mutable aggregate for a single generation run.
// Each incoming request owns an independent instance; it is never shared
// across requests and is discarded once the response is built.
type PipelineState struct {
	Request     models.LessonRequest
	ChapterName string
	Content     string

	Stage          Stage
	UserPrompt     string
	Outline        []OutlineBlock
	CurrentLecture int

	// Accumulated artifacts: Artifacts when structured output is
	// requested, TextArtifact (blank-line separated) otherwise.
	Artifacts    []models.DetailedLessonPlan
	TextArtifact string

	RevisionCount   int
	ReviewCompleted bool
	Verdict         *models.ReviewVerdict
}

// NewPipelineState allocates a fresh run-scoped state.
func NewPipelineState(req models.LessonRequest, chapterName, content string) *PipelineState {
	return &PipelineState{
		Request:     req,
		ChapterName: chapterName,
		Content:     content,
		Stage:       StagePrompt,
	}
}

// ArtifactData returns the aggregate artifact in the shape the response
// envelope carries: a list for structured output, a string otherwise.
func (st *PipelineState) ArtifactData() interface{} {
	if st.Request.StructuredOutput {
		return st.Artifacts
	}
	return st.TextArtifact
}

// ReviewData converts the stored verdict into the response review block.
func (st *PipelineState) ReviewData() *models.ReviewData {
	if st.Verdict == nil {
		return nil
	}
	issues := st.Verdict.IssuesFound
	if issues == nil {
		issues = []models.ReviewIssue{}
	}
	suggestions := st.Verdict.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return &models.ReviewData{
		QualityScore:           st.Verdict.QualityScore,
		IssuesFound:            issues,
		Suggestions:            suggestions,
		ReviewSummary:          st.Verdict.ReviewSummary,
		ReadingLevelAssessment: st.Verdict.ReadingLevelAssessment,
		RevisionCount:          st.RevisionCount,
	}
}
