package lessonplan

import (
	"context"
	"fmt"
	"log"

	"github.com/lessonforge/backend/internal/generator"
	"github.com/lessonforge/backend/internal/models"
)

// Reviewer submits an aggregated lesson-plan artifact to the automated
// reviewer and parses its verdict.
type Reviewer struct {
	llm generator.Client
}

func NewReviewer(llm generator.Client) *Reviewer {
	return &Reviewer{llm: llm}
}

// Review scores an artifact. A malformed reviewer reply resolves to the
// conservative parse-fallback verdict (needs_revision=true); only a
// failed generation call is returned as an error, for the caller's own
// guard to absorb. Never panics past this boundary.
func (r *Reviewer) Review(ctx context.Context, artifact interface{}, grade, subject, language string) (*models.ReviewVerdict, error) {
	rendered := FormatForReview(artifact)

	reply, err := r.llm.Complete(ctx, ReviewSystemPrompt(), BuildReviewUserPrompt(rendered, grade, subject, language))
	if err != nil {
		return nil, fmt.Errorf("review call: %w", err)
	}

	var verdict models.ReviewVerdict
	if !generator.ExtractJSONObject(reply, &verdict) {
		log.Println("WARNING: no decodable JSON in review response, using parse fallback verdict")
		v := ParseFallbackVerdict()
		return &v, nil
	}

	log.Printf("Review completed: quality=%.2f issues=%d needs_revision=%v",
		verdict.QualityScore, len(verdict.IssuesFound), verdict.NeedsRevision)
	return &verdict, nil
}

// ParseFallbackVerdict is the conservative default used when the direct
// review reply cannot be decoded: fail toward re-review.
func ParseFallbackVerdict() models.ReviewVerdict {
	return models.ReviewVerdict{
		QualityScore:           0.5,
		IssuesFound:            []models.ReviewIssue{},
		Suggestions:            []string{"Unable to parse review response. Manual review recommended."},
		NeedsRevision:          true,
		ReviewSummary:          "Review parsing failed. Manual review required.",
		ReadingLevelAssessment: "Unable to assess reading level.",
	}
}

// ReviewErrorVerdict is returned by the direct review entry point when
// the review call itself fails: also fail toward re-review.
func ReviewErrorVerdict() models.ReviewVerdict {
	return models.ReviewVerdict{
		QualityScore:           0.0,
		IssuesFound:            []models.ReviewIssue{},
		Suggestions:            []string{"Review process encountered an error. Please check the lesson plan manually."},
		NeedsRevision:          true,
		ReviewSummary:          "Review process failed. Manual review recommended.",
		ReadingLevelAssessment: "Unable to assess reading level due to review error.",
	}
}

// PipelineFallbackVerdict is the pipeline-level guard's default when the
// review stage fails inside a generation run: fail toward not blocking
// the caller, since the lesson plan itself generated successfully.
func PipelineFallbackVerdict() models.ReviewVerdict {
	return models.ReviewVerdict{
		QualityScore:           0.5,
		IssuesFound:            []models.ReviewIssue{},
		Suggestions:            []string{"Review process encountered an error"},
		NeedsRevision:          false,
		ReviewSummary:          "Review failed, but lesson plan generated successfully",
		ReadingLevelAssessment: "Unable to assess",
	}
}

// ShouldRevise is the pure revision decision. Rules apply in order: the
// hard stop on the revision counter, the explicit flag combined with a
// low score, the very-low-score safety net, then critical issues.
func ShouldRevise(verdict models.ReviewVerdict, maxRevisions, currentRevision int) bool {
	if currentRevision >= maxRevisions {
		return false
	}

	if verdict.NeedsRevision && verdict.QualityScore < 0.4 {
		return true
	}

	if verdict.QualityScore < 0.3 {
		return true
	}

	for _, issue := range verdict.IssuesFound {
		if issue.Severity == models.SeverityCritical {
			return true
		}
	}

	return false
}
