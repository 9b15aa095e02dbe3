package assessment

import (
	"context"
	"log"

	"github.com/lessonforge/backend/internal/generator"
	"github.com/lessonforge/backend/internal/models"
)

// generatePlan produces the personalized plan for a completed
// assessment. A call failure returns nil (the session stays complete
// without a plan); an unparseable reply returns a fallback object
// carrying the raw text so nothing the model wrote is lost.
func generatePlan(ctx context.Context, llm generator.Client, session *models.AssessmentSession) *models.PersonalizedLessonPlan {
	transcript := renderTranscript(session.Transcript)

	reply, err := llm.Complete(ctx, "", buildPlanPrompt(session.Content, session.Profile, transcript))
	if err != nil {
		log.Printf("WARNING: personalized plan generation failed for session %s: %v", session.SessionID, err)
		return nil
	}

	var plan models.PersonalizedLessonPlan
	if !generator.ExtractJSONObject(reply, &plan) {
		log.Printf("WARNING: no decodable JSON in personalized plan for session %s", session.SessionID)
		return &models.PersonalizedLessonPlan{
			LessonTitle: "Personalized Lesson Plan",
			ParseError:  true,
			RawResponse: reply,
		}
	}
	return &plan
}
