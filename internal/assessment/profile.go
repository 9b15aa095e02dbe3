package assessment

import (
	"context"
	"log"

	"github.com/lessonforge/backend/internal/generator"
	"github.com/lessonforge/backend/internal/models"
)

// minMeaningfulFields is how many core profile fields must be inferred
// before the assessment counts as complete.
const minMeaningfulFields = 3

// minTranscriptLength guards against declaring completion off a trivially
// short exchange, measured on the rendered transcript.
const minTranscriptLength = 100

// extractProfile runs the secondary analysis call over the transcript.
// Any failure resolves to the all-unknown profile so the conversation
// keeps going.
func extractProfile(ctx context.Context, llm generator.Client, transcript string) models.StudentProfile {
	reply, err := llm.Complete(ctx, "", buildProfilePrompt(transcript))
	if err != nil {
		log.Printf("WARNING: profile analysis call failed: %v", err)
		return models.UnknownProfile()
	}

	profile := models.UnknownProfile()
	if !generator.ExtractJSONObject(reply, &profile) {
		log.Println("WARNING: no decodable JSON in profile analysis, keeping unknown profile")
		return models.UnknownProfile()
	}
	normalizeProfile(&profile)
	return profile
}

// normalizeProfile backfills empty scalar fields so downstream checks
// see "unknown" rather than "".
func normalizeProfile(p *models.StudentProfile) {
	for _, f := range []*string{
		&p.KnowledgeLevel, &p.LearningStyle, &p.ConfidenceLevel,
		&p.StudyHabits, &p.MotivationLevel, &p.PreferredPace,
	} {
		if *f == "" {
			*f = "unknown"
		}
	}
}

// assessmentComplete reports whether enough of the profile has been
// inferred: at least minMeaningfulFields of the five core fields carry
// real values, and the transcript is long enough to trust them.
func assessmentComplete(profile models.StudentProfile, transcript string) bool {
	if len(transcript) <= minTranscriptLength {
		return false
	}

	meaningful := 0
	if profile.KnowledgeLevel != "unknown" && profile.KnowledgeLevel != "" {
		meaningful++
	}
	if profile.LearningStyle != "unknown" && profile.LearningStyle != "" {
		meaningful++
	}
	if profile.ConfidenceLevel != "unknown" && profile.ConfidenceLevel != "" {
		meaningful++
	}
	if len(profile.Strengths) > 0 {
		meaningful++
	}
	if len(profile.Weaknesses) > 0 {
		meaningful++
	}
	return meaningful >= minMeaningfulFields
}
