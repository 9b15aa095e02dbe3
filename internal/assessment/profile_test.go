package assessment

import (
	"strings"
	"testing"

	"github.com/lessonforge/backend/internal/models"
)

func TestAssessmentComplete(t *testing.T) {
	longTranscript := strings.Repeat("user: I like diagrams.\nassistant: Great!\n", 5)

	tests := []struct {
		name       string
		profile    models.StudentProfile
		transcript string
		want       bool
	}{
		{
			name: "three core fields known",
			profile: models.StudentProfile{
				KnowledgeLevel:  "intermediate",
				LearningStyle:   "visual",
				ConfidenceLevel: "medium",
			},
			transcript: longTranscript,
			want:       true,
		},
		{
			name: "strengths and weaknesses count as fields",
			profile: models.StudentProfile{
				KnowledgeLevel: "beginner",
				Strengths:      []string{"curiosity"},
				Weaknesses:     []string{"formulas"},
			},
			transcript: longTranscript,
			want:       true,
		},
		{
			name: "only two fields known",
			profile: models.StudentProfile{
				KnowledgeLevel: "intermediate",
				LearningStyle:  "visual",
			},
			transcript: longTranscript,
			want:       false,
		},
		{
			name:       "all unknown",
			profile:    models.UnknownProfile(),
			transcript: longTranscript,
			want:       false,
		},
		{
			name: "short transcript blocks completion",
			profile: models.StudentProfile{
				KnowledgeLevel:  "advanced",
				LearningStyle:   "auditory",
				ConfidenceLevel: "high",
			},
			transcript: "user: hi\n",
			want:       false,
		},
		{
			name: "empty strings do not count",
			profile: models.StudentProfile{
				KnowledgeLevel:  "",
				LearningStyle:   "",
				ConfidenceLevel: "high",
				Strengths:       []string{"memory"},
			},
			transcript: longTranscript,
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := assessmentComplete(tt.profile, tt.transcript); got != tt.want {
				t.Errorf("assessmentComplete = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeProfile(t *testing.T) {
	p := models.StudentProfile{KnowledgeLevel: "beginner"}
	normalizeProfile(&p)

	if p.KnowledgeLevel != "beginner" {
		t.Errorf("known field was overwritten: %q", p.KnowledgeLevel)
	}
	for name, v := range map[string]string{
		"learning_style":   p.LearningStyle,
		"confidence_level": p.ConfidenceLevel,
		"study_habits":     p.StudyHabits,
		"motivation_level": p.MotivationLevel,
		"preferred_pace":   p.PreferredPace,
	} {
		if v != "unknown" {
			t.Errorf("%s = %q, want unknown", name, v)
		}
	}
}

func TestRenderTranscript_OmitsSystemTurn(t *testing.T) {
	turns := []models.TranscriptTurn{
		{Role: models.RoleSystem, Content: "instructions here"},
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "hi there"},
	}

	out := renderTranscript(turns)
	if strings.Contains(out, "instructions here") {
		t.Error("system turn must not appear in the rendered transcript")
	}
	if !strings.Contains(out, "user: hello") || !strings.Contains(out, "assistant: hi there") {
		t.Errorf("missing turns in transcript: %q", out)
	}
}
