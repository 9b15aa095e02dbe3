package lessonplan

import (
	"strings"
	"testing"

	"github.com/lessonforge/backend/internal/models"
)

func TestFormatForReview_Deterministic(t *testing.T) {
	artifact := map[string]interface{}{
		"zeta":  "last",
		"alpha": "first",
		"nested": map[string]interface{}{
			"b": "two",
			"a": "one",
		},
	}

	first := FormatForReview(artifact)
	for i := 0; i < 20; i++ {
		if got := FormatForReview(artifact); got != first {
			t.Fatalf("rendering is not stable:\n%q\nvs\n%q", first, got)
		}
	}

	if strings.Index(first, "alpha") > strings.Index(first, "zeta") {
		t.Error("map keys should render in sorted order")
	}
	if strings.Index(first, "a: one") > strings.Index(first, "b: two") {
		t.Error("nested map keys should render in sorted order")
	}
}

func TestFormatForReview_LessonList(t *testing.T) {
	plans := []models.DetailedLessonPlan{
		{LessonTopic: "Soil", LearningObjectives: "Know soil types"},
		{LessonTopic: "Water"},
	}

	out := FormatForReview(plans)

	if !strings.Contains(out, "=== LESSON 1 ===") || !strings.Contains(out, "=== LESSON 2 ===") {
		t.Errorf("missing lesson headers:\n%s", out)
	}
	if strings.Index(out, "Soil") > strings.Index(out, "Water") {
		t.Error("lessons should render in order")
	}
	if !strings.Contains(out, "**Lesson Topic:**\nSoil") {
		t.Errorf("missing field rendering:\n%s", out)
	}
}

func TestFormatForReview_SkipsEmptyFields(t *testing.T) {
	out := FormatForReview(models.DetailedLessonPlan{LessonTopic: "Soil"})

	if strings.Contains(out, "Materials Required") {
		t.Error("empty fields should be omitted")
	}
	if strings.Contains(out, "Error") {
		t.Error("empty error should be omitted")
	}
}

func TestFormatForReview_StringPassthrough(t *testing.T) {
	if got := FormatForReview("already rendered text"); got != "already rendered text" {
		t.Errorf("string artifact should pass through, got %q", got)
	}
}
