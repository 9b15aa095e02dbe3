package lessonplan

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/lessonforge/backend/internal/content"
	"github.com/lessonforge/backend/internal/generator"
	"github.com/lessonforge/backend/internal/models"
)

// fakeStore serves a single chapter catalog and content fixture.
type fakeStore struct {
	chapters   []content.Chapter
	source     *content.SourceContent
	catalogErr error
	contentErr error
}

func (f *fakeStore) ChapterContent(ctx context.Context, board, grade, subject string, chapterNumber int) (*content.SourceContent, error) {
	if f.contentErr != nil {
		return nil, f.contentErr
	}
	return f.source, nil
}

func (f *fakeStore) ChapterCatalog(ctx context.Context, board, grade, subject string) ([]content.Chapter, error) {
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.chapters, nil
}

func defaultStore() *fakeStore {
	return &fakeStore{
		chapters: []content.Chapter{
			{Number: 1, Name: "Food: Where Does It Come From?"},
			{Number: 3, Name: "Fibre to Fabric"},
		},
		source: &content.SourceContent{
			Records: []content.Record{{Title: "Fibres", Content: "Natural and synthetic fibres."}},
		},
	}
}

// TestGenerateFromChapter_EndToEnd runs the full chapter flow on the
// deterministic mock generator.
func TestGenerateFromChapter_EndToEnd(t *testing.T) {
	svc := NewService(generator.NewMockClient(), nil, defaultStore(), nil)

	req := testRequest(true)
	req.Quiz = true
	env, err := svc.GenerateFromChapter(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.Status != "success" {
		t.Errorf("status = %q", env.Status)
	}
	plans, ok := env.Data.([]models.DetailedLessonPlan)
	if !ok {
		t.Fatalf("data is %T, want []models.DetailedLessonPlan", env.Data)
	}
	if len(plans) != 2 {
		t.Fatalf("plans = %d, want 2", len(plans))
	}
	for i, plan := range plans {
		if plan.Error != "" {
			t.Errorf("plan %d carries error: %s", i, plan.Error)
		}
		if plan.LessonTopic == "" {
			t.Errorf("plan %d missing lesson topic", i)
		}
		if plan.QuizAssignment == "" {
			t.Errorf("plan %d missing quiz/assignment", i)
		}
	}
	if env.ReviewData == nil {
		t.Fatal("expected review data on a successful run")
	}
	if env.ReviewData.QualityScore != 0.85 {
		t.Errorf("quality score = %v, want the mock's 0.85", env.ReviewData.QualityScore)
	}
	if env.ReviewData.RevisionCount != 0 {
		t.Errorf("revision count = %d, want 0", env.ReviewData.RevisionCount)
	}
}

func TestGenerateFromChapter_UnsupportedLanguage(t *testing.T) {
	svc := NewService(generator.NewMockClient(), nil, defaultStore(), nil)

	req := testRequest(true)
	req.Language = "french"
	if _, err := svc.GenerateFromChapter(context.Background(), req); !errors.Is(err, ErrInvalidDetails) {
		t.Fatalf("err = %v, want ErrInvalidDetails", err)
	}
}

func TestGenerateFromChapter_UnknownChapter(t *testing.T) {
	svc := NewService(generator.NewMockClient(), nil, defaultStore(), nil)

	req := testRequest(true)
	req.ChapterNumber = 99
	if _, err := svc.GenerateFromChapter(context.Background(), req); !errors.Is(err, ErrInvalidDetails) {
		t.Fatalf("err = %v, want ErrInvalidDetails", err)
	}
}

func TestGenerateFromChapter_MissingContent(t *testing.T) {
	store := defaultStore()
	store.contentErr = content.ErrNotFound
	svc := NewService(generator.NewMockClient(), nil, store, nil)

	req := testRequest(true)
	req.ChapterNumber = 1
	if _, err := svc.GenerateFromChapter(context.Background(), req); !errors.Is(err, ErrInvalidDetails) {
		t.Fatalf("err = %v, want ErrInvalidDetails", err)
	}
}

func TestGenerateFromChapter_StoreDown(t *testing.T) {
	store := defaultStore()
	store.catalogErr = errors.New("connection refused")
	svc := NewService(generator.NewMockClient(), nil, store, nil)

	_, err := svc.GenerateFromChapter(context.Background(), testRequest(true))
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrInvalidDetails) {
		t.Error("a store outage must not be reported as invalid details")
	}
}

func TestGenerateFromTopic_ModelKnowledgeFallback(t *testing.T) {
	svc := NewService(generator.NewMockClient(), nil, defaultStore(), nil)

	req := testRequest(false)
	req.ChapterNumber = 0
	req.Topic = "The Water Cycle"
	env, err := svc.GenerateFromTopic(context.Background(), req, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, ok := env.Data.(string)
	if !ok {
		t.Fatalf("data is %T, want string for free-text output", env.Data)
	}
	if text == "" {
		t.Error("expected generated lesson text")
	}
	if env.ReviewData == nil {
		t.Error("expected review data")
	}
}

func TestGenerateFromTopic_RequiresTopic(t *testing.T) {
	svc := NewService(generator.NewMockClient(), nil, defaultStore(), nil)

	req := testRequest(false)
	req.ChapterNumber = 0
	req.Topic = ""
	if _, err := svc.GenerateFromTopic(context.Background(), req, nil, ""); !errors.Is(err, ErrInvalidDetails) {
		t.Fatalf("err = %v, want ErrInvalidDetails", err)
	}
}

func TestGenerate_DispatchesOnSource(t *testing.T) {
	svc := NewService(generator.NewMockClient(), nil, defaultStore(), nil)

	chapterReq := testRequest(true)
	env, err := svc.Generate(context.Background(), chapterReq, nil, "")
	if err != nil {
		t.Fatalf("chapter dispatch: %v", err)
	}
	if _, ok := env.Data.([]models.DetailedLessonPlan); !ok {
		t.Errorf("chapter dispatch data is %T", env.Data)
	}

	topicReq := testRequest(false)
	topicReq.ChapterNumber = 0
	topicReq.Topic = "Magnets"
	env, err = svc.Generate(context.Background(), topicReq, nil, "")
	if err != nil {
		t.Fatalf("topic dispatch: %v", err)
	}
	if _, ok := env.Data.(string); !ok {
		t.Errorf("topic dispatch data is %T", env.Data)
	}
}

// fakeIngestor scripts the document ingestion collaborators.
type fakeIngestor struct {
	indexErr   error
	chunks     string
	extracted  string
	queryCalls int
}

func (f *fakeIngestor) ExtractText(ctx context.Context, filename string, document io.Reader) (string, error) {
	return f.extracted, nil
}

func (f *fakeIngestor) IndexDocument(ctx context.Context, filename string, document io.Reader) (string, error) {
	if f.indexErr != nil {
		return "", f.indexErr
	}
	return "store-123", nil
}

func (f *fakeIngestor) QueryIndex(ctx context.Context, query, storeHandle string) (string, error) {
	f.queryCalls++
	return f.chunks, nil
}

func TestGenerateFromTopic_IndexedDocumentGroundsContent(t *testing.T) {
	ing := &fakeIngestor{chunks: "Relevant extracted chunks about magnets."}
	svc := NewService(generator.NewMockClient(), nil, defaultStore(), ing)

	req := testRequest(false)
	req.ChapterNumber = 0
	req.Topic = "Magnets"
	doc := strings.NewReader("%PDF-1.4 fake document bytes")
	if _, err := svc.GenerateFromTopic(context.Background(), req, doc, "magnets.pdf"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ing.queryCalls != 1 {
		t.Errorf("query calls = %d, want 1", ing.queryCalls)
	}
}

func TestGenerateFromTopic_IndexFailureFallsBackToExtractedText(t *testing.T) {
	ing := &fakeIngestor{indexErr: errors.New("vector store down"), extracted: "Flat text of the document."}
	svc := NewService(generator.NewMockClient(), nil, defaultStore(), ing)

	req := testRequest(false)
	req.ChapterNumber = 0
	req.Topic = "Magnets"
	doc := strings.NewReader("%PDF-1.4 fake document bytes")
	env, err := svc.GenerateFromTopic(context.Background(), req, doc, "magnets.pdf")
	if err != nil {
		t.Fatalf("indexing outage must degrade, not fail: %v", err)
	}
	if env.Status != "success" {
		t.Errorf("status = %q", env.Status)
	}
	if ing.queryCalls != 0 {
		t.Errorf("query calls = %d, want 0 when indexing failed", ing.queryCalls)
	}
}

func TestReviewExisting_ErrorVerdict(t *testing.T) {
	client := &fakeClient{reviewErr: errors.New("model down")}
	svc := NewService(client, nil, defaultStore(), nil)

	verdict := svc.ReviewExisting(context.Background(), "some lesson text", "6", "Science", "english")
	if verdict.QualityScore != 0.0 || !verdict.NeedsRevision {
		t.Errorf("verdict = {%v %v}, want the blocking error verdict", verdict.QualityScore, verdict.NeedsRevision)
	}
}
