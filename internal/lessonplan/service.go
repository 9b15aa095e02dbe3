package lessonplan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/lessonforge/backend/internal/content"
	"github.com/lessonforge/backend/internal/generator"
	"github.com/lessonforge/backend/internal/models"
)

// ErrInvalidDetails is returned when the request names a language or a
// chapter the backend does not serve. Handlers translate it into the
// fixed fallback message instead of invoking the pipeline.
var ErrInvalidDetails = errors.New("invalid request details")

// Service wires the content store, document ingestion, and the
// generation pipeline behind the lesson-plan endpoints.
type Service struct {
	pipeline *Pipeline
	reviewer *Reviewer
	contents content.Store
	ingestor content.Ingestor
}

func NewService(llm generator.Client, finder ResourceFinder, contents content.Store, ingestor content.Ingestor) *Service {
	return &Service{
		pipeline: NewPipeline(llm, finder),
		reviewer: NewReviewer(llm),
		contents: contents,
		ingestor: ingestor,
	}
}

// Generate dispatches on the request's content source: chapter-backed,
// uploaded-document, or bare topic.
func (s *Service) Generate(ctx context.Context, req models.LessonRequest, document io.Reader, filename string) (*models.Envelope, error) {
	switch req.Source() {
	case models.SourceChapter:
		return s.GenerateFromChapter(ctx, req)
	default:
		return s.GenerateFromTopic(ctx, req, document, filename)
	}
}

// GenerateFromChapter resolves the chapter name and content from the
// curriculum store and runs the pipeline over it.
func (s *Service) GenerateFromChapter(ctx context.Context, req models.LessonRequest) (*models.Envelope, error) {
	if !validLanguage(req.Language) {
		return nil, ErrInvalidDetails
	}

	chapters, err := s.contents.ChapterCatalog(ctx, req.Board, req.Grade, req.Subject)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrInvalidDetails
		}
		return nil, fmt.Errorf("chapter catalog: %w", err)
	}

	chapterName, ok := content.ChapterNameFromCatalog(chapters, req.ChapterNumber)
	if !ok {
		return nil, ErrInvalidDetails
	}

	source, err := s.contents.ChapterContent(ctx, req.Board, req.Grade, req.Subject, req.ChapterNumber)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrInvalidDetails
		}
		return nil, fmt.Errorf("chapter content: %w", err)
	}

	return s.run(ctx, req, chapterName, source.Text())
}

// GenerateFromTopic runs the pipeline for a free topic, optionally
// grounded in an uploaded document via the ingestion index. With no
// document and no prior handle the model relies on its own knowledge.
func (s *Service) GenerateFromTopic(ctx context.Context, req models.LessonRequest, document io.Reader, filename string) (*models.Envelope, error) {
	if !validLanguage(req.Language) || req.Topic == "" {
		return nil, ErrInvalidDetails
	}

	sourceText := ""
	handle := req.DocumentHandle

	var raw []byte
	if document != nil && s.ingestor != nil {
		var err error
		raw, err = io.ReadAll(document)
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}

		h, err := s.ingestor.IndexDocument(ctx, filename, bytes.NewReader(raw))
		if err != nil {
			log.Printf("WARNING: document indexing failed, using extracted text: %v", err)
		} else {
			handle = h
		}
	}

	if handle != "" && s.ingestor != nil {
		chunks, err := s.ingestor.QueryIndex(ctx, req.Topic, handle)
		if err != nil {
			log.Printf("WARNING: index query failed: %v", err)
		} else {
			sourceText = chunks
		}
	}

	// Indexing unavailable but a document was uploaded: fall back to the
	// flat extracted text so the upload still grounds the lesson plan.
	if sourceText == "" && len(raw) > 0 {
		text, err := s.ingestor.ExtractText(ctx, filename, bytes.NewReader(raw))
		if err != nil {
			log.Printf("WARNING: text extraction failed, falling back to model knowledge: %v", err)
		} else {
			sourceText = text
		}
	}

	if sourceText == "" {
		sourceText = content.SourceContent{Fallback: true}.Text()
	}
	return s.run(ctx, req, req.Topic, sourceText)
}

func (s *Service) run(ctx context.Context, req models.LessonRequest, chapterName, sourceText string) (*models.Envelope, error) {
	st := NewPipelineState(req, chapterName, sourceText)

	if err := s.pipeline.Run(ctx, st); err != nil {
		log.Printf("WARNING: pipeline run failed: %v", err)
		return &models.Envelope{
			Status:  "success",
			Message: "Lesson plan generation failed",
			Data:    map[string]string{"error": err.Error()},
		}, nil
	}

	return &models.Envelope{
		Status:     "success",
		Message:    "Lesson plans generated successfully",
		Data:       st.ArtifactData(),
		ReviewData: st.ReviewData(),
	}, nil
}

// ReviewExisting scores a caller-supplied artifact outside a generation
// run. A failed review call degrades to the error verdict rather than a
// transport error.
func (s *Service) ReviewExisting(ctx context.Context, artifact interface{}, grade, subject, language string) models.ReviewVerdict {
	verdict, err := s.reviewer.Review(ctx, artifact, grade, subject, language)
	if err != nil {
		log.Printf("WARNING: direct review failed: %v", err)
		return ReviewErrorVerdict()
	}
	return *verdict
}

func validLanguage(language string) bool {
	return models.AllowedLanguages[strings.ToLower(strings.TrimSpace(language))]
}
