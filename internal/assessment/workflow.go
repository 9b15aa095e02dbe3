package assessment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lessonforge/backend/internal/content"
	"github.com/lessonforge/backend/internal/generator"
	"github.com/lessonforge/backend/internal/models"
)

// ErrInvalidDetails is returned when the start request names an
// unsupported language.
var ErrInvalidDetails = errors.New("invalid request details")

// Workflow drives conversational student assessments: session bootstrap,
// turn processing, profile extraction, and the personalized plan.
type Workflow struct {
	llm      generator.Client
	store    SessionStore
	contents content.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewWorkflow(llm generator.Client, store SessionStore, contents content.Store) *Workflow {
	return &Workflow{
		llm:      llm,
		store:    store,
		contents: contents,
		locks:    make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing turns for one session.
// Concurrent turns on the same id would otherwise race the
// read-modify-write cycle against the store.
func (wf *Workflow) sessionLock(sessionID string) *sync.Mutex {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	l, ok := wf.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		wf.locks[sessionID] = l
	}
	return l
}

func (wf *Workflow) releaseLock(sessionID string) {
	wf.mu.Lock()
	delete(wf.locks, sessionID)
	wf.mu.Unlock()
}

// Start creates a session: captures the chapter content snapshot (or the
// AI-knowledge fallback when the store has nothing) and persists it.
func (wf *Workflow) Start(ctx context.Context, req models.StartAssessmentRequest) (*models.AssessmentSession, error) {
	if !models.AllowedLanguages[strings.ToLower(strings.TrimSpace(req.Language))] {
		return nil, ErrInvalidDetails
	}

	snapshot := models.ContentSnapshot{
		Board:           req.Board,
		Grade:           req.Grade,
		Subject:         req.Subject,
		ChapterNumber:   req.ChapterNumber,
		Language:        req.Language,
		LectureCount:    req.LectureCount,
		LectureDuration: req.LectureDuration,
		ContextType:     "ai_knowledge",
	}

	if wf.contents != nil && req.ChapterNumber > 0 {
		wf.fillSnapshot(ctx, &snapshot, req)
	}
	if snapshot.ChapterName == "" {
		snapshot.ChapterName = fmt.Sprintf("Chapter %d", req.ChapterNumber)
	}

	session := &models.AssessmentSession{
		SessionID: uuid.NewString(),
		Content:   snapshot,
		Profile:   models.UnknownProfile(),
		CreatedAt: time.Now().UTC(),
	}
	if err := wf.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// fillSnapshot copies chapter material into the snapshot. Missing
// content degrades to the AI-knowledge fallback; only the session store
// is load-bearing at bootstrap.
func (wf *Workflow) fillSnapshot(ctx context.Context, snapshot *models.ContentSnapshot, req models.StartAssessmentRequest) {
	chapters, err := wf.contents.ChapterCatalog(ctx, req.Board, req.Grade, req.Subject)
	if err == nil {
		if name, ok := content.ChapterNameFromCatalog(chapters, req.ChapterNumber); ok {
			snapshot.ChapterName = name
		}
	} else if !errors.Is(err, content.ErrNotFound) {
		log.Printf("WARNING: chapter catalog lookup failed: %v", err)
	}

	source, err := wf.contents.ChapterContent(ctx, req.Board, req.Grade, req.Subject, req.ChapterNumber)
	if err != nil {
		if !errors.Is(err, content.ErrNotFound) {
			log.Printf("WARNING: chapter content lookup failed: %v", err)
		}
		return
	}

	for i, rec := range source.Records {
		if i == maxExcerpts {
			break
		}
		snapshot.Excerpts = append(snapshot.Excerpts, models.ContentExcerpt{
			Title:   rec.Title,
			Content: rec.Content,
		})
	}
	snapshot.Summary = source.Summary
	if len(snapshot.Excerpts) > 0 {
		snapshot.ContextType = "chapter"
	}
}

// Turn processes one client message: bootstrap on first contact, model
// reply, profile refresh, and the completion check. Turns on the same
// session serialize.
func (wf *Workflow) Turn(ctx context.Context, sessionID, message string) (*models.TurnResult, error) {
	lock := wf.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := wf.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.IsComplete {
		return &models.TurnResult{
			Response:           "This assessment is already complete.",
			AssessmentComplete: true,
			HasLessonPlan:      session.LessonPlan != nil,
			Profile:            &session.Profile,
			LessonPlan:         session.LessonPlan,
		}, nil
	}

	if len(session.Transcript) == 0 {
		session.Transcript = append(session.Transcript,
			models.TranscriptTurn{Role: models.RoleSystem, Content: buildSystemInstruction(session.Content)},
			models.TranscriptTurn{Role: models.RoleUser, Content: assessmentOpening},
		)
	}
	session.Transcript = append(session.Transcript,
		models.TranscriptTurn{Role: models.RoleUser, Content: message})

	reply, err := wf.llm.CompleteChat(ctx, toMessages(session.Transcript))
	if err != nil {
		session.Error = &models.SessionError{StatusCode: 502, Detail: err.Error()}
		if putErr := wf.store.Put(ctx, session); putErr != nil {
			log.Printf("WARNING: persist session %s after model failure: %v", sessionID, putErr)
		}
		return nil, fmt.Errorf("assessment turn: %w", err)
	}
	session.Error = nil
	session.Transcript = append(session.Transcript,
		models.TranscriptTurn{Role: models.RoleAssistant, Content: reply})

	transcript := renderTranscript(session.Transcript)
	session.Profile = extractProfile(ctx, wf.llm, transcript)

	if assessmentComplete(session.Profile, transcript) {
		session.IsComplete = true
		if session.LessonPlan == nil {
			session.LessonPlan = generatePlan(ctx, wf.llm, session)
		}
	}

	if err := wf.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session %s: %w", sessionID, err)
	}

	result := &models.TurnResult{
		Response:           reply,
		AssessmentComplete: session.IsComplete,
		HasLessonPlan:      session.LessonPlan != nil,
	}
	if session.IsComplete {
		result.Profile = &session.Profile
		result.LessonPlan = session.LessonPlan
	}
	return result, nil
}

// Status returns the persisted session.
func (wf *Workflow) Status(ctx context.Context, sessionID string) (*models.AssessmentSession, error) {
	return wf.store.Get(ctx, sessionID)
}

// End deletes the session and drops its turn lock.
func (wf *Workflow) End(ctx context.Context, sessionID string) error {
	if err := wf.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	wf.releaseLock(sessionID)
	return nil
}

func toMessages(turns []models.TranscriptTurn) []generator.Message {
	msgs := make([]generator.Message, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, generator.Message{Role: t.Role, Content: t.Content})
	}
	return msgs
}
