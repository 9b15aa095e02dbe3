package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lessonforge/backend/internal/models"
)

// ErrNotFound means no session exists for the given id.
var ErrNotFound = errors.New("assessment session not found")

// SessionStore persists assessment sessions between turns.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.AssessmentSession, error)
	Put(ctx context.Context, session *models.AssessmentSession) error
	Delete(ctx context.Context, sessionID string) error
}

// PostgresStore keeps each session as a JSONB document keyed by id.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, sessionID string) (*models.AssessmentSession, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM assessment_sessions WHERE session_id = $1`, sessionID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	var session models.AssessmentSession
	if err := json.Unmarshal(doc, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (s *PostgresStore) Put(ctx context.Context, session *models.AssessmentSession) error {
	session.UpdatedAt = time.Now().UTC()

	doc, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.SessionID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO assessment_sessions (session_id, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id)
		DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`,
		session.SessionID, doc, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save session %s: %w", session.SessionID, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM assessment_sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
