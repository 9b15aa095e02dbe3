package assessment

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lessonforge/backend/internal/models"
)

type Handler struct {
	workflow *Workflow
}

func NewHandler(workflow *Workflow) *Handler {
	return &Handler{workflow: workflow}
}

// Start handles POST /api/v1/student/assessment.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Grade == "" || req.Subject == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "grade and subject are required"})
		return
	}

	session, err := h.workflow.Start(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidDetails) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Unsupported language"})
			return
		}
		log.Printf("WARNING: start assessment failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Could not start assessment"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id":   session.SessionID,
		"chapter_name": session.Content.ChapterName,
		"context_type": session.Content.ContextType,
	})
}

// Continue handles POST /api/v1/student/assessment/continue.
func (h *Handler) Continue(w http.ResponseWriter, r *http.Request) {
	var req models.ContinueAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.SessionID == "" || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "session_id and message are required"})
		return
	}

	result, err := h.workflow.Turn(r.Context(), req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
			return
		}
		log.Printf("WARNING: assessment turn failed: %v", err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Assessment turn failed"})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Status handles GET /api/v1/student/assessment/{id}/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := h.workflow.Status(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
			return
		}
		log.Printf("WARNING: assessment status failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Could not load session"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":          session.SessionID,
		"assessment_complete": session.IsComplete,
		"has_lesson_plan":     session.LessonPlan != nil,
		"turns":               len(session.Transcript),
		"profile":             session.Profile,
		"created_at":          session.CreatedAt,
		"updated_at":          session.UpdatedAt,
	})
}

// Delete handles DELETE /api/v1/student/assessment/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := h.workflow.End(r.Context(), sessionID); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
			return
		}
		log.Printf("WARNING: delete session failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Could not delete session"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
