package lessonplan

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/lessonforge/backend/internal/models"
)

// InvalidDetailsMessage is the fixed body returned when the request fails
// validation against the curriculum (unknown chapter, unsupported
// language). API consumers match on this exact string.
const InvalidDetailsMessage = "Please Enter Valid Details"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GenerateChapter handles POST /api/v1/lesson-plan.
func (h *Handler) GenerateChapter(w http.ResponseWriter, r *http.Request) {
	var req models.LessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.ChapterNumber <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "chapter_number is required"})
		return
	}
	if !h.validateCommon(w, req) {
		return
	}

	h.respond(w, r, req, nil, "")
}

// GenerateTopic handles POST /api/v1/lesson-plan/topic. The body is
// multipart form data with the request fields plus an optional document.
func (h *Handler) GenerateTopic(w http.ResponseWriter, r *http.Request) {
	req, file, filename, ok := h.parseTopicForm(w, r)
	if !ok {
		return
	}
	if file != nil {
		defer file.Close()
	}

	if req.Topic == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "topic is required"})
		return
	}
	if !h.validateCommon(w, req) {
		return
	}

	if file == nil {
		h.respond(w, r, req, nil, "")
		return
	}
	h.respond(w, r, req, file, filename)
}

// GenerateAuto handles POST /api/v1/lesson-plan/auto: dispatches on
// whichever content source the request carries.
func (h *Handler) GenerateAuto(w http.ResponseWriter, r *http.Request) {
	var req models.LessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.ChapterNumber <= 0 && req.Topic == "" && req.DocumentHandle == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "one of chapter_number, topic or document_handle is required"})
		return
	}
	if !h.validateCommon(w, req) {
		return
	}

	h.respond(w, r, req, nil, "")
}

// ReviewPlan handles POST /api/v1/lesson-plan/review: scores an existing
// artifact without running the generation pipeline.
func (h *Handler) ReviewPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LessonPlan json.RawMessage `json:"lesson_plan"`
		Grade      string          `json:"grade"`
		Subject    string          `json:"subject"`
		Language   string          `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if len(req.LessonPlan) == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "lesson_plan is required"})
		return
	}
	if req.Language == "" {
		req.Language = "english"
	}

	// Decode into a generic value so structured artifacts render as
	// key/value text and plain strings pass through untouched.
	var artifact interface{}
	if err := json.Unmarshal(req.LessonPlan, &artifact); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "lesson_plan must be valid JSON"})
		return
	}

	verdict := h.service.ReviewExisting(r.Context(), artifact, req.Grade, req.Subject, req.Language)
	writeJSON(w, http.StatusOK, models.Envelope{
		Status:  "success",
		Message: "Review completed",
		Data:    verdict,
	})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, req models.LessonRequest, file io.Reader, filename string) {
	env, err := h.service.Generate(r.Context(), req, file, filename)
	if err != nil {
		if errors.Is(err, ErrInvalidDetails) {
			writeJSON(w, http.StatusOK, models.Envelope{
				Status:  "success",
				Message: InvalidDetailsMessage,
				Data:    InvalidDetailsMessage,
			})
			return
		}
		log.Printf("WARNING: lesson plan request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Generation failed: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, env)
}

// validateCommon enforces the field ranges shared by every generation
// endpoint. The language whitelist is checked in the service so the
// fixed fallback message stays in one place.
func (h *Handler) validateCommon(w http.ResponseWriter, req models.LessonRequest) bool {
	if req.Grade == "" || req.Subject == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "grade and subject are required"})
		return false
	}
	if req.LectureCount <= 0 || req.LectureCount > 20 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "number_of_lectures must be between 1 and 20"})
		return false
	}
	if req.LectureDuration <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "duration_of_lecture must be positive"})
		return false
	}
	return true
}

func (h *Handler) parseTopicForm(w http.ResponseWriter, r *http.Request) (models.LessonRequest, multipart.File, string, bool) {
	const maxUpload = 32 << 20
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid multipart form"})
		return models.LessonRequest{}, nil, "", false
	}

	req := models.LessonRequest{
		Board:            r.FormValue("board"),
		Grade:            r.FormValue("grade"),
		Subject:          r.FormValue("subject"),
		Topic:            r.FormValue("topic"),
		DocumentHandle:   r.FormValue("document_handle"),
		LectureCount:     formInt(r, "number_of_lectures", 0),
		LectureDuration:  formInt(r, "duration_of_lecture", 0),
		ClassStrength:    formInt(r, "class_strength", 0),
		Language:         r.FormValue("language"),
		Quiz:             formBool(r, "quiz"),
		Assignment:       formBool(r, "assignment"),
		StructuredOutput: formBool(r, "structured_output"),
	}

	part, header, err := r.FormFile("document")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return req, nil, "", true
		}
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid document upload"})
		return models.LessonRequest{}, nil, "", false
	}
	return req, part, header.Filename, true
}

func formInt(r *http.Request, key string, defaultVal int) int {
	s := r.FormValue(key)
	if s == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return n
}

func formBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.FormValue(key))
	return err == nil && v
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
