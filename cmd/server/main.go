package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/lessonforge/backend/internal/assessment"
	"github.com/lessonforge/backend/internal/content"
	"github.com/lessonforge/backend/internal/database"
	"github.com/lessonforge/backend/internal/generator"
	"github.com/lessonforge/backend/internal/lessonplan"
	"github.com/lessonforge/backend/internal/resources"
)

func main() {
	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize clients
	llm := generator.NewClient()
	contents := content.NewHTTPStore()
	ingestor := content.NewHTTPIngestor()
	finder := resources.NewFinder()

	// Initialize services and handlers
	lessonService := lessonplan.NewService(llm, finder, contents, ingestor)
	lessonHandler := lessonplan.NewHandler(lessonService)

	sessions := assessment.NewPostgresStore(db)
	workflow := assessment.NewWorkflow(llm, sessions, contents)
	assessmentHandler := assessment.NewHandler(workflow)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/lesson-plan", lessonHandler.GenerateChapter).Methods("POST")
	api.HandleFunc("/lesson-plan/topic", lessonHandler.GenerateTopic).Methods("POST")
	api.HandleFunc("/lesson-plan/auto", lessonHandler.GenerateAuto).Methods("POST")
	api.HandleFunc("/lesson-plan/review", lessonHandler.ReviewPlan).Methods("POST")

	api.HandleFunc("/student/assessment", assessmentHandler.Start).Methods("POST")
	api.HandleFunc("/student/assessment/continue", assessmentHandler.Continue).Methods("POST")
	api.HandleFunc("/student/assessment/{id}/status", assessmentHandler.Status).Methods("GET")
	api.HandleFunc("/student/assessment/{id}", assessmentHandler.Delete).Methods("DELETE")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
