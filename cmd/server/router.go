package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/mhollis/cram-api/internal/api"
	apiMiddleware "github.com/mhollis/cram-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(cors.New(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}).Handler)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.passwordVerifier,
		app.config.Auth,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	documentHandler := api.NewDocumentHandler(app.documentStore, app.logger)
	noteHandler := api.NewNoteHandler(app.noteStore, app.logger)
	flashcardHandler := api.NewFlashcardHandler(app.setStore, app.cardStore, app.reviewService, app.logger)
	quizHandler := api.NewQuizHandler(app.quizStore, app.attemptStore, app.logger)
	chatHandler := api.NewChatHandler(app.chatStore, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Shared flashcard sets are readable without authentication.
		r.Get("/shared/flashcard-sets/{publicID}", flashcardHandler.GetSharedSet)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Document endpoints
			r.Post("/documents", documentHandler.Create)
			r.Get("/documents", documentHandler.List)
			r.Get("/documents/{id}", documentHandler.Get)
			r.Patch("/documents/{id}", documentHandler.Update)
			r.Delete("/documents/{id}", documentHandler.Delete)

			// Note endpoints
			r.Post("/notes", noteHandler.Create)
			r.Get("/notes", noteHandler.List)
			r.Get("/notes/{id}", noteHandler.Get)
			r.Patch("/notes/{id}", noteHandler.Update)
			r.Delete("/notes/{id}", noteHandler.Delete)

			// Flashcard set endpoints
			r.Post("/flashcard-sets", flashcardHandler.CreateSet)
			r.Get("/flashcard-sets", flashcardHandler.ListSets)
			r.Get("/flashcard-sets/{id}", flashcardHandler.GetSet)
			r.Patch("/flashcard-sets/{id}", flashcardHandler.UpdateSet)
			r.Delete("/flashcard-sets/{id}", flashcardHandler.DeleteSet)
			r.Post("/flashcard-sets/{id}/cards", flashcardHandler.CreateCard)
			r.Get("/flashcard-sets/{id}/cards", flashcardHandler.ListCards)

			// Flashcard and review endpoints
			r.Get("/flashcards/next", flashcardHandler.GetNextReviewCard)
			r.Get("/flashcards/{id}", flashcardHandler.GetCard)
			r.Patch("/flashcards/{id}", flashcardHandler.UpdateCard)
			r.Delete("/flashcards/{id}", flashcardHandler.DeleteCard)
			r.Post("/flashcards/{id}/review", flashcardHandler.ReviewCard)
			r.Post("/flashcards/{id}/postpone", flashcardHandler.PostponeCard)

			// Quiz endpoints
			r.Post("/quizzes", quizHandler.Create)
			r.Get("/quizzes", quizHandler.List)
			r.Get("/quizzes/{id}", quizHandler.Get)
			r.Patch("/quizzes/{id}", quizHandler.Update)
			r.Delete("/quizzes/{id}", quizHandler.Delete)
			r.Post("/quizzes/{id}/attempts", quizHandler.CreateAttempt)
			r.Get("/quizzes/{id}/attempts", quizHandler.ListAttempts)

			// Chat endpoints
			r.Post("/chat/messages", chatHandler.Create)
			r.Get("/chat/messages", chatHandler.List)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
