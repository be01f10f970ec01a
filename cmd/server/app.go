package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mhollis/cram-api/internal/config"
	"github.com/mhollis/cram-api/internal/domain/schedule"
	"github.com/mhollis/cram-api/internal/platform/memory"
	"github.com/mhollis/cram-api/internal/platform/postgres"
	"github.com/mhollis/cram-api/internal/service/auth"
	"github.com/mhollis/cram-api/internal/service/review"
	"github.com/mhollis/cram-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when the in-memory backend is selected.
	db *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore     store.UserStore
	documentStore store.DocumentStore
	noteStore     store.NoteStore
	setStore      store.FlashcardSetStore
	cardStore     store.FlashcardStore
	quizStore     store.QuizStore
	attemptStore  store.QuizAttemptStore
	chatStore     store.ChatMessageStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	scheduler        schedule.Service
	reviewService    review.Service
}

// newApplication creates a new application instance with all dependencies
// initialized. An empty database URL selects the in-memory backend; a
// configured URL selects PostgreSQL and runs pending migrations.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordHasher = auth.NewBcryptHasher(0)
	app.passwordVerifier = auth.NewBcryptVerifier()

	if cfg.Database.URL == "" {
		app.setupMemoryStores()
		logger.Info("using in-memory storage backend")
	} else {
		if err := app.setupPostgresStores(ctx); err != nil {
			return nil, err
		}
		logger.Info("using PostgreSQL storage backend")
	}

	app.scheduler = schedule.NewDefaultService()
	app.reviewService = review.NewService(app.cardStore, app.setStore, app.scheduler, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupMemoryStores wires the thread-safe in-memory backend.
func (app *application) setupMemoryStores() {
	sets := memory.NewFlashcardSetStore()

	app.userStore = memory.NewUserStore()
	app.documentStore = memory.NewDocumentStore()
	app.noteStore = memory.NewNoteStore()
	app.setStore = sets
	app.cardStore = memory.NewFlashcardStore(sets)
	app.quizStore = memory.NewQuizStore()
	app.attemptStore = memory.NewQuizAttemptStore()
	app.chatStore = memory.NewChatMessageStore()
}

// setupPostgresStores opens the database, runs migrations, and wires the
// PostgreSQL backend.
func (app *application) setupPostgresStores(ctx context.Context) error {
	db, err := setupAppDatabase(ctx, app.config, app.logger)
	if err != nil {
		return err
	}
	app.db = db

	if err := runMigrations(db, app.logger); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	app.userStore = postgres.NewUserStore(db, app.logger)
	app.documentStore = postgres.NewDocumentStore(db, app.logger)
	app.noteStore = postgres.NewNoteStore(db, app.logger)
	app.setStore = postgres.NewFlashcardSetStore(db, app.logger)
	app.cardStore = postgres.NewFlashcardStore(db, app.logger)
	app.quizStore = postgres.NewQuizStore(db, app.logger)
	app.attemptStore = postgres.NewQuizAttemptStore(db, app.logger)
	app.chatStore = postgres.NewChatMessageStore(db, app.logger)
	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
