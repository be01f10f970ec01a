package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mhollis/cram-api/internal/domain"
	"github.com/mhollis/cram-api/internal/domain/schedule"
	"github.com/mhollis/cram-api/internal/platform/logger"
	"github.com/mhollis/cram-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	cards     store.FlashcardStore
	sets      store.FlashcardSetStore
	scheduler schedule.Service
	timeFunc  func() time.Time // Injectable for testing
	logger    *slog.Logger
}

// NewService creates a new review Service implementation.
func NewService(
	cards store.FlashcardStore,
	sets store.FlashcardSetStore,
	scheduler schedule.Service,
	logger *slog.Logger,
) Service {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if sets == nil {
		panic("sets cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		cards:     cards,
		sets:      sets,
		scheduler: scheduler,
		timeFunc:  func() time.Time { return time.Now().UTC() },
		logger:    logger.With(slog.String("component", "review_service")),
	}
}

// GetNextCard implements Service.GetNextCard.
func (s *serviceImpl) GetNextCard(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving next review card", slog.String("user_id", userID.String()))

	card, err := s.cards.GetNextDue(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			log.Debug("no cards due for review", slog.String("user_id", userID.String()))
			return nil, ErrNoCardsDue
		}

		log.Error("failed to get next review card",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewGetNextCardError("store lookup failed", err)
	}

	log.Debug("successfully retrieved next review card",
		slog.String("user_id", userID.String()),
		slog.String("card_id", card.ID.String()))
	return card, nil
}

// ReviewCard implements Service.ReviewCard.
func (s *serviceImpl) ReviewCard(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
	answer ReviewAnswer,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review rating",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("rating", string(answer.Rating)))

	// Reject bad ratings before touching the store.
	if !domain.IsValidDifficulty(answer.Rating) {
		log.Warn("invalid review rating",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("rating", string(answer.Rating)))
		return nil, ErrInvalidRating
	}

	card, err := s.ownedCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	updated, err := s.scheduler.CalculateNextReview(card, answer.Rating, s.timeFunc())
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidRating) {
			return nil, ErrInvalidRating
		}
		log.Error("failed to calculate next review",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewReviewCardError("scheduling failed", err)
	}

	if err := s.cards.SaveReview(ctx, updated); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		log.Error("failed to save review state",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewReviewCardError("saving review state failed", err)
	}

	log.Debug("successfully processed review rating",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("rating", string(answer.Rating)),
		slog.Int("repetitions", updated.Repetitions),
		slog.Time("next_review", *updated.NextReview))

	return updated, nil
}

// PostponeCard implements Service.PostponeCard.
func (s *serviceImpl) PostponeCard(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
	days int,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.ownedCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	updated, err := s.scheduler.PostponeReview(card, days, s.timeFunc())
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidDays):
			return nil, ErrInvalidPostponeDays
		case errors.Is(err, schedule.ErrCardNotScheduled):
			return nil, ErrCardNotScheduled
		}
		log.Error("failed to postpone review",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewPostponeCardError("scheduling failed", err)
	}

	if err := s.cards.SaveReview(ctx, updated); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, NewPostponeCardError("saving review state failed", err)
	}

	log.Debug("postponed card review",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("days", days),
		slog.Time("next_review", *updated.NextReview))

	return updated, nil
}

// ownedCard loads a card and verifies the requesting user owns it through
// the card's set.
func (s *serviceImpl) ownedCard(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			log.Warn("card not found for review",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	set, err := s.sets.GetByID(ctx, card.SetID)
	if err != nil {
		if errors.Is(err, store.ErrSetNotFound) {
			// A card whose set vanished is unreachable for its owner too.
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card's set: %w", err)
	}

	if set.UserID != userID {
		log.Warn("user does not own card",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("owner_id", set.UserID.String()))
		return nil, ErrCardNotOwned
	}

	return card, nil
}
