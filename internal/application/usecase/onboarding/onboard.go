package onboarding

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/financial-frontier/backend/adapters/event"
	"github.com/financial-frontier/backend/internal/application/service"
	"github.com/financial-frontier/backend/internal/domain/progression"
	"github.com/financial-frontier/backend/internal/domain/topic"
	"github.com/financial-frontier/backend/internal/domain/user"
	"github.com/financial-frontier/backend/pkg/apperror"
	"github.com/financial-frontier/backend/pkg/logger"
)

const (
	StartingRank  = "Novice Explorer"
	startingIQ    = 100
	startingCoins = 50
)

// EventPublisher is the slice of the kafka producer the orchestrator needs.
type EventPublisher interface {
	PublishUserEvent(ctx context.Context, payload event.UserEventPayload) error
}

type OnboardUseCase struct {
	userRepo  user.Repository
	ranking   service.RankingService
	publisher EventPublisher
	logger    logger.Logger
}

func NewOnboardUseCase(repo user.Repository, ranking service.RankingService, publisher EventPublisher, log logger.Logger) *OnboardUseCase {
	return &OnboardUseCase{
		userRepo:  repo,
		ranking:   ranking,
		publisher: publisher,
		logger:    log,
	}
}

type OnboardInput struct {
	UserID string
	Email  string
	Quiz   user.QuizResult
}

type OnboardOutput struct {
	UserID         string
	StartingRank   string
	StartingSector string
}

var tracer = otel.Tracer("onboarding_usecase")

// Execute runs the single-pass onboarding flow: identity check, topic
// ranking, path composition, then the atomic dual write. Failure paths write
// nothing; the only side effects of a success are the two documents and a
// best-effort onboarded event.
func (uc *OnboardUseCase) Execute(ctx context.Context, input OnboardInput) (*OnboardOutput, error) {
	ctx, span := tracer.Start(ctx, "Execute")
	defer span.End()

	if input.UserID == "" {
		err := apperror.NewUnauthorized("user id missing for onboarding", nil)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("user_id", input.UserID))

	ranked := uc.rankWithFallback(ctx, input.Quiz)
	startingSector := ranked[0]

	now := time.Now().UTC()
	profile := &user.Profile{
		UserID:           input.UserID,
		Email:            strings.ToLower(input.Email),
		ExplorerRank:     StartingRank,
		FinancialIQ:      startingIQ,
		Coins:            startingCoins,
		CurrentSector:    startingSector,
		OnboardingStatus: input.Quiz,
		CreatedAt:        now,
	}
	record := &progression.Record{
		Topics:      progression.ComposeInitial(ranked),
		LastUpdated: now,
	}

	if err := uc.userRepo.CreateWithProgression(ctx, profile, record); err != nil {
		span.RecordError(err)
		return nil, err
	}

	go uc.publishOnboarded(input.UserID, startingSector)

	return &OnboardOutput{
		UserID:         input.UserID,
		StartingRank:   StartingRank,
		StartingSector: startingSector,
	}, nil
}

// rankWithFallback always yields a full permutation of the catalog. Oracle
// failures degrade to the default order and are logged, never surfaced.
func (uc *OnboardUseCase) rankWithFallback(ctx context.Context, quiz user.QuizResult) []string {
	ranked, err := uc.ranking.RankTopics(ctx, quiz)
	if err != nil {
		uc.logger.Warn("Ranking oracle unavailable, using default learning path", zap.Error(err))
		return topic.DefaultOrder()
	}
	return topic.SanitizeRanking(ranked)
}

func (uc *OnboardUseCase) publishOnboarded(userID, startingSector string) {
	payload := event.UserEventPayload{
		EventID:        uuid.NewString(),
		EventType:      event.UserEventTypeOnboarded,
		UserID:         userID,
		StartingSector: startingSector,
		OccurredAt:     time.Now().UTC(),
	}
	if err := uc.publisher.PublishUserEvent(context.Background(), payload); err != nil {
		uc.logger.Error("Failed to publish 'user.onboarded' event", err, zap.String("user_id", userID))
	}
}
