package service

import (
	"context"
	"errors"

	"github.com/financial-frontier/backend/internal/domain/user"
)

// ErrRankingUnavailable is returned by RankingService implementations for any
// transport error, timeout or malformed oracle response. Callers substitute
// the default topic order; the failure never reaches the end user.
var ErrRankingUnavailable = errors.New("ranking service unavailable")

type RankingService interface {
	// RankTopics asks the oracle to order the catalog topics by priority for
	// the given quiz answers, most critical first.
	RankTopics(ctx context.Context, quiz user.QuizResult) ([]string, error)
}
