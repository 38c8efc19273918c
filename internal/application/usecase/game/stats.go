package game

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/financial-frontier/backend/internal/domain/user"
	"github.com/financial-frontier/backend/pkg/apperror"
	"github.com/financial-frontier/backend/pkg/logger"
)

const statsCachePrefix = "stats:"

// StatsCache is the read-through cache in front of the profile store. Cache
// errors are treated as misses; the store stays authoritative.
type StatsCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type StatsUseCase struct {
	userRepo user.Repository
	cache    StatsCache
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewStatsUseCase(repo user.Repository, cache StatsCache, cacheTTL time.Duration, log logger.Logger) *StatsUseCase {
	return &StatsUseCase{
		userRepo: repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

type GetStatsInput struct {
	UserID string
}

type GetStatsOutput struct {
	Stats *user.Stats
}

func (uc *StatsUseCase) ExecuteGetStats(ctx context.Context, input GetStatsInput) (*GetStatsOutput, error) {
	if input.UserID == "" {
		return nil, apperror.NewUnauthorized("user id missing for stats read", nil)
	}

	if s, ok := uc.fromCache(ctx, input.UserID); ok {
		return &GetStatsOutput{Stats: s}, nil
	}

	s, err := uc.userRepo.GetStats(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	uc.fillCache(ctx, input.UserID, s)
	return &GetStatsOutput{Stats: s}, nil
}

// WarmStats pre-fills the cache for a user. The worker calls this when it
// sees an onboarded event so the first dashboard load is a cache hit.
func (uc *StatsUseCase) WarmStats(ctx context.Context, userID string) error {
	s, err := uc.userRepo.GetStats(ctx, userID)
	if err != nil {
		return err
	}
	uc.fillCache(ctx, userID, s)
	return nil
}

func (uc *StatsUseCase) fromCache(ctx context.Context, userID string) (*user.Stats, bool) {
	if uc.cache == nil {
		return nil, false
	}

	raw, err := uc.cache.Get(ctx, statsCachePrefix+userID).Bytes()
	if err != nil {
		return nil, false
	}

	s := &user.Stats{}
	if err := json.Unmarshal(raw, s); err != nil {
		uc.logger.Warn("Failed to unmarshal cached stats", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}
	return s, true
}

func (uc *StatsUseCase) fillCache(ctx context.Context, userID string, s *user.Stats) {
	if uc.cache == nil {
		return
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, statsCachePrefix+userID, raw, uc.cacheTTL).Err(); err != nil {
		uc.logger.Warn("Failed to cache stats", zap.String("user_id", userID), zap.Error(err))
	}
}
