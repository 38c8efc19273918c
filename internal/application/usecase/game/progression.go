package game

import (
	"context"

	"github.com/financial-frontier/backend/internal/domain/progression"
	"github.com/financial-frontier/backend/pkg/apperror"
)

type ProgressionUseCase struct {
	progressionRepo progression.Repository
}

func NewProgressionUseCase(repo progression.Repository) *ProgressionUseCase {
	return &ProgressionUseCase{progressionRepo: repo}
}

type GetProgressionInput struct {
	UserID string
}

type GetProgressionOutput struct {
	Record *progression.Record
}

func (uc *ProgressionUseCase) ExecuteGetProgression(ctx context.Context, input GetProgressionInput) (*GetProgressionOutput, error) {
	if input.UserID == "" {
		return nil, apperror.NewUnauthorized("user id missing for progression read", nil)
	}

	rec, err := uc.progressionRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	return &GetProgressionOutput{Record: rec}, nil
}
