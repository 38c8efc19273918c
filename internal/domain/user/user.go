package user

import (
	"context"
	"time"

	"github.com/financial-frontier/backend/internal/domain/progression"
)

// QuizResult carries the raw onboarding quiz answers. It is consumed once by
// the onboarding flow and snapshotted on the profile; it is never read back
// for decision-making after that.
type QuizResult struct {
	FinancialTendency string   `json:"financialTendency"`
	Weaknesses        []string `json:"weaknesses"`
	PrimaryGoal       string   `json:"primaryGoal"`
}

// Profile is the per-user game profile. UserID is the identity-provider
// subject and the document key; a profile is created exactly once, during
// onboarding, together with its progression record.
type Profile struct {
	UserID           string     `json:"userId"`
	Email            string     `json:"email"`
	ExplorerRank     string     `json:"explorerRank"`
	FinancialIQ      int        `json:"financialIQ"`
	Coins            int        `json:"coins"`
	CurrentSector    string     `json:"currentSector"`
	OnboardingStatus QuizResult `json:"onboardingStatus"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// Stats is the dashboard projection of a profile.
type Stats struct {
	ExplorerRank  string `json:"explorerRank"`
	FinancialIQ   int    `json:"financialIQ"`
	Coins         int    `json:"coins"`
	CurrentSector string `json:"currentSector"`
}

func (p *Profile) Stats() Stats {
	return Stats{
		ExplorerRank:  p.ExplorerRank,
		FinancialIQ:   p.FinancialIQ,
		Coins:         p.Coins,
		CurrentSector: p.CurrentSector,
	}
}

type Repository interface {
	// CreateWithProgression writes the profile and its progression record in
	// one transaction. It returns apperror.ErrConflict (wrapped) when a
	// profile already exists for the user; in that case nothing is written.
	CreateWithProgression(ctx context.Context, profile *Profile, record *progression.Record) error

	// GetStats returns apperror.ErrNotFound (wrapped) when the user has not
	// onboarded.
	GetStats(ctx context.Context, userID string) (*Stats, error)
}
