package http

import (
	"time"

	"github.com/financial-frontier/backend/internal/domain/progression"
	"github.com/financial-frontier/backend/internal/domain/user"
)

// Onboarding DTOs
type QuizResultDTO struct {
	FinancialTendency string   `json:"financialTendency" binding:"required"`
	Weaknesses        []string `json:"weaknesses"`
	PrimaryGoal       string   `json:"primaryGoal" binding:"required"`
}

type OnboardingRequest struct {
	QuizResults QuizResultDTO `json:"quizResults" binding:"required"`
	Email       string        `json:"email" binding:"required"`
}

func (req *OnboardingRequest) ToDomainQuiz() user.QuizResult {
	weaknesses := req.QuizResults.Weaknesses
	if weaknesses == nil {
		weaknesses = []string{}
	}
	return user.QuizResult{
		FinancialTendency: req.QuizResults.FinancialTendency,
		Weaknesses:        weaknesses,
		PrimaryGoal:       req.QuizResults.PrimaryGoal,
	}
}

type OnboardingResponse struct {
	Message        string `json:"message"`
	UserID         string `json:"userId"`
	StartingRank   string `json:"startingRank"`
	StartingSector string `json:"startingSector"`
}

// Game DTOs
type StatsDTO struct {
	ExplorerRank  string `json:"explorerRank"`
	FinancialIQ   int    `json:"financialIQ"`
	Coins         int    `json:"coins"`
	CurrentSector string `json:"currentSector"`
}

func ToStatsDTO(s *user.Stats) StatsDTO {
	return StatsDTO{
		ExplorerRank:  s.ExplorerRank,
		FinancialIQ:   s.FinancialIQ,
		Coins:         s.Coins,
		CurrentSector: s.CurrentSector,
	}
}

type WaypointDTO struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type ProgressionEntryDTO struct {
	TopicID    string        `json:"topicId"`
	TopicTitle string        `json:"topicTitle"`
	IsUnlocked bool          `json:"isUnlocked"`
	Waypoints  []WaypointDTO `json:"waypoints"`
}

type ProgressionDTO struct {
	Topics      []ProgressionEntryDTO `json:"topics"`
	LastUpdated time.Time             `json:"lastUpdated"`
}

func ToProgressionDTO(rec *progression.Record) ProgressionDTO {
	dto := ProgressionDTO{
		Topics:      make([]ProgressionEntryDTO, len(rec.Topics)),
		LastUpdated: rec.LastUpdated,
	}
	for i, e := range rec.Topics {
		waypoints := make([]WaypointDTO, len(e.Waypoints))
		for j, w := range e.Waypoints {
			waypoints[j] = WaypointDTO{
				ID:        w.ID,
				Kind:      w.Kind,
				Title:     w.Title,
				Completed: w.Completed,
			}
		}
		dto.Topics[i] = ProgressionEntryDTO{
			TopicID:    e.TopicID,
			TopicTitle: e.TopicTitle,
			IsUnlocked: e.IsUnlocked,
			Waypoints:  waypoints,
		}
	}
	return dto
}
