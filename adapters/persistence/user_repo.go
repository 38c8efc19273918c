package persistence

import (
	"context"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/financial-frontier/backend/internal/domain/progression"
	"github.com/financial-frontier/backend/internal/domain/user"
	"github.com/financial-frontier/backend/pkg/apperror"
	"github.com/financial-frontier/backend/pkg/logger"
)

const pgUniqueViolation = "23505"

var psqlUser = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type postgresUserRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresUserRepo(db *pgxpool.Pool, logger logger.Logger) user.Repository {
	return &postgresUserRepo{db: db, logger: logger}
}

// CreateWithProgression inserts the profile and the progression record in
// one transaction. The existence check gives re-onboarding attempts a clean
// conflict; the primary key on user_id makes concurrent attempts
// first-writer-wins. Either way a loser observes AlreadyOnboarded and neither
// document can exist without the other.
func (r *postgresUserRepo) CreateWithProgression(ctx context.Context, p *user.Profile, rec *progression.Record) error {
	quizBytes, err := json.Marshal(p.OnboardingStatus)
	if err != nil {
		return apperror.NewInternal("failed to marshal onboarding status", err)
	}
	topicsBytes, err := json.Marshal(rec.Topics)
	if err != nil {
		return apperror.NewInternal("failed to marshal progression topics", err)
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperror.NewInternal("failed to begin onboarding transaction", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM user_profiles WHERE user_id = $1)`, p.UserID).Scan(&exists)
	if err != nil {
		return apperror.NewInternal("failed to check existing profile", err)
	}
	if exists {
		return apperror.NewConflict("User already completed onboarding", p.UserID)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_profiles (user_id, email, explorer_rank, financial_iq, coins, current_sector, onboarding_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.UserID, p.Email, p.ExplorerRank, p.FinancialIQ, p.Coins, p.CurrentSector, quizBytes, p.CreatedAt)
	if err != nil {
		return mapWriteError("failed to insert user profile", p.UserID, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO progressions (user_id, topics, last_updated)
		VALUES ($1, $2, $3)
	`, p.UserID, topicsBytes, rec.LastUpdated)
	if err != nil {
		return mapWriteError("failed to insert progression record", p.UserID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapWriteError("failed to commit onboarding transaction", p.UserID, err)
	}

	r.logger.Info("Created user profile and progression", zap.String("user_id", p.UserID))
	return nil
}

// mapWriteError turns the unique violation a losing concurrent onboarding hits
// into the same conflict the in-transaction guard reports.
func mapWriteError(details, userID string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperror.NewConflict("User already completed onboarding", userID)
	}
	return apperror.NewInternal(details, err)
}

func (r *postgresUserRepo) GetStats(ctx context.Context, userID string) (*user.Stats, error) {
	query, args, err := psqlUser.
		Select("explorer_rank", "financial_iq", "coins", "current_sector").
		From("user_profiles").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build stats query", err)
	}

	s := &user.Stats{}
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&s.ExplorerRank,
		&s.FinancialIQ,
		&s.Coins,
		&s.CurrentSector,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("User profile", userID)
		}
		return nil, apperror.NewInternal("failed to query user stats", err)
	}

	return s, nil
}
