package persistence

import (
	"context"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/financial-frontier/backend/internal/domain/progression"
	"github.com/financial-frontier/backend/pkg/apperror"
	"github.com/financial-frontier/backend/pkg/logger"
)

var psqlProgression = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type postgresProgressionRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProgressionRepo(db *pgxpool.Pool, logger logger.Logger) progression.Repository {
	return &postgresProgressionRepo{db: db, logger: logger}
}

func (r *postgresProgressionRepo) GetByUserID(ctx context.Context, userID string) (*progression.Record, error) {
	query, args, err := psqlProgression.
		Select("topics", "last_updated").
		From("progressions").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build progression query", err)
	}

	rec := &progression.Record{}
	var topicsBytes []byte

	err = r.db.QueryRow(ctx, query, args...).Scan(&topicsBytes, &rec.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("Progression record", userID)
		}
		return nil, apperror.NewInternal("failed to query progression record", err)
	}

	if err := json.Unmarshal(topicsBytes, &rec.Topics); err != nil {
		return nil, apperror.NewInternal("failed to unmarshal progression topics", err)
	}

	return rec, nil
}
