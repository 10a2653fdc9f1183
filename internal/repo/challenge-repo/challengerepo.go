package challengerepo

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

const challengeColumns = `id, creator_id, opponent_id, game, bet_amount, status, creator_score, opponent_score, expires_at, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanChallenge(row scanner) (*domain.Challenge, error) {
	var c domain.Challenge
	err := row.Scan(&c.ID, &c.CreatorID, &c.OpponentID, &c.Game, &c.BetAmount, &c.Status,
		&c.CreatorScore, &c.OpponentScore, &c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) Create(ctx context.Context, challenge *domain.Challenge) (*domain.Challenge, error) {
	query := `
		INSERT INTO challenges (creator_id, game, bet_amount, status, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, challenge.CreatorID, challenge.Game, challenge.BetAmount, challenge.Status,
		challenge.ExpiresAt).Scan(&challenge.ID, &challenge.CreatedAt, &challenge.UpdatedAt)
	if err != nil {
		zap.L().Error("can't save challenge", zap.Error(err))
		return nil, err
	}
	return challenge, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*domain.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`
	challenge, err := scanChallenge(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find challenge", zap.Int("challengeID", id), zap.Error(err))
		return nil, err
	}
	return challenge, nil
}

// GetByIDForUpdate locks the challenge row so that concurrent state changes
// are applied one after another.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int) (*domain.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1 FOR UPDATE`
	challenge, err := scanChallenge(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't lock challenge", zap.Int("challengeID", id), zap.Error(err))
		return nil, err
	}
	return challenge, nil
}

func (r *Repository) Update(ctx context.Context, challenge *domain.Challenge) error {
	query := `
		UPDATE challenges
		SET opponent_id = $1, status = $2, creator_score = $3, opponent_score = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, challenge.OpponentID, challenge.Status, challenge.CreatorScore,
		challenge.OpponentScore, challenge.ID)
	if err != nil {
		zap.L().Error("failed to update challenge", zap.Int("challengeID", challenge.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) List(ctx context.Context, filter domain.ChallengeFilter) ([]domain.Challenge, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != "" {
		conds = append(conds, "status = "+arg(filter.Status))
	}
	if filter.OpenOnly {
		conds = append(conds, "status = 'open'", "(expires_at IS NULL OR expires_at > NOW())")
	}
	if filter.Game != "" {
		conds = append(conds, "game ILIKE "+arg("%"+filter.Game+"%"))
	}
	if filter.UserID != 0 {
		p := arg(filter.UserID)
		conds = append(conds, "(creator_id = "+p+" OR opponent_id = "+p+")")
	}

	query := `SELECT ` + challengeColumns + ` FROM challenges`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("failed to fetch challenges", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var challenges []domain.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			zap.L().Error("failed to scan challenge row", zap.Error(err))
			return nil, err
		}
		challenges = append(challenges, *c)
	}
	return challenges, nil
}
