package outboxrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/internal/pg"
	"github.com/GlebRadaev/betstream/pkg/contracts/events"
)

type Repository struct {
	db    pg.Database
	newID func() uuid.UUID
	now   func() time.Time
}

func New(db pg.Database) *Repository {
	return &Repository{
		db:    db,
		newID: uuid.New,
		now:   time.Now,
	}
}

// Add stores the event in the current unit of work. It is published after
// the transaction commits.
func (r *Repository) Add(ctx context.Context, topic string, event events.LedgerEvent) error {
	if event.TsUnixMs == 0 {
		event.TsUnixMs = r.now().UnixMilli()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	query := `
		INSERT INTO outbox_events (event_id, topic, event_key, payload)
		VALUES ($1, $2, $3, $4)
	`
	_, err = r.db.Exec(ctx, query, r.newID().String(), topic, event.Key(), payload)
	if err != nil {
		zap.L().Error("can't save outbox event", zap.String("topic", topic), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindUnsent(ctx context.Context, limit uint32) ([]domain.OutboxEvent, error) {
	query := `
        SELECT id, event_id, topic, event_key, payload, created_at
        FROM outbox_events
        WHERE sent_at IS NULL
        ORDER BY id ASC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, int(limit))
	if err != nil {
		zap.L().Error("can't get unsent outbox events", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.OutboxEvent
	for rows.Next() {
		var e domain.OutboxEvent
		if err := rows.Scan(&e.ID, &e.EventID, &e.Topic, &e.Key, &e.Payload, &e.CreatedAt); err != nil {
			zap.L().Error("can't scan outbox event row", zap.Error(err))
			return nil, err
		}
		result = append(result, e)
	}
	return result, nil
}

func (r *Repository) MarkSent(ctx context.Context, id int64) error {
	query := `
        UPDATE outbox_events
        SET sent_at = NOW()
        WHERE id = $1
    `
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		zap.L().Error("failed to mark outbox event sent", zap.Int64("eventID", id), zap.Error(err))
		return err
	}
	return nil
}
