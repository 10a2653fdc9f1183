// Package outbox delivers ledger events committed by the workflows to Kafka.
package outbox

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/internal/metrics"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
)

type Repo interface {
	FindUnsent(ctx context.Context, limit uint32) ([]domain.OutboxEvent, error)
	MarkSent(ctx context.Context, id int64) error
}

type Publisher interface {
	Publish(ctx context.Context, event domain.OutboxEvent) error
}

type Relay struct {
	repo           Repo
	publisher      Publisher
	limit          uint32
	workerPool     WorkerPoolI
	updateInterval time.Duration
	inFlight       sync.Map
	sleep          func(time.Duration)
}

func New(repo Repo, publisher Publisher, interval time.Duration, batch uint32, workers int) *Relay {
	return &Relay{
		repo:           repo,
		publisher:      publisher,
		limit:          batch,
		workerPool:     NewWorkerPool(workers),
		updateInterval: interval,
		sleep:          time.Sleep,
	}
}

func (r *Relay) Start(ctx context.Context) {
	zap.L().Info("Outbox relay started")
	go r.run(ctx)
}

func (r *Relay) Close() {
	r.workerPool.Close()
}

func (r *Relay) run(ctx context.Context) {
	ticker := time.NewTicker(r.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping outbox relay")
			return
		case <-ticker.C:
			r.dispatch(ctx)
		}
	}
}

// dispatch hands one task per aggregate key to the pool. Events of a key are
// delivered in insertion order and a key is never worked on twice at once.
func (r *Relay) dispatch(ctx context.Context) {
	pending, err := r.repo.FindUnsent(ctx, atomic.LoadUint32(&r.limit))
	if err != nil {
		zap.L().Error("Failed to fetch unsent events", zap.Error(err))
		return
	}

	var keys []string
	byKey := make(map[string][]domain.OutboxEvent)
	for _, event := range pending {
		if _, ok := byKey[event.Key]; !ok {
			keys = append(keys, event.Key)
		}
		byKey[event.Key] = append(byKey[event.Key], event)
	}

	var g errgroup.Group
	for _, key := range keys {
		key, batch := key, byKey[key]

		if _, loaded := r.inFlight.LoadOrStore(key, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := r.workerPool.AddTask(ctx, func() error {
				defer r.inFlight.Delete(key)
				return r.deliver(ctx, batch)
			})
			if err != nil {
				r.inFlight.Delete(key)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error dispatching events", zap.Error(err))
	}
}

// deliver publishes events in order and stops at the first one that cannot
// be delivered, so later events of the key are not sent ahead of it.
func (r *Relay) deliver(ctx context.Context, batch []domain.OutboxEvent) error {
	for _, event := range batch {
		if err := r.publish(ctx, event); err != nil {
			metrics.OutboxErrors.Inc()
			return err
		}
		if err := r.repo.MarkSent(ctx, event.ID); err != nil {
			return fmt.Errorf("failed to mark event %d sent: %w", event.ID, err)
		}
		metrics.OutboxPublished.WithLabelValues(event.Topic).Inc()
	}
	return nil
}

func (r *Relay) publish(ctx context.Context, event domain.OutboxEvent) error {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err = r.publisher.Publish(ctx, event); err == nil {
			return nil
		}
		zap.L().Warn("Publish failed, retrying",
			zap.Int64("eventID", event.ID),
			zap.String("topic", event.Topic),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < maxRetries {
			r.sleep(retryInterval * time.Duration(attempt))
		}
	}
	return fmt.Errorf("failed to publish event %d after %d retries: %w", event.ID, maxRetries, err)
}
