// Package reconcile periodically checks that every wallet's locked balance
// matches the obligations still holding its funds.
package reconcile

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/internal/metrics"
)

type Repo interface {
	FindMismatches(ctx context.Context) ([]domain.WalletMismatch, error)
}

type Job struct {
	repo Repo
	cron *cron.Cron
}

func New(repo Repo) *Job {
	return &Job{
		repo: repo,
		cron: cron.New(cron.WithSeconds()),
	}
}

// Start schedules the check. The schedule uses six fields, seconds first.
func (j *Job) Start(ctx context.Context, schedule string) error {
	if _, err := j.cron.AddFunc(schedule, func() {
		if _, err := j.Run(ctx); err != nil {
			zap.L().Error("Reconciliation failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}
	j.cron.Start()
	zap.L().Info("Reconciliation scheduled", zap.String("schedule", schedule))
	return nil
}

// Stop waits for a running check to finish.
func (j *Job) Stop() {
	<-j.cron.Stop().Done()
}

// Run reports mismatching wallets. It never modifies balances.
func (j *Job) Run(ctx context.Context) ([]domain.WalletMismatch, error) {
	mismatches, err := j.repo.FindMismatches(ctx)
	if err != nil {
		return nil, err
	}

	metrics.ReconcileMismatches.Set(float64(len(mismatches)))
	for _, m := range mismatches {
		zap.L().Warn("Wallet locked balance mismatch",
			zap.Int("userID", m.UserID),
			zap.String("balance", m.Balance.String()),
			zap.String("locked", m.LockedBalance.String()),
			zap.String("expectedLocked", m.ExpectedLocked.String()),
		)
	}
	if len(mismatches) == 0 {
		zap.L().Debug("Wallets reconciled")
	}
	return mismatches, nil
}
