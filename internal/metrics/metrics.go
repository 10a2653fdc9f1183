package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/GlebRadaev/betstream/internal/domain"
)

const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	WorkflowTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "betstream_workflow_total",
		Help: "Wallet workflow calls by outcome.",
	}, []string{"workflow", "outcome"})

	OutboxPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "betstream_outbox_published_total",
		Help: "Ledger events published to the broker.",
	}, []string{"topic"})

	OutboxErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "betstream_outbox_errors_total",
		Help: "Ledger events that failed to publish.",
	})

	ReconcileMismatches = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "betstream_reconcile_mismatches",
		Help: "Wallets whose locked balance disagrees with open obligations.",
	})
)

func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{WorkflowTotal, OutboxPublished, OutboxErrors, ReconcileMismatches} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveWorkflow counts one call of workflow. Business rejections are
// counted apart from failures.
func ObserveWorkflow(workflow string, err error) {
	WorkflowTotal.WithLabelValues(workflow, Outcome(err)).Inc()
}

func Outcome(err error) string {
	var domainErr *domain.Error
	var transitionErr *domain.TransitionError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &domainErr), errors.As(err, &transitionErr):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
