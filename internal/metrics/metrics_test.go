package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/betstream/internal/domain"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "success", err: nil, want: OutcomeSuccess},
		{name: "domain error", err: domain.NewError(domain.ErrInsufficientFunds, "insufficient funds"), want: OutcomeRejected},
		{name: "wrapped transition", err: fmt.Errorf("approve: %w", &domain.TransitionError{Entity: "deposit", From: "approved", Action: domain.ActionApprove}), want: OutcomeRejected},
		{name: "storage error", err: errors.New("connection reset"), want: OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Outcome(tt.err))
		})
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestObserveWorkflow(t *testing.T) {
	before := counterValue(t, WorkflowTotal.WithLabelValues("deposit_approve", OutcomeSuccess))
	ObserveWorkflow("deposit_approve", nil)
	after := counterValue(t, WorkflowTotal.WithLabelValues("deposit_approve", OutcomeSuccess))
	assert.Equal(t, before+1, after)
}

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	assert.Error(t, Register(reg))
}

func TestNewServer(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))

	tests := []struct {
		name         string
		path         string
		health       HealthFunc
		expectedCode int
		expectedBody string
	}{
		{
			name:         "healthy",
			path:         "/healthz",
			health:       func(ctx context.Context) error { return nil },
			expectedCode: http.StatusOK,
			expectedBody: "ok",
		},
		{
			name:         "unhealthy",
			path:         "/healthz",
			health:       func(ctx context.Context) error { return errors.New("db down") },
			expectedCode: http.StatusServiceUnavailable,
			expectedBody: "unhealthy: db down",
		},
		{
			name:         "metrics",
			path:         "/metrics",
			health:       func(ctx context.Context) error { return nil },
			expectedCode: http.StatusOK,
			expectedBody: "betstream_outbox_errors_total",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(":0", reg, tt.health)
			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}
