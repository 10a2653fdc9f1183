package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type request struct {
	Login  string          `json:"login" validate:"required,min=3,max=10"`
	Method string          `json:"method" validate:"required,oneof=crypto cash"`
	Amount decimal.Decimal `json:"amount" validate:"required,money,gte=5,lte=10000"`
	Score  *int            `json:"score" validate:"required,gte=0"`
	Secret string          `json:"-"`
}

func TestStruct(t *testing.T) {
	zero, negative := 0, -1

	tests := []struct {
		name     string
		input    request
		expected map[string]string
	}{
		{
			name:  "Valid",
			input: request{Login: "alice", Method: "cash", Amount: decimal.NewFromInt(5), Score: &zero},
		},
		{
			name:  "Missing everything",
			input: request{},
			expected: map[string]string{
				"login":  "is required",
				"method": "is required",
				"amount": "is required",
				"score":  "is required",
			},
		},
		{
			name:  "Out of range",
			input: request{Login: "al", Method: "wire", Amount: decimal.RequireFromString("10000.01"), Score: &negative},
			expected: map[string]string{
				"login":  "must be at least 3 characters",
				"method": "must be one of: crypto, cash",
				"amount": "must be at most 10000",
				"score":  "must be at least 0",
			},
		},
		{
			name:  "Amount below minimum",
			input: request{Login: "alice", Method: "crypto", Amount: decimal.RequireFromString("4.99"), Score: &zero},
			expected: map[string]string{
				"amount": "must be at least 5",
			},
		},
		{
			name:  "Sub-cent amount",
			input: request{Login: "alice", Method: "cash", Amount: decimal.RequireFromString("5.015"), Score: &zero},
			expected: map[string]string{
				"amount": "must have at most 2 decimal places",
			},
		},
		{
			name:  "Trailing zeros are not extra places",
			input: request{Login: "alice", Method: "cash", Amount: decimal.RequireFromString("5.100"), Score: &zero},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Struct(tt.input))
		})
	}
}
