package withdrawals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/internal/service/withdrawalservice"
	"github.com/GlebRadaev/betstream/pkg/auth"
	"github.com/GlebRadaev/betstream/pkg/utils"
)

func NewMock(t *testing.T) (*WithdrawalHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func withUser(req *http.Request) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, 1))
}

func TestSubmitHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Withdrawal reserved",
			body: `{"amount":"30.50"}`,
			prepareMock: func() {
				service.EXPECT().Submit(gomock.Any(), 1, gomock.Any()).DoAndReturn(
					func(_ context.Context, userID int, amount decimal.Decimal) (*domain.Withdrawal, error) {
						assert.True(t, amount.Equal(decimal.RequireFromString("30.5")))
						return &domain.Withdrawal{ID: 1, UserID: userID, Amount: amount, Status: domain.WithdrawalPending}, nil
					})
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Insufficient balance",
			body: `{"amount":500}`,
			prepareMock: func() {
				service.EXPECT().Submit(gomock.Any(), 1, gomock.Any()).Return(nil, withdrawalservice.ErrInsufficientBalance)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "insufficient available balance",
		},
		{
			name:          "Zero amount",
			body:          `{"amount":0}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: "Validation failed",
		},
		{
			name:          "Above maximum",
			body:          `{"amount":10000.01}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: "Validation failed",
		},
		{
			name: "Internal error",
			body: `{"amount":10}`,
			prepareMock: func() {
				service.EXPECT().Submit(gomock.Any(), 1, gomock.Any()).Return(nil, errors.New("tx aborted"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			req := withUser(httptest.NewRequest(http.MethodPost, "/api/withdrawals", strings.NewReader(tt.body)))
			rr := httptest.NewRecorder()
			handler.Submit(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			var resp utils.Response
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, resp.Message)
			} else {
				assert.True(t, resp.Success)
			}
		})
	}
}

func TestListHandler(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("History", func(t *testing.T) {
		service.EXPECT().List(gomock.Any(), 1).Return([]domain.Withdrawal{
			{ID: 1, UserID: 1, Amount: decimal.NewFromInt(10), Status: domain.WithdrawalApproved},
		}, nil)
		rr := httptest.NewRecorder()
		handler.List(rr, withUser(httptest.NewRequest(http.MethodGet, "/api/withdrawals", nil)))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"approved"`)
	})

	t.Run("Empty history", func(t *testing.T) {
		service.EXPECT().List(gomock.Any(), 1).Return(nil, nil)
		rr := httptest.NewRecorder()
		handler.List(rr, withUser(httptest.NewRequest(http.MethodGet, "/api/withdrawals", nil)))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"data":[]`)
	})
}

func TestGetHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		id           string
		prepareMock  func()
		expectedCode int
		expectedBody string
	}{
		{
			name: "Found",
			id:   "4",
			prepareMock: func() {
				service.EXPECT().Get(gomock.Any(), 1, 4).Return(&domain.Withdrawal{
					ID: 4, UserID: 1, Amount: decimal.NewFromInt(25), Status: domain.WithdrawalPending,
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `"status":"pending"`,
		},
		{
			name: "Foreign or missing",
			id:   "9",
			prepareMock: func() {
				service.EXPECT().Get(gomock.Any(), 1, 9).Return(nil, withdrawalservice.ErrWithdrawalNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: "withdrawal not found",
		},
		{
			name:         "Bad id",
			id:           "x",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			req := withUser(httptest.NewRequest(http.MethodGet, "/api/withdrawals/"+tt.id, nil))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rr := httptest.NewRecorder()
			handler.Get(rr, req)
			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), tt.expectedBody)
			}
		})
	}
}
