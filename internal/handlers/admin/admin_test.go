package admin

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
	"github.com/GlebRadaev/betstream/internal/dto"
	"github.com/GlebRadaev/betstream/internal/service/authservice"
	"github.com/GlebRadaev/betstream/internal/service/depositservice"
	"github.com/GlebRadaev/betstream/internal/service/withdrawalservice"
	"github.com/GlebRadaev/betstream/pkg/utils"
)

func NewMock(t *testing.T) (*AdminHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestStatsHandler(t *testing.T) {
	handler, service := NewMock(t)

	service.EXPECT().Stats(gomock.Any()).Return(&domain.Stats{
		Users:               3,
		Challenges:          2,
		ApprovedDeposits:    decimal.NewFromInt(150),
		ApprovedWithdrawals: decimal.NewFromInt(40),
	}, nil)

	rr := httptest.NewRecorder()
	handler.Stats(rr, httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data dto.StatsResponseDTO `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 3, resp.Data.TotalUsers)
	assert.Equal(t, 2, resp.Data.TotalChallenges)
	assert.True(t, resp.Data.TotalDeposits.Equal(decimal.NewFromInt(150)))
	assert.True(t, resp.Data.TotalWithdrawals.Equal(decimal.NewFromInt(40)))

	service.EXPECT().Stats(gomock.Any()).Return(nil, errors.New("database error"))
	rr = httptest.NewRecorder()
	handler.Stats(rr, httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCreateUserHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Admin created",
			body: `{"login":"moderator","password":"password123","role":"admin"}`,
			prepareMock: func() {
				service.EXPECT().CreateUser(gomock.Any(), "moderator", "password123", domain.RoleAdmin).
					Return(&domain.User{ID: 9, Login: "moderator", Role: domain.RoleAdmin}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Role defaults to user",
			body: `{"login":"player","password":"password123"}`,
			prepareMock: func() {
				service.EXPECT().CreateUser(gomock.Any(), "player", "password123", domain.RoleUser).
					Return(&domain.User{ID: 10, Login: "player", Role: domain.RoleUser}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "Unknown role",
			body:         `{"login":"player","password":"password123","role":"root"}`,
			prepareMock:  func() {},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name: "Login taken",
			body: `{"login":"player","password":"password123"}`,
			prepareMock: func() {
				service.EXPECT().CreateUser(gomock.Any(), "player", "password123", domain.RoleUser).Return(nil, authservice.ErrLoginTaken)
			},
			expectedCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			rr := httptest.NewRecorder()
			handler.CreateUser(rr, httptest.NewRequest(http.MethodPost, "/api/admin/users", strings.NewReader(tt.body)))
			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}

func TestDepositAndWithdrawalActions(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		call          func(w http.ResponseWriter, r *http.Request)
		id            string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Approve deposit",
			call: handler.ApproveDeposit,
			id:   "1",
			prepareMock: func() {
				service.EXPECT().ApproveDeposit(gomock.Any(), 1).Return(&domain.Deposit{ID: 1, Status: domain.DepositApproved}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Approve processed deposit",
			call: handler.ApproveDeposit,
			id:   "1",
			prepareMock: func() {
				service.EXPECT().ApproveDeposit(gomock.Any(), 1).Return(nil, depositservice.ErrDepositNotPending)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "deposit is not pending",
		},
		{
			name: "Reject missing deposit",
			call: handler.RejectDeposit,
			id:   "5",
			prepareMock: func() {
				service.EXPECT().RejectDeposit(gomock.Any(), 5).Return(nil, depositservice.ErrDepositNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "deposit not found",
		},
		{
			name: "Approve withdrawal",
			call: handler.ApproveWithdrawal,
			id:   "2",
			prepareMock: func() {
				service.EXPECT().ApproveWithdrawal(gomock.Any(), 2).Return(&domain.Withdrawal{ID: 2, Status: domain.WithdrawalApproved}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Reject withdrawal twice",
			call: handler.RejectWithdrawal,
			id:   "2",
			prepareMock: func() {
				service.EXPECT().RejectWithdrawal(gomock.Any(), 2).Return(nil, withdrawalservice.ErrWithdrawalNotPending)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "withdrawal is not pending",
		},
		{
			name:          "Bad id",
			call:          handler.RejectWithdrawal,
			id:            "0",
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			rr := httptest.NewRecorder()
			tt.call(rr, withID(httptest.NewRequest(http.MethodPost, "/api/admin/x", nil), tt.id))

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
