package challenges

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/internal/service/challengeservice"
	"github.com/GlebRadaev/betstream/pkg/auth"
	"github.com/GlebRadaev/betstream/pkg/utils"
)

func NewMock(t *testing.T) (*ChallengeHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func newRequest(method, target, body, id string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), auth.UserIDKey, 2)
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) utils.Response {
	var resp utils.Response
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func TestListHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name   string
		query  string
		filter domain.ChallengeFilter
	}{
		{name: "No filter", query: "", filter: domain.ChallengeFilter{}},
		{name: "Status and game", query: "?status=open&game=chess", filter: domain.ChallengeFilter{Status: domain.ChallengeOpen, Game: "chess"}},
		{name: "Mine", query: "?mine=true", filter: domain.ChallengeFilter{UserID: 2}},
		{name: "Open only", query: "?open=1", filter: domain.ChallengeFilter{OpenOnly: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service.EXPECT().List(gomock.Any(), tt.filter).Return([]domain.Challenge{{ID: 1, Status: domain.ChallengeOpen}}, nil)
			rr := httptest.NewRecorder()
			handler.List(rr, newRequest(http.MethodGet, "/api/challenges"+tt.query, "", ""))
			assert.Equal(t, http.StatusOK, rr.Code)
		})
	}
}

func TestCreateHandler(t *testing.T) {
	handler, service := NewMock(t)
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Created with deadline",
			body: `{"game":"chess","bet_amount":"50","expires_at":"2030-01-01T00:00:00Z"}`,
			prepareMock: func() {
				service.EXPECT().Create(gomock.Any(), 2, "chess", gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, creatorID int, game string, bet decimal.Decimal, expiresAt *time.Time) (*domain.Challenge, error) {
						assert.True(t, bet.Equal(decimal.NewFromInt(50)))
						require.NotNil(t, expiresAt)
						assert.True(t, expires.Equal(*expiresAt))
						return &domain.Challenge{ID: 1, CreatorID: creatorID, Game: game, BetAmount: bet, Status: domain.ChallengeOpen, ExpiresAt: expiresAt}, nil
					})
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Insufficient balance",
			body: `{"game":"chess","bet_amount":50}`,
			prepareMock: func() {
				service.EXPECT().Create(gomock.Any(), 2, "chess", gomock.Any(), (*time.Time)(nil)).Return(nil, challengeservice.ErrInsufficientBalance)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "insufficient available balance",
		},
		{
			name:          "Bet below minimum",
			body:          `{"game":"chess","bet_amount":5}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: "Validation failed",
		},
		{
			name:          "Missing game",
			body:          `{"bet_amount":50}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: "Validation failed",
		},
		{
			name: "Expiry in the past",
			body: `{"game":"chess","bet_amount":50,"expires_at":"2001-01-01T00:00:00Z"}`,
			prepareMock: func() {
				service.EXPECT().Create(gomock.Any(), 2, "chess", gomock.Any(), gomock.Any()).Return(nil, challengeservice.ErrExpiryInPast)
			},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: "expires_at must be in the future",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			rr := httptest.NewRecorder()
			handler.Create(rr, newRequest(http.MethodPost, "/api/challenges", tt.body, ""))

			assert.Equal(t, tt.expectedCode, rr.Code)
			resp := decode(t, rr)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, resp.Message)
			} else {
				assert.True(t, resp.Success)
			}
		})
	}
}

func TestActionHandlers(t *testing.T) {
	handler, service := NewMock(t)
	opponent := 2

	tests := []struct {
		name          string
		call          func(w http.ResponseWriter, r *http.Request)
		id            string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Accept",
			call: handler.Accept,
			id:   "1",
			prepareMock: func() {
				service.EXPECT().Accept(gomock.Any(), 2, 1).Return(&domain.Challenge{ID: 1, CreatorID: 1, OpponentID: &opponent, Status: domain.ChallengeAccepted}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Accept own challenge",
			call: handler.Accept,
			id:   "1",
			prepareMock: func() {
				service.EXPECT().Accept(gomock.Any(), 2, 1).Return(nil, challengeservice.ErrOwnChallenge)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "cannot accept your own challenge",
		},
		{
			name: "Cancel by non creator",
			call: handler.Cancel,
			id:   "1",
			prepareMock: func() {
				service.EXPECT().Cancel(gomock.Any(), 2, 1).Return(nil, challengeservice.ErrNotCreator)
			},
			expectedCode:  http.StatusForbidden,
			expectedError: "only the creator can cancel this challenge",
		},
		{
			name: "Score submitted",
			call: handler.SubmitScore,
			id:   "1",
			body: `{"score":0}`,
			prepareMock: func() {
				service.EXPECT().SubmitScore(gomock.Any(), 2, 1, 0).Return(&domain.Challenge{ID: 1, Status: domain.ChallengeInProgress}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "Missing score",
			call:          handler.SubmitScore,
			id:            "1",
			body:          `{}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: "Validation failed",
		},
		{
			name:          "Negative score",
			call:          handler.SubmitScore,
			id:            "1",
			body:          `{"score":-1}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: "Validation failed",
		},
		{
			name: "Get missing",
			call: handler.Get,
			id:   "77",
			prepareMock: func() {
				service.EXPECT().Get(gomock.Any(), 77).Return(nil, challengeservice.ErrChallengeNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "challenge not found",
		},
		{
			name:          "Bad id",
			call:          handler.Cancel,
			id:            "abc",
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			rr := httptest.NewRecorder()
			tt.call(rr, newRequest(http.MethodPost, "/api/challenges/"+tt.id, tt.body, tt.id))

			assert.Equal(t, tt.expectedCode, rr.Code)
			resp := decode(t, rr)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, resp.Message)
			} else {
				assert.True(t, resp.Success)
			}
		})
	}
}
