package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/pkg/auth"
	"github.com/GlebRadaev/betstream/pkg/utils"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{domain.NewError(domain.ErrNotFound, "deposit not found"), http.StatusNotFound},
		{domain.NewError(domain.ErrInvalidTransition, "challenge is not open"), http.StatusBadRequest},
		{&domain.TransitionError{Entity: "deposit", From: "approved", Action: domain.ActionApprove}, http.StatusBadRequest},
		{domain.NewError(domain.ErrInsufficientFunds, "insufficient balance"), http.StatusBadRequest},
		{domain.NewError(domain.ErrForbidden, "only the creator can cancel"), http.StatusForbidden},
		{domain.NewError(domain.ErrValidation, "score must be a non-negative integer"), http.StatusUnprocessableEntity},
		{domain.NewError(domain.ErrConflict, "username already taken"), http.StatusConflict},
		{fmt.Errorf("fetch match: %w", domain.ErrNotFound), http.StatusNotFound},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, Status(tt.err))
		})
	}
}

func TestRespond(t *testing.T) {
	rr := httptest.NewRecorder()
	Respond(rr, domain.NewError(domain.ErrForbidden, "only participants can submit scores"))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	var resp utils.Response
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "only participants can submit scores", resp.Message)

	rr = httptest.NewRecorder()
	Respond(rr, errors.New("pq: deadlock detected"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Internal server error", resp.Message)
}

func TestUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, 0, UserID(req))

	req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, 7))
	assert.Equal(t, 7, UserID(req))
}

func TestPathID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want int
		ok   bool
	}{
		{name: "valid", id: "12", want: 12, ok: true},
		{name: "not a number", id: "abc"},
		{name: "zero", id: "0"},
		{name: "negative", id: "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rr := httptest.NewRecorder()

			id, ok := PathID(rr, req)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, id)
			if !tt.ok {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		Name string `json:"name" validate:"required"`
	}

	tests := []struct {
		name string
		body string
		ok   bool
		code int
	}{
		{name: "valid", body: `{"name":"chess"}`, ok: true, code: http.StatusOK},
		{name: "malformed", body: `{"name":`, code: http.StatusBadRequest},
		{name: "invalid", body: `{}`, code: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			var dst payload
			assert.Equal(t, tt.ok, Decode(rr, req, &dst))
			assert.Equal(t, tt.code, rr.Code)
		})
	}
}
