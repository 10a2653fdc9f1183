package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

func TestHTTPClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("X-Served-By", "catalog")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer server.Close()

	client := NewHTTPClient()
	status, body, headers, err := client.Get(context.Background(), server.URL+"/api/game-matches/1", http.Header{"Accept": {"application/json"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":1}`, string(body))
	assert.Equal(t, "catalog", headers.Get("X-Served-By"))
}

func TestHTTPClient_GetCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, _, err := NewHTTPClient().Get(ctx, server.URL, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPClient_SetClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := NewMockHTTPClientI(ctrl)
	client := NewHTTPClient()
	client.SetClient(mock)

	mock.EXPECT().Get(gomock.Any(), "http://catalog/x", gomock.Nil()).Return(0, nil, nil, errors.New("dial error"))
	_, _, _, err := client.Get(context.Background(), "http://catalog/x", nil)
	assert.EqualError(t, err, "dial error")
}

func TestHTTPClient_Options(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Header.Get("User-Agent")))
	}))
	defer server.Close()

	_, body, _, err := NewHTTPClient().Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "betstream", string(body))

	client := NewHTTPClient(WithUserAgent("reconciler"), WithTimeout(time.Second))
	_, body, _, err = client.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "reconciler", string(body))
}
