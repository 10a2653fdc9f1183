package clients

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "betstream"
)

var ErrFailedCloseResponseBody = errors.New("failed close response body")

type HTTPClientI interface {
	Do(req *http.Request) (*http.Response, error)
	Get(ctx context.Context, url string, headers http.Header) (statusCode int, respBody []byte, respHeaders http.Header, err error)
}

// HTTPClientAdapter performs requests with net/http and reads whole bodies.
type HTTPClientAdapter struct {
	client    *http.Client
	userAgent string
}

func (h *HTTPClientAdapter) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", h.userAgent)
	}
	return h.client.Do(req)
}

func (h *HTTPClientAdapter) Get(ctx context.Context, url string, headers http.Header) (statusCode int, respBody []byte, respHeaders http.Header, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, nil, nil, err
	}
	for k, v := range headers {
		req.Header[k] = append([]string(nil), v...)
	}

	resp, err := h.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer func() {
		if e := resp.Body.Close(); e != nil {
			err = errors.Join(err, ErrFailedCloseResponseBody)
		}
	}()

	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, err
	}
	return resp.StatusCode, respBody, resp.Header, nil
}

type Option func(*HTTPClientAdapter)

func WithTimeout(d time.Duration) Option {
	return func(a *HTTPClientAdapter) {
		a.client.Timeout = d
	}
}

func WithUserAgent(ua string) Option {
	return func(a *HTTPClientAdapter) {
		a.userAgent = ua
	}
}

type HTTPClient struct {
	client HTTPClientI
}

func NewHTTPClient(opts ...Option) *HTTPClient {
	adapter := &HTTPClientAdapter{
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return &HTTPClient{client: adapter}
}

func (h *HTTPClient) Get(ctx context.Context, url string, headers http.Header) (statusCode int, respBody []byte, respHeaders http.Header, err error) {
	return h.client.Get(ctx, url, headers)
}

func (h *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req)
}

func (h *HTTPClient) SetClient(mock HTTPClientI) {
	h.client = mock
}
