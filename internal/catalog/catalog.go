// Package catalog resolves matches and their published odds from the
// external match catalog.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/pkg/clients"
)

const (
	maxRetries    = 3
	retryInterval = time.Millisecond * 200
)

var ErrUnexpectedStatus = errors.New("unexpected catalog status")

type envelope struct {
	Success bool              `json:"success"`
	Data    *domain.GameMatch `json:"data"`
}

type Provider struct {
	url    string
	client clients.HTTPClientI
	cache  Cache
	ttl    time.Duration
	group  singleflight.Group
	sleep  func(time.Duration)
}

func New(url string, client clients.HTTPClientI, cache Cache, ttl time.Duration) *Provider {
	return &Provider{
		url:    url,
		client: client,
		cache:  cache,
		ttl:    ttl,
		sleep:  time.Sleep,
	}
}

func cacheKey(id int) string {
	return "match:" + strconv.Itoa(id)
}

// GetMatch returns the current state of a match. Finished and cancelled
// matches never reopen, so a cached copy of one is served as is. Upcoming
// and live matches are always read from the catalog because their status
// and odds are what a bet is placed against. Concurrent lookups of the same
// match share one catalog request.
func (p *Provider) GetMatch(ctx context.Context, id int) (*domain.GameMatch, error) {
	key := cacheKey(id)

	data, err := p.cache.Get(ctx, key)
	switch {
	case err == nil:
		var match domain.GameMatch
		if err := json.Unmarshal(data, &match); err != nil {
			zap.L().Warn("Dropping unreadable cached match", zap.Int("matchID", id))
			break
		}
		if !match.OpenForBetting() {
			return &match, nil
		}
	case !errors.Is(err, ErrCacheMiss):
		zap.L().Warn("Match cache unavailable", zap.Int("matchID", id), zap.Error(err))
	}

	v, err, _ := p.group.Do(key, func() (interface{}, error) {
		return p.fetch(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	match := *v.(*domain.GameMatch)
	return &match, nil
}

func (p *Provider) fetch(ctx context.Context, id int) (*domain.GameMatch, error) {
	url := p.url + "/api/game-matches/" + strconv.Itoa(id)
	headers := http.Header{"Accept": {"application/json"}}

	var (
		statusCode int
		respBody   []byte
		err        error
	)
	for attempt := 1; attempt <= maxRetries; attempt++ {
		statusCode, respBody, _, err = p.client.Get(ctx, url, headers)
		if err == nil && statusCode < http.StatusInternalServerError {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < maxRetries {
			p.sleep(retryInterval * time.Duration(attempt))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match %d after %d retries: %w", id, maxRetries, err)
	}

	switch statusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("match %d: %w", id, domain.ErrNotFound)
	default:
		zap.L().Error("Unexpected catalog status", zap.Int("status", statusCode), zap.Int("matchID", id))
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, statusCode)
	}

	var resp envelope
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse match %d: %w", id, err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("match %d: %w", id, domain.ErrNotFound)
	}

	if data, err := json.Marshal(resp.Data); err == nil {
		if err := p.cache.Set(ctx, cacheKey(id), data, p.ttl); err != nil {
			zap.L().Warn("Failed to cache match", zap.Int("matchID", id), zap.Error(err))
		}
	}
	return resp.Data, nil
}
