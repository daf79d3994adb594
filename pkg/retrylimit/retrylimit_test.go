package retrylimit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func restError(code int) error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: code}}
}

func fastConfig() Config {
	return Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, RateLimitDelay: time.Millisecond, Multiplier: 2}
}

func TestClassification(t *testing.T) {
	assert.Equal(t, 404, StatusCode(restError(404)))
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
	assert.True(t, IsRateLimited(restError(429)))
	assert.True(t, IsServerError(restError(502)))
	assert.False(t, IsServerError(restError(403)))

	assert.True(t, retryable(errors.New("network")))
	assert.True(t, retryable(restError(500)))
	assert.False(t, retryable(restError(403)))
	assert.False(t, retryable(&FatalError{Err: errors.New("stop")}))
}

func TestDoRetriesServerErrors(t *testing.T) {
	r := New(nil, fastConfig(), nil)
	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return restError(503)
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnClientErrors(t *testing.T) {
	r := New(nil, fastConfig(), nil)
	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return restError(403)
	})
	assert.Equal(t, 403, StatusCode(err))
	assert.Equal(t, 1, calls)
}

func TestDoUnwrapsFatal(t *testing.T) {
	boom := errors.New("boom")
	r := New(nil, fastConfig(), nil)
	err := r.Do(context.Background(), func() error { return &FatalError{Err: boom} })
	assert.Same(t, boom, err)
}

func TestDoGivesUp(t *testing.T) {
	r := New(nil, fastConfig(), nil)
	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return restError(500)
	})
	assert.Error(t, err)
	assert.True(t, IsServerError(err))
	assert.Equal(t, 3, calls)
}

func TestDoHonoursContext(t *testing.T) {
	cfg := fastConfig()
	cfg.InitialDelay = time.Hour
	r := New(nil, cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := r.Do(ctx, func() error { return errors.New("flaky") })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLimiterAdapts(t *testing.T) {
	lim := NewAdaptiveLimiter(8, 1, 10, 1, 0.5)
	assert.Equal(t, rate.Limit(8), lim.Limit())

	lim.Throttled()
	assert.Equal(t, rate.Limit(4), lim.Limit())
	lim.Success()
	assert.Equal(t, rate.Limit(4), lim.Limit(), "cooldown after throttling")

	lim.cooldown = 0
	lim.lastError = time.Time{}
	lim.Success()
	assert.Equal(t, rate.Limit(5), lim.Limit())

	for range 10 {
		lim.Throttled()
	}
	assert.Equal(t, rate.Limit(1), lim.Limit())
}
