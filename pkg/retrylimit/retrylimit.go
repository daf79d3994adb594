// Package retrylimit provides an adaptive rate limiter and a retry loop for calls to
// rate-limited HTTP APIs such as the Discord REST API.
//
//	r := retrylimit.New(retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5), retrylimit.DefaultConfig(), log)
//	err := r.Do(ctx, func() error {
//	    _, err := session.ChannelMessageSend(channelID, "hello")
//	    return err
//	})
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// AdaptiveLimiter is a token bucket whose rate grows after successes and shrinks after
// throttling, within [min, max].
type AdaptiveLimiter struct {
	mu        sync.Mutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	cooldown  time.Duration
	lastError time.Time
}

// NewAdaptiveLimiter starts at initial requests per second. Successes add stepUp,
// throttling multiplies the rate by stepDown.
func NewAdaptiveLimiter(initial, minLimit, maxLimit, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	minLimit = max(minLimit, 1)
	initial = min(max(initial, minLimit), maxLimit)
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, max(1, int(initial))),
		minLimit: minLimit,
		maxLimit: maxLimit,
		stepUp:   stepUp,
		stepDown: stepDown,
		cooldown: 10 * time.Second,
	}
}

func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// Success raises the rate unless the limiter was throttled recently.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > a.cooldown {
		a.setLimit(a.limiter.Limit() + a.stepUp)
	}
}

// Throttled lowers the rate after a 429 or an overloaded server.
func (a *AdaptiveLimiter) Throttled() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.setLimit(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

func (a *AdaptiveLimiter) Limit() rate.Limit {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.limiter.Limit()
}

func (a *AdaptiveLimiter) setLimit(l rate.Limit) {
	l = min(max(l, a.minLimit), a.maxLimit)
	if l != a.limiter.Limit() {
		a.limiter.SetLimit(l)
		a.limiter.SetBurst(max(1, int(l)))
	}
}

// FatalError stops the retry loop immediately.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// StatusCode extracts the HTTP status of a Discord REST error, or 0.
func StatusCode(err error) int {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		return rest.Response.StatusCode
	}
	return 0
}

// IsRateLimited reports a 429 response.
func IsRateLimited(err error) bool {
	var (
		rlPtr *discordgo.RateLimitError
		rlVal discordgo.RateLimitError
	)
	return errors.As(err, &rlPtr) || errors.As(err, &rlVal) || StatusCode(err) == http.StatusTooManyRequests
}

// IsServerError reports a 5xx response.
func IsServerError(err error) bool {
	code := StatusCode(err)
	return code >= 500 && code < 600
}

// retryable reports whether err is worth another attempt. Other 4xx responses (missing
// permissions, unknown channel) never succeed on retry.
func retryable(err error) bool {
	var fatal *FatalError
	if errors.As(err, &fatal) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	code := StatusCode(err)
	return code == 0 || code == http.StatusTooManyRequests || code >= 500
}

type Config struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	RateLimitDelay time.Duration
	Multiplier     float64
	Jitter         bool
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:    4,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       10 * time.Second,
		RateLimitDelay: time.Second,
		Multiplier:     2,
		Jitter:         true,
	}
}

// Retrier runs calls through a shared limiter with exponential backoff.
type Retrier struct {
	lim *AdaptiveLimiter
	cfg Config
	log *zap.Logger
}

// New returns a Retrier. lim may be nil to retry without rate limiting.
func New(lim *AdaptiveLimiter, cfg Config, log *zap.Logger) *Retrier {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	return &Retrier{lim: lim, cfg: cfg, log: log}
}

// Do calls fn until it succeeds, fails with a non-retryable error, the context ends or
// MaxAttempts is reached. The last error is returned.
func (r *Retrier) Do(ctx context.Context, fn func() error) error {
	delay := r.cfg.InitialDelay
	var err error

	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		if r.lim != nil {
			if werr := r.lim.Wait(ctx); werr != nil {
				return werr
			}
		}

		if err = fn(); err == nil {
			if r.lim != nil {
				r.lim.Success()
			}
			if attempt > 1 {
				r.log.Debug("request succeeded after retry", zap.Int("attempts", attempt))
			}
			return nil
		}
		if !retryable(err) || attempt == r.cfg.MaxAttempts {
			break
		}

		wait := delay
		if IsRateLimited(err) {
			if r.lim != nil {
				r.lim.Throttled()
			}
			wait = r.cfg.RateLimitDelay
			r.log.Warn("rate limited", zap.Int("attempt", attempt), zap.Duration("wait", wait))
		} else {
			if IsServerError(err) && r.lim != nil {
				r.lim.Throttled()
			}
			if r.cfg.Jitter {
				wait = jitter(wait)
			}
			delay = min(time.Duration(float64(delay)*r.cfg.Multiplier), r.cfg.MaxDelay)
			r.log.Warn("request failed, retrying", zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	var fatal *FatalError
	if errors.As(err, &fatal) {
		return fatal.Err
	}
	if retryable(err) {
		return fmt.Errorf("gave up after %d attempts: %w", r.cfg.MaxAttempts, err)
	}
	return err
}

// jitter adds up to 25% to d.
func jitter(d time.Duration) time.Duration {
	if d < 4 {
		return d
	}
	return d + rand.N(d/4)
}
