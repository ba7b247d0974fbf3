package throttle

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// Config defines the limiter's sustained requests per second
// and the burst it allows above that rate.
type Config struct {
	RPS   int
	Burst int
}

// Validate reports whether both limits are positive.
func (c Config) Validate() error {
	if c.RPS <= 0 || c.Burst <= 0 {
		return fmt.Errorf("rps[%d] and burst[%d] %w", c.RPS, c.Burst, ErrMustNotBeZero)
	}

	return nil
}

// limiter is an http.RoundTripper that holds each outbound request
// until the token bucket admits it.
type limiter struct {
	bucket *rate.Limiter
	cfg    Config
	next   http.RoundTripper
	logFn  func() *slog.Logger
}

// New returns an http.RoundTripper that rate limits outbound requests
// before handing them to next. logFn is resolved per request, so the
// logger may be configured after the transport is built. A nil logger
// disables the exhaustion log lines.
func New(cfg Config, logFn func() *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if next == nil {
		next = http.DefaultTransport
	}
	if logFn == nil {
		logFn = func() *slog.Logger { return nil }
	}

	l := limiter{
		bucket: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		cfg:    cfg,
		next:   next,
		logFn:  logFn,
	}

	return &l, nil
}

func (l *limiter) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	if err := ctx.Err(); err != nil {
		closeBody(r)
		return nil, fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	logger := l.logFn()
	exhausted := logger != nil && l.bucket.Tokens() < 1
	start := time.Now()
	if exhausted {
		logger.Info("rate limit reached, waiting", "rps", l.cfg.RPS, "burst", l.cfg.Burst, "path", r.URL.Path)
	}

	if err := l.bucket.Wait(ctx); err != nil {
		closeBody(r)
		return nil, fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}

	if exhausted {
		logger.Info("rate limit wait complete", "waited", time.Since(start).String(), "path", r.URL.Path)
	}

	if err := ctx.Err(); err != nil {
		closeBody(r)
		return nil, fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return l.next.RoundTrip(r)
}

// closeBody releases the request body on paths that never reach next,
// as an http.RoundTripper must.
func closeBody(r *http.Request) {
	if r.Body != nil {
		_ = r.Body.Close()
	}
}
