package faults

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/taskmock/backend/domain"
)

const failureMessage = "Simulated network failure"

// Config tunes the simulated network.
type Config struct {
	MinDelay  time.Duration
	MaxDelay  time.Duration
	ErrorRate float64
}

// Injector simulates network latency and random transient failures. The
// random source and the sleep function are injectable so tests can force
// deterministic behavior.
type Injector struct {
	cfg   Config
	rand  *rand.Rand
	sleep func(context.Context, time.Duration) error
}

// Option customizes an Injector.
type Option func(*Injector)

// WithRand substitutes the random source.
func WithRand(r *rand.Rand) Option {
	return func(i *Injector) {
		if r != nil {
			i.rand = r
		}
	}
}

// WithSleep substitutes the sleep function.
func WithSleep(fn func(context.Context, time.Duration) error) Option {
	return func(i *Injector) {
		if fn != nil {
			i.sleep = fn
		}
	}
}

// New builds an Injector, clamping the config to sane bounds.
func New(cfg Config, opts ...Option) *Injector {
	if cfg.MinDelay < 0 {
		cfg.MinDelay = 0
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	if cfg.ErrorRate < 0 {
		cfg.ErrorRate = 0
	}
	if cfg.ErrorRate > 1 {
		cfg.ErrorRate = 1
	}

	i := &Injector{
		cfg: cfg,
		rand: rand.New(rand.NewPCG(
			uint64(time.Now().UnixNano()),
			uint64(time.Now().UnixNano())>>1,
		)),
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Delay suspends for a duration drawn uniformly from [MinDelay, MaxDelay].
// It never fails on its own; it returns early only when ctx is cancelled.
func (i *Injector) Delay(ctx context.Context) error {
	d := i.cfg.MinDelay
	if span := i.cfg.MaxDelay - i.cfg.MinDelay; span > 0 {
		d += time.Duration(i.rand.Int64N(int64(span) + 1))
	}
	return i.sleep(ctx, d)
}

// MaybeFail raises a transient fault with probability ErrorRate. The status
// is an even coin flip between 400 (Bad Request) and 500 (Internal Server
// Error). It runs once per request attempt, before routing.
func (i *Injector) MaybeFail() error {
	if i.cfg.ErrorRate <= 0 || i.rand.Float64() >= i.cfg.ErrorRate {
		return nil
	}
	if i.rand.Float64() > 0.5 {
		return domain.BadRequest(failureMessage)
	}
	return domain.Internal(failureMessage)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
