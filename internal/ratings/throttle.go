package ratings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"foodreel/internal/services"
)

// Throttled wraps a provider with a minimum spacing between successful
// lookups and a per-run memo of answered queries.
type Throttled struct {
	provider Provider
	minDelay time.Duration
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error

	mu          sync.Mutex
	lastSuccess time.Time
	memo        map[string]*Result
	calls       int
}

// ThrottleOption configures a Throttled provider.
type ThrottleOption func(*Throttled)

// WithClock overrides the time source.
func WithClock(now func() time.Time) ThrottleOption {
	return func(t *Throttled) {
		if now != nil {
			t.now = now
		}
	}
}

// WithSleeper overrides how the throttle waits.
func WithSleeper(sleep func(context.Context, time.Duration) error) ThrottleOption {
	return func(t *Throttled) {
		if sleep != nil {
			t.sleep = sleep
		}
	}
}

// NewThrottled wraps provider so consecutive lookups are at least minDelay apart.
func NewThrottled(provider Provider, minDelay time.Duration, opts ...ThrottleOption) *Throttled {
	if minDelay < 0 {
		minDelay = 0
	}
	t := &Throttled{
		provider: provider,
		minDelay: minDelay,
		now:      time.Now,
		sleep:    sleepContext,
		memo:     make(map[string]*Result),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the wrapped provider's name.
func (t *Throttled) Name() string {
	if t == nil || t.provider == nil {
		return ""
	}
	return t.provider.Name()
}

// Enabled reports whether the wrapped provider can be queried.
func (t *Throttled) Enabled() bool {
	return t != nil && t.provider != nil && t.provider.Enabled()
}

// Calls returns how many lookups reached the wrapped provider.
func (t *Throttled) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Search runs the wrapped lookup once the delay window has passed. Disabled
// providers return (nil, nil) immediately. Failures are marked
// services.ErrProvider.
func (t *Throttled) Search(ctx context.Context, name, city string) (*Result, error) {
	if !t.Enabled() {
		return nil, nil
	}
	key := strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(city))

	t.mu.Lock()
	if cached, ok := t.memo[key]; ok {
		t.mu.Unlock()
		return cached, nil
	}
	wait := time.Duration(0)
	if !t.lastSuccess.IsZero() {
		wait = t.minDelay - t.now().Sub(t.lastSuccess)
	}
	t.mu.Unlock()

	if wait > 0 {
		if err := t.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	t.mu.Lock()
	t.calls++
	t.mu.Unlock()

	result, err := t.provider.Search(ctx, name, city)
	if errors.Is(err, ErrNotQueried) {
		return nil, nil
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, services.Wrap(services.ErrProvider, t.provider.Name(), "search", fmt.Sprintf("query %q", name), err)
	}

	t.mu.Lock()
	t.lastSuccess = t.now()
	t.memo[key] = result
	t.mu.Unlock()
	return result, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
