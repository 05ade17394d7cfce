package ratings_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"foodreel/internal/ratings"
	"foodreel/internal/services"
)

type stubProvider struct {
	name    string
	enabled bool
	result  *ratings.Result
	err     error
	calls   int
}

func (s *stubProvider) Name() string  { return s.name }
func (s *stubProvider) Enabled() bool { return s.enabled }
func (s *stubProvider) Search(context.Context, string, string) (*ratings.Result, error) {
	s.calls++
	return s.result, s.err
}

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func newThrottled(p ratings.Provider, delay time.Duration) (*ratings.Throttled, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return ratings.NewThrottled(p, delay, ratings.WithClock(clock.Now), ratings.WithSleeper(clock.Sleep)), clock
}

func TestThrottledDisabledSkipsWithoutDelay(t *testing.T) {
	stub := &stubProvider{name: "google"}
	throttled, clock := newThrottled(stub, time.Second)

	for i := 0; i < 3; i++ {
		res, err := throttled.Search(context.Background(), "Tatiana", "New York")
		if res != nil || err != nil {
			t.Fatalf("disabled provider returned %v, %v", res, err)
		}
	}
	if stub.calls != 0 || len(clock.sleeps) != 0 {
		t.Fatalf("disabled provider must not be called or delayed: calls=%d sleeps=%v", stub.calls, clock.sleeps)
	}
}

func TestThrottledSpacesSuccessfulLookups(t *testing.T) {
	stub := &stubProvider{name: "google", enabled: true, result: &ratings.Result{Rating: 4.5}}
	throttled, clock := newThrottled(stub, time.Second)
	ctx := context.Background()

	if _, err := throttled.Search(ctx, "A", "X"); err != nil {
		t.Fatal(err)
	}
	if len(clock.sleeps) != 0 {
		t.Fatalf("first lookup should not wait, got %v", clock.sleeps)
	}
	clock.now = clock.now.Add(300 * time.Millisecond)
	if _, err := throttled.Search(ctx, "B", "X"); err != nil {
		t.Fatal(err)
	}
	if len(clock.sleeps) != 1 || clock.sleeps[0] != 700*time.Millisecond {
		t.Fatalf("expected 700ms wait, got %v", clock.sleeps)
	}
	if stub.calls != 2 || throttled.Calls() != 2 {
		t.Fatalf("expected 2 calls, got %d", stub.calls)
	}
}

func TestThrottledFailureDoesNotOpenWindow(t *testing.T) {
	stub := &stubProvider{name: "yelp", enabled: true, err: errors.New("boom")}
	throttled, clock := newThrottled(stub, time.Second)
	ctx := context.Background()

	_, err := throttled.Search(ctx, "A", "X")
	if !errors.Is(err, services.ErrProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if services.IsFatal(err) {
		t.Fatal("provider errors must not be fatal")
	}
	stub.err = nil
	if _, err := throttled.Search(ctx, "B", "X"); err != nil {
		t.Fatal(err)
	}
	if len(clock.sleeps) != 0 {
		t.Fatalf("failed lookups must not delay the next call, got %v", clock.sleeps)
	}
}

func TestThrottledNotQueriedIsNoResult(t *testing.T) {
	stub := &stubProvider{name: "yelp", enabled: true, err: ratings.ErrNotQueried}
	throttled, clock := newThrottled(stub, time.Second)

	res, err := throttled.Search(context.Background(), "A", "")
	if res != nil || err != nil {
		t.Fatalf("expected no result, got %v, %v", res, err)
	}
	stub.err = nil
	_, _ = throttled.Search(context.Background(), "B", "")
	if len(clock.sleeps) != 0 {
		t.Fatalf("local skips must not delay, got %v", clock.sleeps)
	}
}

func TestThrottledMemoizesAnsweredQueries(t *testing.T) {
	stub := &stubProvider{name: "google", enabled: true}
	throttled, clock := newThrottled(stub, time.Second)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := throttled.Search(ctx, "Di Fara", "New York"); err != nil {
			t.Fatal(err)
		}
	}
	_, _ = throttled.Search(ctx, " di fara ", "new york")
	if stub.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", stub.calls)
	}
	if len(clock.sleeps) != 0 {
		t.Fatalf("memo hits must not delay, got %v", clock.sleeps)
	}
}

func TestThrottledHonoursCancellation(t *testing.T) {
	stub := &stubProvider{name: "google", enabled: true, result: &ratings.Result{}}
	throttled := ratings.NewThrottled(stub, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	if _, err := throttled.Search(ctx, "A", "X"); err != nil {
		t.Fatal(err)
	}
	cancel()
	if _, err := throttled.Search(ctx, "B", "X"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
