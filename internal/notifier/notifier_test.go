package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/logstackhq/logstack/internal/models"
)

type fakeNotifier struct {
	name    string
	sent    []*models.Alert
	sendErr error
	closed  bool
}

func (f *fakeNotifier) Name() string { return f.name }

func (f *fakeNotifier) Send(ctx context.Context, alert *models.Alert, entry *models.LogEntry) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, alert)
	return nil
}

func (f *fakeNotifier) Close() error {
	f.closed = true
	return nil
}

func testAlert() *models.Alert {
	return &models.Alert{
		ID:          "alert-1",
		TriggerName: "prod errors",
		Message:     "an error occurred",
		Email:       "oncall@example.com",
		CreatedAt:   time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func testEntry() *models.LogEntry {
	return &models.LogEntry{
		ID:          "log-1",
		Title:       "Payment failed",
		AppName:     "billing",
		Level:       models.LevelError,
		Environment: models.EnvProduction,
	}
}

func TestDispatchFansOut(t *testing.T) {
	d := NewDispatcherWithRateLimit(RateLimitConfig{Enabled: false})
	a := &fakeNotifier{name: "email"}
	b := &fakeNotifier{name: "webhook"}
	d.Register(a)
	d.Register(b)

	if err := d.Dispatch(context.Background(), testAlert(), testEntry()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if len(a.sent) != 1 || len(b.sent) != 1 {
		t.Errorf("expected both notifiers to receive the alert, got %d/%d", len(a.sent), len(b.sent))
	}
}

func TestDispatchNilDispatcher(t *testing.T) {
	// A nil *Dispatcher can reach the pipeline behind a non-nil
	// interface value; Dispatch must quietly deliver nothing.
	var d *Dispatcher
	if err := d.Dispatch(context.Background(), testAlert(), testEntry()); err != nil {
		t.Fatalf("dispatch on nil dispatcher: %v", err)
	}
}

func TestDispatchAggregatesErrors(t *testing.T) {
	d := NewDispatcherWithRateLimit(RateLimitConfig{Enabled: false})
	failing := &fakeNotifier{name: "email", sendErr: errors.New("smtp down")}
	ok := &fakeNotifier{name: "webhook"}
	d.Register(failing)
	d.Register(ok)

	err := d.Dispatch(context.Background(), testAlert(), testEntry())
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	// The healthy notifier still delivered.
	if len(ok.sent) != 1 {
		t.Errorf("healthy notifier delivered %d, want 1", len(ok.sent))
	}
}

func TestDispatchRateLimited(t *testing.T) {
	d := NewDispatcherWithRateLimit(RateLimitConfig{
		MaxPerWindow: 2,
		Window:       time.Minute,
		Enabled:      true,
	})
	n := &fakeNotifier{name: "email"}
	d.Register(n)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := d.Dispatch(ctx, testAlert(), testEntry()); err != nil {
			t.Fatalf("dispatch %d: %v", i, err)
		}
	}

	err := d.Dispatch(ctx, testAlert(), testEntry())
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if len(n.sent) != 2 {
		t.Errorf("sent = %d, want 2", len(n.sent))
	}
}

func TestDispatcherClose(t *testing.T) {
	d := NewDispatcher()
	n := &fakeNotifier{name: "email"}
	d.Register(n)

	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !n.closed {
		t.Error("notifier should be closed")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{MaxPerWindow: 3, Window: time.Minute, Enabled: true})

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if rl.Allow() {
		t.Error("request over the window limit should be dropped")
	}
	if rl.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", rl.Dropped())
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{MaxPerWindow: 1, Window: time.Minute, Enabled: false})

	for i := 0; i < 10; i++ {
		if !rl.Allow() {
			t.Fatal("disabled limiter must allow everything")
		}
	}
}
