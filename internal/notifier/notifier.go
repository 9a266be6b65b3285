// Package notifier provides outbound notification delivery for alerts.
//
// Delivery is best effort: the ingestion pipeline hands alerts off after
// its transaction commits and treats any failure here as non-fatal.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/logstackhq/logstack/internal/models"
)

// ErrRateLimited is returned when a notification is dropped because the
// dispatcher's rate limit was exceeded.
var ErrRateLimited = errors.New("notification rate limited")

// Notifier delivers one alert notification. The alert carries the
// trigger's snapshot message and destination email; the entry is the log
// that produced the match.
type Notifier interface {
	// Name returns the notifier name (e.g., "email").
	Name() string
	// Send delivers the notification.
	Send(ctx context.Context, alert *models.Alert, entry *models.LogEntry) error
	// Close releases any resources.
	Close() error
}

// Dispatcher fans alerts out to registered notifiers with rate limiting.
type Dispatcher struct {
	mu          sync.RWMutex
	notifiers   map[string]Notifier
	rateLimiter *RateLimiter
}

// NewDispatcher creates a dispatcher with default rate limiting.
func NewDispatcher() *Dispatcher {
	return NewDispatcherWithRateLimit(DefaultRateLimitConfig())
}

// NewDispatcherWithRateLimit creates a dispatcher with a custom rate
// limit configuration.
func NewDispatcherWithRateLimit(config RateLimitConfig) *Dispatcher {
	return &Dispatcher{
		notifiers:   make(map[string]Notifier),
		rateLimiter: NewRateLimiter(config),
	}
}

// Register adds a notifier to the dispatcher.
func (d *Dispatcher) Register(n Notifier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notifiers[n.Name()] = n
}

// Dispatch sends an alert to every registered notifier.
// Returns ErrRateLimited if the notification is dropped.
// A nil dispatcher delivers nothing; callers may hold a nil *Dispatcher
// behind an interface without tripping the pipeline's nil guard.
func (d *Dispatcher) Dispatch(ctx context.Context, alert *models.Alert, entry *models.LogEntry) error {
	if d == nil {
		return nil
	}
	if d.rateLimiter != nil && !d.rateLimiter.Allow() {
		return ErrRateLimited
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var errs []error
	for name, n := range d.notifiers {
		if err := n.Send(ctx, alert, entry); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %v", errs)
	}
	return nil
}

// Close closes all registered notifiers.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var errs []error
	for name, n := range d.notifiers {
		if err := n.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	d.notifiers = make(map[string]Notifier)

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
