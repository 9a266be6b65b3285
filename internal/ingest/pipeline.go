// Package ingest implements the log ingestion pipeline: resolve the
// submitting API key, validate the payload, persist the entry, match it
// against the owner's active triggers, and hand resulting alerts off to
// the notification dispatcher.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/logstackhq/logstack/internal/alerting"
	"github.com/logstackhq/logstack/internal/metrics"
	"github.com/logstackhq/logstack/internal/models"
	"github.com/logstackhq/logstack/internal/storage"
)

// ErrUnknownAPIKey is returned when the submitted API key does not
// resolve to an account.
var ErrUnknownAPIKey = errors.New("unknown api key")

// LogRequest is the raw inbound log submission. Timestamps are never
// accepted from callers; the pipeline assigns them at persistence time.
type LogRequest struct {
	Title       string `json:"title"`
	AppName     string `json:"app_name"`
	Host        string `json:"host"`
	IP          string `json:"ip"`
	Environment string `json:"environment"`
	Level       string `json:"level"`
	Content     string `json:"content"`
}

// Validate checks required fields and enum membership, reporting the
// first offending field.
func (r *LogRequest) Validate() (models.LogEnvironment, models.LogLevel, error) {
	if strings.TrimSpace(r.Title) == "" {
		return "", "", &models.ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(r.AppName) == "" {
		return "", "", &models.ValidationError{Field: "app_name", Message: "app name is required"}
	}
	if strings.TrimSpace(r.Host) == "" {
		return "", "", &models.ValidationError{Field: "host", Message: "host is required"}
	}

	env, ok := models.ParseLogEnvironment(r.Environment)
	if !ok {
		return "", "", &models.ValidationError{Field: "environment", Message: fmt.Sprintf("unrecognized environment %q", r.Environment)}
	}
	level, ok := models.ParseLogLevel(r.Level)
	if !ok {
		return "", "", &models.ValidationError{Field: "level", Message: fmt.Sprintf("unrecognized level %q", r.Level)}
	}
	return env, level, nil
}

// AlertDispatcher hands created alerts off for delivery.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, alert *models.Alert, entry *models.LogEntry) error
}

// Pipeline orchestrates log ingestion.
type Pipeline struct {
	store      storage.Storage
	dispatcher AlertDispatcher

	// now and newID are injectable for tests.
	now   func() time.Time
	newID func() string
}

// NewPipeline creates an ingestion pipeline. dispatcher may be nil, in
// which case alerts are persisted but not delivered.
func NewPipeline(store storage.Storage, dispatcher AlertDispatcher) *Pipeline {
	return &Pipeline{
		store:      store,
		dispatcher: dispatcher,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// Ingest persists one submitted log entry and evaluates it against the
// owning account's active triggers, producing one alert per match.
//
// The log insert and all alert inserts happen in a single transaction.
// Matching runs exactly once per entry, here; triggers created or edited
// later only see subsequent entries. Notification delivery happens after
// commit and never rolls ingestion back.
func (p *Pipeline) Ingest(ctx context.Context, apiKey string, req *LogRequest) (*models.LogEntry, error) {
	user, err := p.store.Users().GetByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			metrics.IngestRejectedTotal.WithLabelValues("unknown_api_key").Inc()
			return nil, ErrUnknownAPIKey
		}
		return nil, fmt.Errorf("resolve api key: %w", err)
	}

	env, level, err := req.Validate()
	if err != nil {
		metrics.IngestRejectedTotal.WithLabelValues("invalid_payload").Inc()
		return nil, err
	}

	entry := &models.LogEntry{
		ID:          p.newID(),
		Title:       req.Title,
		AppName:     req.AppName,
		Host:        req.Host,
		IP:          req.IP,
		Environment: env,
		Level:       level,
		Content:     req.Content,
		CreatedAt:   p.now().UTC(),
		UserID:      user.ID,
	}

	var alerts []*models.Alert
	err = p.store.WithinTx(ctx, func(tx storage.TxRepos) error {
		if err := tx.Logs().Insert(ctx, entry); err != nil {
			return err
		}

		triggers, err := tx.Triggers().ListActiveByOwner(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("load triggers: %w", err)
		}

		for _, trigger := range triggers {
			if !alerting.MatchesTrigger(entry, trigger) {
				continue
			}
			alert := models.NewAlert(p.newID(), trigger, entry.ID, entry.CreatedAt)
			if err := tx.Alerts().Create(ctx, alert); err != nil {
				return err
			}
			alerts = append(alerts, alert)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ingest log: %w", err)
	}

	metrics.LogsIngestedTotal.WithLabelValues(string(level), string(env)).Inc()
	metrics.AlertsFiredTotal.Add(float64(len(alerts)))

	// Notification hand-off is outside the transaction and best effort.
	if p.dispatcher != nil {
		for _, alert := range alerts {
			if err := p.dispatcher.Dispatch(ctx, alert, entry); err != nil {
				metrics.NotifyFailuresTotal.Inc()
				log.Printf("notify alert %s: %v", alert.ID, err)
			}
		}
	}

	return entry, nil
}
