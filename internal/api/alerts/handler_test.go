package alerts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/logstackhq/logstack/internal/api/middleware"
	"github.com/logstackhq/logstack/internal/models"
	"github.com/logstackhq/logstack/internal/storage"
)

// mockAlertRepository is an in-memory storage.AlertRepository.
type mockAlertRepository struct {
	alerts    []*models.Alert
	listError error
}

func (m *mockAlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	m.alerts = append(m.alerts, alert)
	return nil
}

func (m *mockAlertRepository) GetByID(ctx context.Context, id string) (*models.Alert, error) {
	for _, a := range m.alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *mockAlertRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Alert, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.alerts, nil
}

func (m *mockAlertRepository) SetVisualized(ctx context.Context, id string) error {
	for _, a := range m.alerts {
		if a.ID == id {
			a.Visualized = true
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *mockAlertRepository) SetArchived(ctx context.Context, id string, archived bool) error {
	for _, a := range m.alerts {
		if a.ID == id {
			a.Archived = archived
			return nil
		}
	}
	return storage.ErrNotFound
}

func sampleAlert(id string) *models.Alert {
	return &models.Alert{
		ID:          id,
		TriggerID:   "trig-1",
		TriggerName: "prod errors",
		Message:     "an error occurred",
		Email:       "oncall@example.com",
		LogID:       "log-1",
		CreatedAt:   time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func authedRequest(method, target string, id string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := middleware.WithUserContext(req.Context(), "user-1", models.RoleOperator)
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeAlert(t *testing.T, rec *httptest.ResponseRecorder) *models.Alert {
	t.Helper()
	var resp struct {
		Data *models.Alert `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.Data
}

func TestList_Empty(t *testing.T) {
	handler := NewHandler(&mockAlertRepository{})

	rec := httptest.NewRecorder()
	handler.List(rec, authedRequest("GET", "/api/v1/alerts", ""))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Data []*models.Alert `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data == nil || len(resp.Data) != 0 {
		t.Errorf("expected empty array, got %v", resp.Data)
	}
}

func TestGetByID(t *testing.T) {
	repo := &mockAlertRepository{alerts: []*models.Alert{sampleAlert("alert-1")}}
	handler := NewHandler(repo)

	rec := httptest.NewRecorder()
	handler.GetByID(rec, authedRequest("GET", "/api/v1/alerts/alert-1", "alert-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := decodeAlert(t, rec); got.TriggerName != "prod errors" {
		t.Errorf("unexpected alert: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	handler := NewHandler(&mockAlertRepository{})

	rec := httptest.NewRecorder()
	handler.GetByID(rec, authedRequest("GET", "/api/v1/alerts/nope", "nope"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestAcknowledge(t *testing.T) {
	repo := &mockAlertRepository{alerts: []*models.Alert{sampleAlert("alert-1")}}
	handler := NewHandler(repo)

	rec := httptest.NewRecorder()
	handler.Acknowledge(rec, authedRequest("POST", "/api/v1/alerts/alert-1/acknowledge", "alert-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := decodeAlert(t, rec); !got.Visualized {
		t.Error("alert should be visualized")
	}
}

func TestAcknowledge_Idempotent(t *testing.T) {
	alert := sampleAlert("alert-1")
	alert.Visualized = true
	handler := NewHandler(&mockAlertRepository{alerts: []*models.Alert{alert}})

	rec := httptest.NewRecorder()
	handler.Acknowledge(rec, authedRequest("POST", "/api/v1/alerts/alert-1/acknowledge", "alert-1"))

	// Acknowledging an already visualized alert succeeds unchanged.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := decodeAlert(t, rec); !got.Visualized {
		t.Error("alert should remain visualized")
	}
}

func TestAcknowledge_NotFound(t *testing.T) {
	handler := NewHandler(&mockAlertRepository{})

	rec := httptest.NewRecorder()
	handler.Acknowledge(rec, authedRequest("POST", "/api/v1/alerts/nope/acknowledge", "nope"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestArchiveUnarchive(t *testing.T) {
	repo := &mockAlertRepository{alerts: []*models.Alert{sampleAlert("alert-1")}}
	handler := NewHandler(repo)

	rec := httptest.NewRecorder()
	handler.Archive(rec, authedRequest("POST", "/api/v1/alerts/alert-1/archive", "alert-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("archive status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := decodeAlert(t, rec); !got.Archived {
		t.Error("alert should be archived")
	}

	rec = httptest.NewRecorder()
	handler.Unarchive(rec, authedRequest("POST", "/api/v1/alerts/alert-1/unarchive", "alert-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("unarchive status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := decodeAlert(t, rec); got.Archived {
		t.Error("alert should be unarchived")
	}
}

func TestUnarchive_NeverArchived(t *testing.T) {
	repo := &mockAlertRepository{alerts: []*models.Alert{sampleAlert("alert-1")}}
	handler := NewHandler(repo)

	rec := httptest.NewRecorder()
	handler.Unarchive(rec, authedRequest("POST", "/api/v1/alerts/alert-1/unarchive", "alert-1"))

	// Unarchiving a never-archived alert is a no-op success.
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
