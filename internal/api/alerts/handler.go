// Package alerts provides HTTP handlers for alert browsing and
// lifecycle endpoints.
package alerts

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/logstackhq/logstack/internal/api/middleware"
	"github.com/logstackhq/logstack/internal/models"
	"github.com/logstackhq/logstack/internal/storage"
)

// Response helpers (local to avoid import cycle with api package)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	errCodeNotFound      = "NOT_FOUND"
	errCodeInternalError = "INTERNAL_ERROR"
)

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"error": errorBody{Code: code, Message: message}}); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]any{"data": data}); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

// Handler handles alert endpoints.
type Handler struct {
	alerts storage.AlertRepository
}

// NewHandler creates a new alerts handler.
func NewHandler(alerts storage.AlertRepository) *Handler {
	return &Handler{alerts: alerts}
}

// List returns alerts produced by the authenticated user's triggers,
// newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	alerts, err := h.alerts.ListByOwner(r.Context(), userID)
	if err != nil {
		log.Printf("list alerts: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if alerts == nil {
		alerts = []*models.Alert{}
	}

	jsonOK(w, alerts)
}

// GetByID returns one alert.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	alert, err := h.alerts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			jsonError(w, http.StatusNotFound, errCodeNotFound, "alert not found")
			return
		}
		log.Printf("get alert: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	jsonOK(w, alert)
}

// Acknowledge marks an alert visualized. The transition is one-way and
// idempotent: acknowledging an already visualized alert returns the
// same visualized state without error.
func (h *Handler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.alerts.SetVisualized(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			jsonError(w, http.StatusNotFound, errCodeNotFound, "alert not found")
			return
		}
		log.Printf("acknowledge alert: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	h.respondWithAlert(w, r, id)
}

// Archive soft-hides an alert. Archiving an already archived alert is a
// no-op success.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

// Unarchive reverses archival; a no-op success when not archived.
func (h *Handler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *Handler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	id := chi.URLParam(r, "id")

	if err := h.alerts.SetArchived(r.Context(), id, archived); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			jsonError(w, http.StatusNotFound, errCodeNotFound, "alert not found")
			return
		}
		log.Printf("set alert archived: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	h.respondWithAlert(w, r, id)
}

func (h *Handler) respondWithAlert(w http.ResponseWriter, r *http.Request, id string) {
	alert, err := h.alerts.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("get alert after update: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	jsonOK(w, alert)
}
