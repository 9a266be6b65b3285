// Package logs provides HTTP handlers for log ingestion, search, export
// and archival endpoints.
package logs

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/logstackhq/logstack/internal/api/middleware"
	"github.com/logstackhq/logstack/internal/ingest"
	"github.com/logstackhq/logstack/internal/models"
	"github.com/logstackhq/logstack/internal/search"
	"github.com/logstackhq/logstack/internal/storage"
)

// Response helpers (local to avoid import cycle with api package)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	errCodeBadRequest       = "BAD_REQUEST"
	errCodeValidationFailed = "VALIDATION_FAILED"
	errCodeUnauthorized     = "UNAUTHORIZED"
	errCodeNotFound         = "NOT_FOUND"
	errCodeInternalError    = "INTERNAL_ERROR"
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

func jsonCreated(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]any{"data": data}); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

// Handler handles log endpoints.
type Handler struct {
	pipeline *ingest.Pipeline
	search   *search.Service
	logs     storage.LogRepository
}

// NewHandler creates a new logs handler.
func NewHandler(pipeline *ingest.Pipeline, searchSvc *search.Service, logs storage.LogRepository) *Handler {
	return &Handler{pipeline: pipeline, search: searchSvc, logs: logs}
}

// Ingest accepts a log submission keyed by an application API key.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	apiKey := r.URL.Query().Get("apiKey")
	if apiKey == "" {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "apiKey query parameter is required")
		return
	}

	var req ingest.LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	entry, err := h.pipeline.Ingest(r.Context(), apiKey, &req)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.Is(err, ingest.ErrUnknownAPIKey):
			jsonError(w, http.StatusUnauthorized, errCodeUnauthorized, "unknown api key")
		case errors.As(err, &verr):
			jsonError(w, http.StatusBadRequest, errCodeValidationFailed, verr.Error())
		default:
			log.Printf("ingest log: %v", err)
			jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		}
		return
	}

	jsonCreated(w, entry)
}

// List returns a page of logs matching the query filters, scoped to the
// authenticated user.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	logSearch, err := parseSearch(r, userID)
	if err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}
	page, size := parsePagination(r)

	result, err := h.search.Search(r.Context(), logSearch, page, size)
	if err != nil {
		if errors.Is(err, models.ErrInvalidRange) {
			jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
			return
		}
		log.Printf("search logs: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	jsonOK(w, result)
}

// Export streams all logs matching the query filters as CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	logSearch, err := parseSearch(r, userID)
	if err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}

	// Validate before committing the CSV headers so range errors still
	// reach the caller as a 400, as on the list route.
	if err := logSearch.Validate(); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="logs.csv"`)

	if err := h.search.ExportCSV(r.Context(), logSearch, w); err != nil {
		// Headers are already written; all we can do is log.
		log.Printf("export logs: %v", err)
	}
}

// GetByID returns one log entry.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, err := h.logs.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			jsonError(w, http.StatusNotFound, errCodeNotFound, "log not found")
			return
		}
		log.Printf("get log: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	jsonOK(w, entry)
}

// Archive soft-hides a log entry.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

// Unarchive reverses archival. Unarchiving a never-archived entry is a
// no-op success.
func (h *Handler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *Handler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	id := chi.URLParam(r, "id")

	if err := h.logs.SetArchived(r.Context(), id, archived); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			jsonError(w, http.StatusNotFound, errCodeNotFound, "log not found")
			return
		}
		log.Printf("set log archived: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	entry, err := h.logs.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("get log after archive: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	jsonOK(w, entry)
}
