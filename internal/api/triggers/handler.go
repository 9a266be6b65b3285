// Package triggers provides HTTP handlers for trigger administration.
package triggers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

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
	errCodeBadRequest       = "BAD_REQUEST"
	errCodeValidationFailed = "VALIDATION_FAILED"
	errCodeForbidden        = "FORBIDDEN"
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

// Handler handles trigger endpoints.
type Handler struct {
	triggers storage.TriggerRepository
}

// NewHandler creates a new triggers handler.
func NewHandler(triggers storage.TriggerRepository) *Handler {
	return &Handler{triggers: triggers}
}

// FilterRequest is the trigger filter as submitted by callers.
type FilterRequest struct {
	Title       string `json:"title"`
	AppName     string `json:"app_name"`
	Host        string `json:"host"`
	IP          string `json:"ip"`
	Environment string `json:"environment"`
	Content     string `json:"content"`
	Level       string `json:"level"`
}

// CreateRequest is the payload for creating a trigger.
type CreateRequest struct {
	Name    string        `json:"name"`
	Message string        `json:"message"`
	Email   string        `json:"email"`
	Filter  FilterRequest `json:"filter"`
	Active  *bool         `json:"active"`
}

// List returns all triggers owned by the authenticated user, including
// inactive and archived ones.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	triggers, err := h.triggers.ListByOwner(r.Context(), userID)
	if err != nil {
		log.Printf("list triggers: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if triggers == nil {
		triggers = []*models.Trigger{}
	}

	jsonOK(w, triggers)
}

// Create creates a new trigger owned by the authenticated user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	trigger, err := h.buildTrigger(&req)
	if err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}
	trigger.ID = uuid.New().String()
	trigger.CreatedBy = userID
	trigger.CreatedAt = time.Now().UTC()

	if err := h.triggers.Create(r.Context(), trigger); err != nil {
		log.Printf("create trigger: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	jsonCreated(w, trigger)
}

// GetByID returns one trigger owned by the authenticated user.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	trigger, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	jsonOK(w, trigger)
}

// Update replaces the editable fields of a trigger.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	trigger, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	updated, err := h.buildTrigger(&req)
	if err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}
	updated.ID = trigger.ID
	updated.Archived = trigger.Archived
	updated.CreatedBy = trigger.CreatedBy
	updated.CreatedAt = trigger.CreatedAt

	if err := h.triggers.Update(r.Context(), updated); err != nil {
		log.Printf("update trigger: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	jsonOK(w, updated)
}

// Activate enables a trigger for matching.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// Deactivate excludes a trigger from matching while keeping it visible.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

// Archive soft-hides a trigger.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

// Unarchive reverses archival; a no-op success when not archived.
func (h *Handler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	trigger, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := h.triggers.SetActive(r.Context(), trigger.ID, active); err != nil {
		log.Printf("set trigger active: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	trigger.Active = active

	jsonOK(w, trigger)
}

func (h *Handler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	trigger, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := h.triggers.SetArchived(r.Context(), trigger.ID, archived); err != nil {
		log.Printf("set trigger archived: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	trigger.Archived = archived

	jsonOK(w, trigger)
}

// loadOwned fetches the trigger from the URL parameter and verifies the
// authenticated user owns it. Writes the error response on failure.
func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request) (*models.Trigger, bool) {
	id := chi.URLParam(r, "id")
	userID := middleware.GetUserID(r.Context())

	trigger, err := h.triggers.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			jsonError(w, http.StatusNotFound, errCodeNotFound, "trigger not found")
			return nil, false
		}
		log.Printf("get trigger: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return nil, false
	}

	if trigger.CreatedBy != userID {
		jsonError(w, http.StatusForbidden, errCodeForbidden, "no access to trigger")
		return nil, false
	}

	return trigger, true
}

// buildTrigger validates a request and converts it into a model.
func (h *Handler) buildTrigger(req *CreateRequest) (*models.Trigger, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if err := validateMessage(req.Message); err != nil {
		return nil, err
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	filter, err := validateFilter(req.Filter)
	if err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return &models.Trigger{
		Name:    req.Name,
		Message: req.Message,
		Email:   req.Email,
		Filter:  filter,
		Active:  active,
	}, nil
}
