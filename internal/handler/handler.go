// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/event-manager/internal/model"
	"github.com/Shivanand-hulikatti/event-manager/internal/repository"
	"github.com/Shivanand-hulikatti/event-manager/internal/service"
	"github.com/Shivanand-hulikatti/event-manager/internal/validation"
)

// EventHandler holds all HTTP handlers for the events API.
type EventHandler struct {
	svc *service.EventService
	log *slog.Logger
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService, log *slog.Logger) *EventHandler {
	return &EventHandler{svc: svc, log: log}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

// fail maps an error from validation or the service onto a response.
// Unexpected errors are logged and never shown to the client.
func (h *EventHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "event not found")
	default:
		h.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// eventID extracts and checks the {id} path parameter.
func eventID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if err := validation.EventID(id); err != nil {
		return "", err
	}
	return id, nil
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	req, err := validation.CreateEvent(r.Body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	event, err := h.svc.CreateEvent(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// ListEvents handles GET /events?limit=&skip=&select=
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	opts, err := validation.ListOptions(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	page, err := h.svc.ListEvents(r.Context(), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// GetEvent handles GET /events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	event, err := h.svc.GetEvent(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// UpdateEvent handles PUT /events/{id}
// Only the submitted fields change.
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	req, err := validation.UpdateEvent(r.Body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	event, err := h.svc.UpdateEvent(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /events/{id}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.DeleteEvent(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// Pinger is satisfied by cache.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck handles GET /health. It reports 503 when the store is down.
func HealthCheck(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Root handles GET /.
func Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello, EventManager"))
}
