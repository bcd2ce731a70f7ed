// ABOUTME: Event endpoints: create, list, recent window, get, patch and delete
// ABOUTME: Mutations answer with a success flag the calendar UI checks before refreshing

package api

import (
	"net/http"
	"time"

	"github.com/resonatr/studio/internal/content"
	"github.com/resonatr/studio/internal/store"
)

type eventJSON struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Color       string    `json:"color"`
	Platform    string    `json:"platform"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toEventJSON(e *store.Event) eventJSON {
	return eventJSON{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Start:       e.Start,
		End:         e.End,
		Color:       e.Color,
		Platform:    e.Platform,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toEventsJSON(events []*store.Event) []eventJSON {
	out := make([]eventJSON, 0, len(events))
	for _, e := range events {
		out = append(out, toEventJSON(e))
	}
	return out
}

// Times are RFC 3339. A missing start or end decodes as the zero time, which the
// service rejects as a validation error.
type createEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Color       string    `json:"color"`
	Platform    string    `json:"platform"`
	Status      string    `json:"status"`
}

type updateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Start       *time.Time `json:"start"`
	End         *time.Time `json:"end"`
	Color       *string    `json:"color"`
	Platform    *string    `json:"platform"`
	Status      *string    `json:"status"`
}

type createEventResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := h.events.Create(r.Context(), content.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
		Color:       req.Color,
		Platform:    req.Platform,
		Status:      req.Status,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createEventResponse{ID: id, Success: true})
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventsJSON(events))
}

func (h *Handler) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListRecentAroundToday(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventsJSON(events))
}

func (h *Handler) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventJSON(event))
}

func (h *Handler) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req updateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.events.Update(r.Context(), r.PathValue("id"), content.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
		Color:       req.Color,
		Platform:    req.Platform,
		Status:      req.Status,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.events.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
