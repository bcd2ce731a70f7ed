// ABOUTME: HTTP JSON API exposing ideas, events, accounts and the dashboard
// ABOUTME: Routes requests to the content services and maps their errors to status codes

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/resonatr/studio/internal/auth"
	"github.com/resonatr/studio/internal/content"
	"github.com/resonatr/studio/internal/store"
)

// maxBodyBytes caps request bodies; idea content is the largest field.
const maxBodyBytes = 1 << 20

// Deps are the services the API routes to.
type Deps struct {
	Ideas     *content.IdeaService
	Events    *content.EventService
	Dashboard *content.Dashboard
	Accounts  *auth.Accounts
	Gate      *auth.Gate
	Logger    *slog.Logger
}

// Handler serves the /api routes.
type Handler struct {
	ideas     *content.IdeaService
	events    *content.EventService
	dashboard *content.Dashboard
	accounts  *auth.Accounts
	gate      *auth.Gate
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a Handler from its dependencies.
func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		ideas:     d.Ideas,
		events:    d.Events,
		dashboard: d.Dashboard,
		accounts:  d.Accounts,
		gate:      d.Gate,
		logger:    logger.With("component", "api"),
		now:       time.Now,
	}
}

// Register adds every API route to mux. Each route runs behind the auth gate,
// which attaches the caller's identity when one resolves.
func (h *Handler) Register(mux *http.ServeMux) {
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, h.gate.Middleware(fn))
	}

	handle("POST /api/ideas", h.handleCreateIdea)
	handle("GET /api/ideas", h.handleListIdeas)
	handle("GET /api/ideas/count", h.handleCountIdeas)
	handle("GET /api/ideas/stages", h.handleStageCounts)
	handle("GET /api/ideas/{id}", h.handleGetIdea)
	handle("PATCH /api/ideas/{id}", h.handleUpdateIdea)
	handle("DELETE /api/ideas/{id}", h.handleDeleteIdea)

	handle("POST /api/events", h.handleCreateEvent)
	handle("GET /api/events", h.handleListEvents)
	handle("GET /api/events/recent", h.handleRecentEvents)
	handle("GET /api/events/calendar.ics", h.handleCalendarFeed)
	handle("GET /api/events/{id}", h.handleGetEvent)
	handle("PATCH /api/events/{id}", h.handleUpdateEvent)
	handle("DELETE /api/events/{id}", h.handleDeleteEvent)

	handle("POST /api/auth/signup", h.handleSignUp)
	handle("POST /api/auth/login", h.handleLogin)
	handle("POST /api/auth/logout", h.handleLogout)
	handle("GET /api/auth/me", h.handleMe)

	handle("GET /api/dashboard", h.handleDashboard)
}

// Routes returns a mux serving only the API routes.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// sendJSONError writes a JSON error response with the given status code and message.
func sendJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeError maps service errors to HTTP responses. Unexpected causes are logged and
// never returned to the client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *content.ValidationError
	var input *auth.InputError
	var opErr *content.OperationError

	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		sendJSONError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, auth.ErrInvalidCredentials):
		sendJSONError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validation.Message, Field: validation.Field})
	case errors.As(err, &input):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: input.Message, Field: input.Field})
	case errors.Is(err, content.ErrNotFound):
		sendJSONError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrEmailExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "email already registered", Field: "email"})
	case errors.As(err, &opErr):
		// already logged with its cause by the service
		sendJSONError(w, http.StatusInternalServerError, opErr.Error())
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a JSON body into v, rejecting unknown fields so clients cannot
// smuggle in columns like the owner or id.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
