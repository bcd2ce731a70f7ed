// ABOUTME: Read-only views: the dashboard summary and the iCalendar feed
// ABOUTME: Both are derived from the caller's ideas and events

package api

import (
	"net/http"

	"github.com/resonatr/studio/internal/auth"
	"github.com/resonatr/studio/internal/calendar"
)

type dashboardResponse struct {
	IdeaCount    int            `json:"idea_count"`
	StageCounts  map[string]int `json:"stage_counts"`
	RecentIdeas  []ideaJSON     `json:"recent_ideas"`
	RecentEvents []eventJSON    `json:"recent_events"`
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.Summary(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{
		IdeaCount:    summary.IdeaCount,
		StageCounts:  summary.StageCounts,
		RecentIdeas:  toIdeasJSON(summary.RecentIdeas),
		RecentEvents: toEventsJSON(summary.RecentEvents),
	})
}

func (h *Handler) handleCalendarFeed(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	name := "resonatr"
	if id, err := auth.Resolve(r.Context()); err == nil && id.Email != "" {
		name = "resonatr: " + id.Email
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="resonatr.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(calendar.Feed(name, events, h.now())))
}
