// ABOUTME: Idea endpoints: create, list, get, patch, delete and counts
// ABOUTME: Translates JSON bodies into content.IdeaInput and IdeaPatch field masks

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/resonatr/studio/internal/content"
	"github.com/resonatr/studio/internal/store"
)

type ideaJSON struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Platform  string    `json:"platform"`
	Stage     string    `json:"stage"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toIdeaJSON(idea *store.Idea) ideaJSON {
	return ideaJSON{
		ID:        idea.ID,
		Title:     idea.Title,
		Platform:  idea.Platform,
		Stage:     idea.Stage,
		Content:   idea.Content,
		CreatedAt: idea.CreatedAt,
		UpdatedAt: idea.UpdatedAt,
	}
}

func toIdeasJSON(ideas []*store.Idea) []ideaJSON {
	out := make([]ideaJSON, 0, len(ideas))
	for _, idea := range ideas {
		out = append(out, toIdeaJSON(idea))
	}
	return out
}

type createIdeaRequest struct {
	Title         string `json:"title"`
	Platform      string `json:"platform"`
	Stage         string `json:"stage"`
	Content       string `json:"content"`
	ContentFormat string `json:"content_format"`
}

type updateIdeaRequest struct {
	Title         *string `json:"title"`
	Platform      *string `json:"platform"`
	Stage         *string `json:"stage"`
	Content       *string `json:"content"`
	ContentFormat string  `json:"content_format"`
}

type idResponse struct {
	ID string `json:"id"`
}

type countResponse struct {
	Count int `json:"count"`
}

type stageCountsResponse struct {
	Stages map[string]int `json:"stages"`
}

func (h *Handler) handleCreateIdea(w http.ResponseWriter, r *http.Request) {
	var req createIdeaRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := h.ideas.Create(r.Context(), content.IdeaInput{
		Title:         req.Title,
		Platform:      req.Platform,
		Stage:         req.Stage,
		Content:       req.Content,
		ContentFormat: req.ContentFormat,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) handleListIdeas(w http.ResponseWriter, r *http.Request) {
	filter := content.IdeaFilter{Stage: r.URL.Query().Get("stage")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer", Field: "limit"})
			return
		}
		filter.Limit = limit
	}

	ideas, err := h.ideas.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toIdeasJSON(ideas))
}

func (h *Handler) handleCountIdeas(w http.ResponseWriter, r *http.Request) {
	count, err := h.ideas.Count(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: count})
}

func (h *Handler) handleStageCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.ideas.CountByStage(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stageCountsResponse{Stages: counts})
}

func (h *Handler) handleGetIdea(w http.ResponseWriter, r *http.Request) {
	idea, err := h.ideas.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toIdeaJSON(idea))
}

func (h *Handler) handleUpdateIdea(w http.ResponseWriter, r *http.Request) {
	var req updateIdeaRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.ideas.Update(r.Context(), r.PathValue("id"), content.IdeaPatch{
		Title:         req.Title,
		Platform:      req.Platform,
		Stage:         req.Stage,
		Content:       req.Content,
		ContentFormat: req.ContentFormat,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteIdea(w http.ResponseWriter, r *http.Request) {
	if err := h.ideas.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
