// ABOUTME: Account endpoints: signup, login, logout and the current user
// ABOUTME: Login sets the HttpOnly session cookie and also returns a bearer token

package api

import (
	"net/http"
	"time"

	"github.com/resonatr/studio/internal/store"
)

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userJSON struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type loginResponse struct {
	Token            string    `json:"token"`
	SessionExpiresAt time.Time `json:"session_expires_at"`
	User             userJSON  `json:"user"`
}

func toUserJSON(u *store.User) userJSON {
	return userJSON{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserJSON(user))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.gate.SetSessionCookie(w, result.Session)
	writeJSON(w, http.StatusOK, loginResponse{
		Token:            result.Token,
		SessionExpiresAt: result.Session.ExpiresAt,
		User:             toUserJSON(result.User),
	})
}

// handleLogout ends the cookie session if there is one. Bearer tokens are stateless
// and simply expire.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Logout(r.Context(), h.gate.SessionID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.gate.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.Me(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserJSON(user))
}
