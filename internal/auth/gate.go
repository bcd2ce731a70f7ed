// ABOUTME: HTTP middleware that resolves the caller from a bearer token or session cookie
// ABOUTME: Attaches Identity to the request context and manages the session cookie

package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/resonatr/studio/internal/store"
)

// AccountLookup is the read side of the account store used by the Gate.
type AccountLookup interface {
	GetUser(ctx context.Context, id string) (*store.User, error)
	GetSession(ctx context.Context, id string) (*store.Session, error)
}

// Gate authenticates HTTP requests.
type Gate struct {
	accounts     AccountLookup
	verifier     TokenVerifier
	cookieName   string
	cookieSecure bool
	logger       *slog.Logger
}

// NewGate creates a Gate. cookieSecure marks the session cookie Secure.
func NewGate(accounts AccountLookup, verifier TokenVerifier, cookieName string, cookieSecure bool, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		accounts:     accounts,
		verifier:     verifier,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		logger:       logger.With("component", "auth"),
	}
}

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// Authenticate resolves the caller of r. A present Authorization header takes
// precedence over the session cookie and is never silently ignored.
func (g *Gate) Authenticate(r *http.Request) (*Identity, error) {
	ctx := r.Context()

	if header := r.Header.Get("Authorization"); header != "" {
		token, errMsg := extractBearerToken(header)
		if errMsg != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, errMsg)
		}
		userID, err := g.verifier.Verify(token)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return g.identityFor(ctx, userID, "")
	}

	cookie, err := r.Cookie(g.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrUnauthorized
	}
	session, err := g.accounts.GetSession(ctx, cookie.Value)
	if errors.Is(err, store.ErrSessionNotFound) {
		return nil, fmt.Errorf("%w: session expired or unknown", ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up session: %w", err)
	}
	return g.identityFor(ctx, session.UserID, session.ID)
}

func (g *Gate) identityFor(ctx context.Context, userID, sessionID string) (*Identity, error) {
	user, err := g.accounts.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	return &Identity{UserID: user.ID, Email: user.Email, SessionID: sessionID}, nil
}

// Middleware attaches the caller's Identity when one resolves and otherwise lets the
// request continue anonymously. Handlers reject anonymous callers via Resolve. A
// storage failure while resolving ends the request with 500.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := g.Authenticate(r)
		if err != nil {
			if !errors.Is(err, ErrUnauthorized) {
				g.logger.Error("authentication lookup failed", "error", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				io.WriteString(w, `{"error":"internal server error"}`+"\n")
				return
			}
			if r.Header.Get("Authorization") != "" {
				g.logger.Debug("rejected bearer token", "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// SetSessionCookie writes the session cookie for a freshly created session.
func (g *Gate) SetSessionCookie(w http.ResponseWriter, session *store.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.cookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   g.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie in the browser.
func (g *Gate) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionID returns the raw session cookie value, or "" when absent.
func (g *Gate) SessionID(r *http.Request) string {
	cookie, err := r.Cookie(g.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
