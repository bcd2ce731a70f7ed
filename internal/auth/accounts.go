// ABOUTME: Email/password accounts: signup, login, logout and token issuance
// ABOUTME: Passwords are bcrypt hashed; login creates a cookie session and a bearer token

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/resonatr/studio/internal/store"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

// ErrInvalidCredentials is returned by Login for an unknown email or wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// dummyHash keeps login timing constant when the email is unknown.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// InputError reports a rejected signup field.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return e.Field + ": " + e.Message
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	User    *store.User
	Session *store.Session
	Token   string
}

// Accounts manages users and their sessions.
type Accounts struct {
	store      store.AccountStore
	tokens     *JWTVerifier
	sessionTTL time.Duration
	tokenTTL   time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// NewAccounts creates an Accounts service.
func NewAccounts(s store.AccountStore, tokens *JWTVerifier, sessionTTL, tokenTTL time.Duration, logger *slog.Logger) *Accounts {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accounts{
		store:      s,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		tokenTTL:   tokenTTL,
		now:        time.Now,
		logger:     logger.With("component", "accounts"),
	}
}

// SignUp registers a new user. Returns *InputError for bad input and
// store.ErrEmailExists when the email is taken.
func (a *Accounts) SignUp(ctx context.Context, name, email, password string) (*store.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &InputError{Field: "name", Message: "name is required"}
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return nil, &InputError{Field: "email", Message: "a valid email address is required"}
	}
	if len(password) < MinPasswordLength {
		return nil, &InputError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &store.User{
		ID:           uuid.New().String(),
		Email:        addr.Address,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    a.now().UTC(),
	}
	if err := a.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	a.logger.Info("user signed up", "user_id", user.ID)
	return user, nil
}

// Login checks the password, purges expired sessions, and opens a new session.
func (a *Accounts) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := a.store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if removed, err := a.store.DeleteExpiredSessions(ctx); err != nil {
		a.logger.Warn("failed to purge expired sessions", "error", err)
	} else if removed > 0 {
		a.logger.Debug("purged expired sessions", "count", removed)
	}

	sessionID, err := generateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("generating session id: %w", err)
	}
	now := a.now()
	session := &store.Session{
		ID:        sessionID,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(a.sessionTTL),
	}
	if err := a.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	token, err := a.tokens.Generate(user.ID, a.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	a.logger.Info("user logged in", "user_id", user.ID)
	return &LoginResult{User: user, Session: session, Token: token}, nil
}

// Logout ends a cookie session. An empty or unknown session ID is not an error.
func (a *Accounts) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return a.store.DeleteSession(ctx, sessionID)
}

// Me returns the account of the caller resolved from ctx.
func (a *Accounts) Me(ctx context.Context) (*store.User, error) {
	id, err := Resolve(ctx)
	if err != nil {
		return nil, err
	}
	user, err := a.store.GetUser(ctx, id.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	return user, err
}

// IssueToken mints a bearer token for an existing user without a password check.
// Used by the CLI for scripted API access.
func (a *Accounts) IssueToken(ctx context.Context, email string) (string, error) {
	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("looking up %s: %w", email, err)
	}
	return a.tokens.Generate(user.ID, a.tokenTTL)
}

// generateSecureToken generates a cryptographically secure random hex token
func generateSecureToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
