// ABOUTME: bootstrap and token commands that create accounts and mint bearer tokens
// ABOUTME: Talks to the SQLite store directly; the server does not need to be running

package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/resonatr/studio/internal/auth"
	"github.com/resonatr/studio/internal/config"
	"github.com/resonatr/studio/internal/store"
)

// parseFlags reads "--name value" and "--name=value" pairs for the allowed flag
// names. Positional arguments and unknown flags are errors.
func parseFlags(args []string, allowed ...string) (map[string]string, error) {
	isAllowed := func(name string) bool {
		for _, a := range allowed {
			if a == name {
				return true
			}
		}
		return false
	}

	values := make(map[string]string)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			return nil, fmt.Errorf("unexpected argument: %s", arg)
		}
		name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if !isAllowed(name) {
			return nil, fmt.Errorf("unknown flag: %s", arg)
		}
		if !hasValue {
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--%s requires a value", name)
			}
			value = args[i+1]
			i++
		}
		values[name] = value
	}
	return values, nil
}

// generateSecret returns a random base64 string long enough for auth.jwt_secret.
func generateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// defaultConfig is the config written when none exists yet.
func defaultConfig(dbPath, secret string) *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{HTTPAddr: config.DefaultHTTPAddr},
		Database: config.DatabaseConfig{Path: dbPath},
		Auth: config.AuthConfig{
			JWTSecret:  secret,
			CookieName: config.DefaultCookieName,
			SessionTTL: config.DefaultSessionTTL,
			TokenTTL:   config.DefaultTokenTTL,
		},
		Calendar: config.CalendarConfig{RecentWindowDays: config.DefaultRecentWindowDays},
		Cache:    config.CacheConfig{TTL: config.DefaultCacheTTL, MaxEntries: config.DefaultCacheMaxEntries},
		Logging:  config.LoggingConfig{Level: config.DefaultLogLevel, Format: config.DefaultLogFormat},
	}
}

// loadOrCreateConfig loads the config at path, writing a default one with a fresh
// JWT secret first when the file does not exist.
func loadOrCreateConfig(path, dataPath string, out io.Writer) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		secret, err := generateSecret()
		if err != nil {
			return nil, fmt.Errorf("generating JWT secret: %w", err)
		}
		if err := config.Write(path, defaultConfig(filepath.Join(dataPath, "resonatr.db"), secret)); err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "  ✓ Created config: %s\n", path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// openAccounts opens the store and an Accounts service over it. The caller closes
// the store.
func openAccounts(cfg *config.Config) (*auth.Accounts, *store.SQLiteStore, error) {
	logger := setupLogger(config.LoggingConfig{Level: "warn", Format: cfg.Logging.Format}, os.Stderr)

	verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return nil, nil, fmt.Errorf("creating JWT verifier: %w", err)
	}
	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return auth.NewAccounts(s, verifier, cfg.Auth.SessionTTL, cfg.Auth.TokenTTL, logger), s, nil
}

// saveToken writes token next to the config file for scripts to read.
func saveToken(configPath, token string) (string, error) {
	tokenPath := filepath.Join(filepath.Dir(configPath), "token")
	if err := os.WriteFile(tokenPath, []byte(token), 0600); err != nil {
		return "", fmt.Errorf("writing token file: %w", err)
	}
	return tokenPath, nil
}

// runBootstrap performs first-time setup:
// 1. Creates the config file with a random JWT secret (if missing)
// 2. Creates the database and the first account
// 3. Issues a bearer token for that account
//
// The password comes from --password or RESONATR_BOOTSTRAP_PASSWORD; when neither
// is set a random one is generated and printed once.
func runBootstrap(ctx context.Context, args []string) error {
	flags, err := parseFlags(args, "email", "name", "password")
	if err != nil {
		return err
	}
	email := strings.TrimSpace(flags["email"])
	name := strings.TrimSpace(flags["name"])
	if email == "" || name == "" {
		return errors.New("--email and --name are required")
	}

	password := flags["password"]
	if password == "" {
		password = os.Getenv("RESONATR_BOOTSTRAP_PASSWORD")
	}
	generated := false
	if password == "" {
		if password, err = generateSecret(); err != nil {
			return fmt.Errorf("generating password: %w", err)
		}
		generated = true
	}

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	configPath := getConfigPath()
	cfg, err := loadOrCreateConfig(configPath, getDataPath(), os.Stdout)
	if err != nil {
		return err
	}

	accounts, s, err := openAccounts(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	green.Printf("  ✓ Database: %s\n", cfg.Database.Path)

	count, err := s.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("checking users: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("bootstrap already complete: %d account(s) exist", count)
	}

	user, err := accounts.SignUp(ctx, name, email, password)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}
	green.Printf("  ✓ Created account: %s <%s>\n", user.Name, user.Email)

	token, err := accounts.IssueToken(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("issuing token: %w", err)
	}
	tokenPath, err := saveToken(configPath, token)
	if err != nil {
		return err
	}
	green.Printf("  ✓ Saved token: %s\n", tokenPath)

	fmt.Println()
	green.Println("  Bootstrap complete!")
	fmt.Println()
	cyan.Println("  Account")
	cyan.Println("  -------")
	fmt.Printf("  ID:     %s\n", user.ID)
	fmt.Printf("  Name:   %s\n", user.Name)
	fmt.Printf("  Email:  %s\n", user.Email)
	if generated {
		fmt.Printf("  Password: %s\n", password)
		yellow.Println("  (generated; shown only once)")
	}
	fmt.Printf("  Token:  %s (expires %s)\n", tokenPath, time.Now().Add(cfg.Auth.TokenTTL).Format("Jan 02, 2006 15:04"))
	fmt.Println()

	yellow.Println("  Ready to go:")
	fmt.Println("    resonatr serve")
	fmt.Printf("    curl -H \"Authorization: Bearer $(cat %s)\" http://%s/api/auth/me\n", tokenPath, cfg.Server.HTTPAddr)
	fmt.Println()
	return nil
}

// runToken issues a fresh bearer token for an existing account and prints it.
func runToken(ctx context.Context, args []string) error {
	flags, err := parseFlags(args, "email")
	if err != nil {
		return err
	}
	email := strings.TrimSpace(flags["email"])
	if email == "" {
		return errors.New("--email is required")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	accounts, s, err := openAccounts(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	token, err := accounts.IssueToken(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no account with email %s", email)
	}
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
