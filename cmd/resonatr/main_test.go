// ABOUTME: Tests for CLI path resolution, flag parsing, init and bootstrap
// ABOUTME: Redirects config and data directories into t.TempDir via environment variables

package main

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resonatr/studio/internal/config"
)

func TestGetConfigPath(t *testing.T) {
	t.Setenv("RESONATR_CONFIG", "/etc/resonatr.toml")
	assert.Equal(t, "/etc/resonatr.toml", getConfigPath())

	t.Setenv("RESONATR_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "resonatr", "config.yaml"), getConfigPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, filepath.Join("/home/tester", ".config", "resonatr", "config.yaml"), getConfigPath())
}

func TestGetDataPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, filepath.Join("/data", "resonatr"), getDataPath())
}

func TestParseFlags(t *testing.T) {
	flags, err := parseFlags([]string{"--email", "ana@example.com", "--name=Ana Lopez"}, "email", "name")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", flags["email"])
	assert.Equal(t, "Ana Lopez", flags["name"])

	_, err = parseFlags([]string{"--email"}, "email")
	assert.ErrorContains(t, err, "requires a value")

	_, err = parseFlags([]string{"--role", "owner"}, "email")
	assert.ErrorContains(t, err, "unknown flag")

	_, err = parseFlags([]string{"stray"}, "email")
	assert.ErrorContains(t, err, "unexpected argument")
}

func TestInitConfig_WritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	configPath := filepath.Join(dir, "conf", "resonatr.toml")

	// config path, database path, HTTP address, secure cookies, timezone,
	// window days, tailscale, log level, log format
	answers := strings.Join([]string{
		configPath, "", "127.0.0.1:9090", "", "UTC", "3", "", "debug", "json",
	}, "\n") + "\n"

	var out bytes.Buffer
	require.NoError(t, initConfig(bufio.NewReader(strings.NewReader(answers)), &out))
	assert.Contains(t, out.String(), "Config written to "+configPath)

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.HTTPAddr)
	assert.Equal(t, filepath.Join(dir, "resonatr", "resonatr.db"), cfg.Database.Path)
	assert.Equal(t, "UTC", cfg.Calendar.Timezone)
	assert.Equal(t, 3, cfg.Calendar.RecentWindowDays)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.GreaterOrEqual(t, len(cfg.Auth.JWTSecret), 32)

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestInitConfig_KeepsExistingFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("keep me"), 0600))

	var out bytes.Buffer
	input := configPath + "\nno\n"
	require.NoError(t, initConfig(bufio.NewReader(strings.NewReader(input)), &out))
	assert.Contains(t, out.String(), "Aborted.")

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))
}

func TestBootstrapAndToken(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	t.Setenv("RESONATR_CONFIG", configPath)
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("RESONATR_BOOTSTRAP_PASSWORD", "password123")
	ctx := context.Background()

	require.NoError(t, runBootstrap(ctx, []string{"--email", "ana@example.com", "--name", "Ana"}))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "resonatr", "resonatr.db"), cfg.Database.Path)

	token, err := os.ReadFile(filepath.Join(dir, "token"))
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	err = runBootstrap(ctx, []string{"--email", "ben@example.com", "--name", "Ben"})
	assert.ErrorContains(t, err, "already complete")

	assert.NoError(t, runToken(ctx, []string{"--email", "ana@example.com"}))
	assert.ErrorContains(t, runToken(ctx, []string{"--email", "nobody@example.com"}), "no account")
}

func TestColorHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&colorHandler{out: &buf, mu: new(sync.Mutex), level: slog.LevelInfo})

	logger.Debug("hidden")
	logger.With("component", "api").WithGroup("req").Info("handled", "status", 200)

	line := buf.String()
	assert.NotContains(t, line, "hidden")
	assert.Contains(t, line, "handled")
	assert.Contains(t, line, "status=")
	assert.Contains(t, line, "200")
	assert.Equal(t, 1, strings.Count(line, "\n"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
