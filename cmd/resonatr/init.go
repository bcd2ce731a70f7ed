// ABOUTME: Interactive init command that writes a new config file
// ABOUTME: Prompts for addresses, paths, tailscale and logging, then generates a JWT secret

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/resonatr/studio/internal/config"
)

func runInit() error {
	return initConfig(bufio.NewReader(os.Stdin), os.Stdout)
}

// initConfig runs the init dialogue. Writing to a path ending in .toml produces
// a TOML file.
func initConfig(reader *bufio.Reader, out io.Writer) error {
	fmt.Fprintln(out, "resonatr configuration setup")
	fmt.Fprintln(out, "============================")
	fmt.Fprintln(out)

	defaultDbPath := filepath.Join(getDataPath(), "resonatr.db")

	outputFile := prompt(reader, out, "Config file path", getConfigPath())

	if _, err := os.Stat(outputFile); err == nil {
		if !yes(prompt(reader, out, "File exists. Overwrite?", "no")) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	secret, err := generateSecret()
	if err != nil {
		return fmt.Errorf("generating JWT secret: %w", err)
	}

	fmt.Fprintln(out, "\n--- Server Configuration ---")
	cfg := defaultConfig(prompt(reader, out, "SQLite database path", defaultDbPath), secret)
	cfg.Server.HTTPAddr = prompt(reader, out, "HTTP address", config.DefaultHTTPAddr)
	cfg.Auth.CookieSecure = yes(prompt(reader, out, "Serve cookies over HTTPS only?", "no"))

	fmt.Fprintln(out, "\n--- Calendar Configuration ---")
	cfg.Calendar.Timezone = prompt(reader, out, "Timezone (IANA name, empty for local)", "")
	days := prompt(reader, out, "Days around today shown as recent", strconv.Itoa(config.DefaultRecentWindowDays))
	if n, err := strconv.Atoi(days); err == nil && n > 0 {
		cfg.Calendar.RecentWindowDays = n
	}

	fmt.Fprintln(out, "\n--- Tailscale Configuration ---")
	cfg.Tailscale.Enabled = yes(prompt(reader, out, "Enable Tailscale?", "no"))
	if cfg.Tailscale.Enabled {
		cfg.Server.HTTPAddr = ""
		cfg.Tailscale.Hostname = prompt(reader, out, "Tailscale hostname", "resonatr")
		cfg.Tailscale.AuthKey = prompt(reader, out, "Tailscale auth key (leave empty to use TS_AUTHKEY)", "")
		cfg.Tailscale.Ephemeral = yes(prompt(reader, out, "Ephemeral node?", "no"))
		cfg.Tailscale.HTTPS = yes(prompt(reader, out, "Serve HTTPS with tailnet certificates?", "yes"))
		cfg.Tailscale.Funnel = yes(prompt(reader, out, "Enable Funnel (public HTTPS)?", "no"))
		cfg.Auth.CookieSecure = cfg.Tailscale.HTTPS || cfg.Tailscale.Funnel
	}

	fmt.Fprintln(out, "\n--- Logging Configuration ---")
	cfg.Logging.Level = prompt(reader, out, "Log level (debug/info/warn/error)", config.DefaultLogLevel)
	cfg.Logging.Format = prompt(reader, out, "Log format (text/json)", config.DefaultLogFormat)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := config.Write(outputFile, cfg); err != nil {
		return err
	}

	dataDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	fmt.Fprintf(out, "\nConfig written to %s\n", outputFile)
	fmt.Fprintf(out, "Data directory: %s\n", dataDir)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  resonatr bootstrap --email you@example.com --name \"Your Name\"")
	fmt.Fprintln(out, "  resonatr serve")
	return nil
}

func yes(answer string) bool {
	answer = strings.ToLower(answer)
	return answer == "yes" || answer == "y"
}

func prompt(reader *bufio.Reader, out io.Writer, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Fprintf(out, "%s [%s]: ", question, defaultVal)
	} else {
		fmt.Fprintf(out, "%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		// On EOF or error, return default
		fmt.Fprintln(out)
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}
