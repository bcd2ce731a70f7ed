// Package config handles configuration loading for resonatr.
//
// # Overview
//
// Configuration is loaded from a YAML or TOML file with environment variable
// expansion. Optional fields get defaults and the result is validated before use.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from RESONATR_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/resonatr/config.yaml
//  3. ~/.config/resonatr/config.yaml
//
// A path ending in .toml is parsed as TOML; anything else as YAML.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${RESONATR_JWT_SECRET}"
//
// The CLI loads a .env file from the working directory first, so the referenced
// variables may live there.
//
// # Configuration Sections
//
//	server:
//	  http_addr: "localhost:8080"
//
//	tailscale:
//	  enabled: false
//	  hostname: "resonatr"
//	  auth_key: "${TS_AUTHKEY}"
//	  state_dir: "/var/lib/resonatr/tsnet"
//	  ephemeral: false
//
//	database:
//	  path: "~/.local/share/resonatr/resonatr.db"
//
//	auth:
//	  jwt_secret: "${RESONATR_JWT_SECRET}"  # at least 32 bytes
//	  session_ttl: "720h"
//	  token_ttl: "24h"
//	  cookie_name: "resonatr_session"
//	  cookie_secure: true
//
//	calendar:
//	  timezone: "Europe/Berlin"  # empty for the server's local zone
//	  recent_window_days: 2
//
//	cache:
//	  ttl: "5m"  # "0s" disables the dashboard cache
//	  max_entries: 1000
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text or json
//
// Duration values use Go's time.ParseDuration syntax.
package config
