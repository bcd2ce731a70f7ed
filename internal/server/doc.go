// Package server assembles a running resonatr instance.
//
// New opens the SQLite store and wires the content services, the dashboard view
// cache, accounts and the auth gate into one net/http mux, alongside the
// unauthenticated /health and /health/ready endpoints. Run listens on either a
// plain TCP address or, when tailscale.enabled is set, on a tsnet node joined to
// the tailnet, and shuts everything down when its context is canceled.
package server
