// Package api serves the resonatr JSON API over net/http.
//
// Every route runs behind auth.Gate middleware, which attaches the caller's
// identity from a bearer token or session cookie when one resolves. Handlers never
// check identity themselves; the content services reject anonymous callers and
// writeError turns that into 401.
//
// # Status Codes
//
//   - 400: invalid JSON, unknown body fields, or a validation error (with "field")
//   - 401: no identity, or bad login credentials
//   - 404: the record does not exist or belongs to another user
//   - 409: signup with an email that is already registered
//   - 500: storage failure; the body carries only a generic message
package api
