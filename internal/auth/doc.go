// Package auth resolves the calling user for resonatr requests.
//
// # Identity
//
// Every request that reaches a content operation carries at most one Identity in its
// context. The HTTP Gate attaches it; content services read it back with Resolve and
// refuse to touch storage when it is missing:
//
//	id, err := auth.Resolve(ctx) // err is ErrUnauthorized when no identity is attached
//
// # Session Carriers
//
// Two carriers are accepted, checked in this order:
//
//   - Bearer tokens: "Authorization: Bearer <jwt>", HS256-signed with auth.jwt_secret.
//     The "sub" claim is the user ID. Issued by login and by "resonatr token".
//
//   - Session cookies: an opaque random ID stored in the sessions table. Created by
//     login, removed by logout, and ignored once expired.
//
// # Accounts
//
// Accounts handles signup, login and logout. Passwords are hashed with bcrypt and
// login compares against a dummy hash for unknown emails so response timing does not
// reveal which addresses are registered.
package auth
