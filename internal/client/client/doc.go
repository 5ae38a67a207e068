// Package client contains the transport side of the quiz platform client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the API interface) covering
//     authentication, profile, quizzes, shop, statistics and admin endpoints.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient) that attaches
//     the bearer credential from a TokenSource, tags requests with an id,
//     optionally paces outbound calls, and maps failures to sentinel errors.
//  3. Durable cache bootstrap (InitDatabase, RunMigrations) wiring an SQLite
//     database and applying embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable; undecodable 2xx bodies wrap
// ErrBadResponse; rejected requests are *APIError carrying the server's
// message when the body had one. 401/403 match ErrUnauthorized via errors.Is.
// Nothing is retried.
package client
