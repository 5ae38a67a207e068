// Package common contains shared constants used across
// quizstate components.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme prefixes the credential in the Authorization header.
	BearerScheme = "Bearer "

	// RequestIDHeaderName tags every outbound request for server-side correlation.
	RequestIDHeaderName = "X-Request-ID"
)

// Durable cache keys.
const (
	CacheKeyToken = "token"
	CacheKeyUser  = "user"
)
