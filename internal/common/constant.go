// Package common contains shared constants and sentinel errors used across
// tiernerd components.
package common

const (
	// AuthorizationHeader carries the bearer credential on outbound requests.
	AuthorizationHeader = "Authorization"

	// BearerPrefix precedes the access token in AuthorizationHeader.
	BearerPrefix = "Bearer "

	// RequestIDHeader correlates client log lines with server log lines.
	RequestIDHeader = "X-Request-ID"

	// TokenTypeBearer is the token_type value returned by the token endpoint.
	TokenTypeBearer = "bearer"
)
