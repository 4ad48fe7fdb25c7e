// Package common defines shared sentinel errors used across authgate
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// ErrorUnauthorized is the single opaque outcome for every
	// authentication-shaped failure: unknown email, wrong password,
	// missing/expired/revoked refresh token. Callers must not be able
	// to tell these cases apart.
	ErrorUnauthorized = errors.New("unauthorized")

	// Access-token errors (invalid signature, wrong issuer/audience, malformed).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrMissingSecret is a configuration error surfaced at startup when
	// the JWT signing secret is absent.
	ErrMissingSecret = errors.New("jwt secret is not configured")

	// ErrRateLimited is returned when a client exceeds a rate-limit policy.
	ErrRateLimited = errors.New("rate limited")
)
