package auth

import "errors"

// Sentinel errors for the token and identity paths. Handlers map these onto
// HTTP status codes; the messages intentionally do not reveal which part of
// a check failed.
var (
	// ErrInvalidToken covers bad signature, malformed input, wrong signing
	// algorithm and expiry. Tokens are never transiently invalid, so this is
	// terminal for the presented string.
	ErrInvalidToken = errors.New("invalid token")

	// ErrEmailToken marks a failed email-confirmation token. Confirmation
	// links are not credentials, so this maps to 422 rather than 401.
	ErrEmailToken = errors.New("invalid token for email verification")

	// ErrScope marks a token that decoded fine but carries the wrong scope
	// claim for the requested operation.
	ErrScope = errors.New("invalid token scope")

	// ErrUnauthorized is the single failure the identity resolver reports,
	// whether the token failed to decode, had no subject, or named a user
	// that does not exist.
	ErrUnauthorized = errors.New("could not validate credentials")

	// ErrForbidden is returned by the admin guard for non-admin users.
	ErrForbidden = errors.New("insufficient access rights")
)
