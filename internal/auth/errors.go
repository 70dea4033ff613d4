package auth

import "errors"

// Token and identity failures. Callers answer all of them with the same
// "not authenticated" response; the distinction is kept for logs and metrics.
var (
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrExpired          = errors.New("token expired")
	ErrMalformed        = errors.New("malformed token")
	ErrUnknownSubject   = errors.New("unknown token subject")
	ErrInactiveSubject  = errors.New("inactive token subject")
	ErrMissingToken     = errors.New("missing bearer token")
)

// Reason returns a stable label for an authentication failure.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrUnknownSubject):
		return "unknown_subject"
	case errors.Is(err, ErrInactiveSubject):
		return "inactive_subject"
	case errors.Is(err, ErrMissingToken):
		return "missing_token"
	default:
		return "internal"
	}
}

// IsAuthError reports whether err is one of the token or identity failures.
func IsAuthError(err error) bool {
	r := Reason(err)
	return r != "" && r != "internal"
}
