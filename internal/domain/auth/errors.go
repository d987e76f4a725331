package auth

import "errors"

var (
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrInvalidToken             = errors.New("invalid or expired token")
	ErrTokenRevoked             = errors.New("token has been revoked")
	ErrGoogleLoginDisabled      = errors.New("google login is not configured")
	ErrGoogleEmailNotVerified   = errors.New("google account email is not verified")
	ErrGoogleAccessDeniedByUser = errors.New("google access denied by user")
	ErrStateCookieMismatch      = errors.New("oauth state mismatch")
)
