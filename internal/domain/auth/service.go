package auth

import (
	"context"
	"time"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)

	// GoogleLoginURL returns the consent URL and the state value it carries.
	GoogleLoginURL() (url string, state string, err error)
	LoginWithGoogle(ctx context.Context, code string) (TokenResponse, error)

	// Logout rejects the token identified by jti until it expires.
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}
