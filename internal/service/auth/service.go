package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/oauth"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
	revoker jwt.Revoker
	// google is nil while Google login is not configured.
	google oauth.GoogleService
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service, revoker jwt.Revoker, google oauth.GoogleService) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
		revoker:        revoker,
		google:         google,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issue(userData)
}

// GoogleLoginURL implements auth.AuthService.
func (a *AuthServiceImpl) GoogleLoginURL() (string, string, error) {
	if a.google == nil {
		return "", "", auth.ErrGoogleLoginDisabled
	}
	state, err := a.google.GenerateState()
	if err != nil {
		return "", "", err
	}
	return a.google.RedirectURL(state), state, nil
}

// LoginWithGoogle implements auth.AuthService. Accounts are matched by verified
// email and never created here.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, code string) (auth.TokenResponse, error) {
	if a.google == nil {
		return auth.TokenResponse{}, auth.ErrGoogleLoginDisabled
	}

	token, err := a.google.Exchange(ctx, code)
	if err != nil {
		return auth.TokenResponse{}, errors.Join(auth.ErrInvalidCredentials, err)
	}
	info, err := a.google.UserInfo(ctx, token)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to get google user info: %w", err)
	}
	if !info.VerifiedEmail {
		return auth.TokenResponse{}, auth.ErrGoogleEmailNotVerified
	}

	userData, err := a.UserRepository.GetByEmail(ctx, info.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if userData.GoogleID != nil && *userData.GoogleID != info.GoogleID {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issue(userData)
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return auth.ErrInvalidToken
	}
	if err := a.revoker.Revoke(ctx, jti, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke access token: %w", err)
	}
	return nil
}

func (a *AuthServiceImpl) issue(userData user.User) (auth.TokenResponse, error) {
	if !userData.Role.Valid() {
		return auth.TokenResponse{}, fmt.Errorf("%w: %q", user.ErrUnknownRole, userData.Role)
	}

	accessToken, expiresAt, err := a.Service.GenerateAccessToken(userData)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: expiresAt,
		Role:                 string(userData.Role),
	}, nil
}
