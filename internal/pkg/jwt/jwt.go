package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

type Service interface {
	GenerateAccessToken(u user.User) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	// ParseClaims rebuilds the principal and token id from verified claims.
	ParseClaims(claims map[string]interface{}) (auth.Principal, string, error)
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	expiration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("parse access token expiration: %w", err)
	}
	return &JWTService{
		accessTokenExpiration: expiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(u user.User) (token string, expiresAt int64, err error) {
	jti, err := uuid.NewV7()
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"jti":         jti.String(),
		"user_id":     u.ID,
		"email":       u.Email,
		"employee_id": valueOrNil(u.EmployeeID),
		"company_id":  valueOrNil(u.CompanyID),
		"role":        string(u.Role),
		"type":        tokenTypeAccess,
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) ParseClaims(claims map[string]interface{}) (auth.Principal, string, error) {
	if tokenType, _ := claims["type"].(string); tokenType != tokenTypeAccess {
		return auth.Principal{}, "", auth.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	jti, _ := claims["jti"].(string)
	if userID == "" || jti == "" {
		return auth.Principal{}, "", auth.ErrInvalidToken
	}

	rawRole, _ := claims["role"].(string)
	role, err := user.ParseRole(rawRole)
	if err != nil {
		return auth.Principal{}, "", errors.Join(auth.ErrInvalidToken, err)
	}

	employeeID, _ := claims["employee_id"].(string)
	companyID, _ := claims["company_id"].(string)

	return auth.Principal{
		UserID:     userID,
		EmployeeID: employeeID,
		CompanyID:  companyID,
		Role:       role,
	}, jti, nil
}

func valueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
