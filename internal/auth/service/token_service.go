package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/aryamansrivastava/account-service/internal/auth/service TokenGenerator

import (
	"fmt"
	"time"

	autherror "github.com/aryamansrivastava/account-service/internal/errors"
	"github.com/golang-jwt/jwt/v5"
)

type TokenGenerator interface {
	Issue(userID, email string) (string, error)
	Verify(tokenString string) (*JWTCustomClaims, error)
	GetTokenExpiry() time.Duration
}

type TokenService struct {
	Secret      string
	TokenExpiry time.Duration
	now         func() time.Time
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Email  string `json:"email"`
}

func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{
		Secret:      secret,
		TokenExpiry: expiry,
		now:         time.Now,
	}
}

// Issue signs an HS256 token for the subject. It refuses to sign without a secret.
func (ts *TokenService) Issue(userID, email string) (string, error) {
	if ts.Secret == "" {
		return "", autherror.ErrMissingSigningSecret
	}

	now := ts.now()
	claims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (ts *TokenService) GetTokenExpiry() time.Duration {
	return ts.TokenExpiry
}

// Verify parses and validates the token. Every parse, signature or expiry
// failure is reported as ErrInvalidToken.
func (ts *TokenService) Verify(tokenString string) (*JWTCustomClaims, error) {
	if ts.Secret == "" {
		return nil, autherror.ErrMissingSigningSecret
	}

	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.Secret), nil
	},
		jwt.WithTimeFunc(ts.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, autherror.ErrInvalidToken
	}

	return claims, nil
}
