package service

import (
	"errors"
	"testing"
	"time"

	autherror "github.com/aryamansrivastava/account-service/internal/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		expiry time.Duration
	}{
		{name: "valid parameters", secret: "secret-key", expiry: 8 * time.Hour},
		{name: "empty secret", secret: "", expiry: time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := NewTokenService(tt.secret, tt.expiry)

			assert.NotNil(t, ts)
			assert.Equal(t, tt.secret, ts.Secret)
			assert.Equal(t, tt.expiry, ts.GetTokenExpiry())
		})
	}
}

func TestTokenService_Issue(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ts := NewTokenService("test-secret-key-123", 8*time.Hour)
	ts.now = func() time.Time { return now }

	token, err := ts.Issue("user-123", "test@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims := &JWTCustomClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret-key-123"), nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, jwt.SigningMethodHS256.Alg(), parsed.Method.Alg())

	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, now.Add(8*time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
}

func TestTokenService_Issue_MissingSecret(t *testing.T) {
	ts := NewTokenService("", 8*time.Hour)

	token, err := ts.Issue("user-123", "test@example.com")

	assert.ErrorIs(t, err, autherror.ErrMissingSigningSecret)
	assert.Empty(t, token)
}

func TestTokenService_Verify(t *testing.T) {
	issuedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ts := NewTokenService("test-secret", 8*time.Hour)
	ts.now = func() time.Time { return issuedAt }

	token, err := ts.Issue("user-123", "test@example.com")
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		claims, err := ts.Verify(token)

		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UserID)
		assert.Equal(t, "test@example.com", claims.Email)
	})

	t.Run("just before expiry", func(t *testing.T) {
		late := NewTokenService("test-secret", 8*time.Hour)
		late.now = func() time.Time { return issuedAt.Add(8*time.Hour - time.Second) }

		_, err := late.Verify(token)

		assert.NoError(t, err)
	})

	t.Run("after expiry", func(t *testing.T) {
		late := NewTokenService("test-secret", 8*time.Hour)
		late.now = func() time.Time { return issuedAt.Add(8*time.Hour + time.Second) }

		_, err := late.Verify(token)

		assert.ErrorIs(t, err, autherror.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService("wrong-secret", 8*time.Hour)
		other.now = ts.now

		_, err := other.Verify(token)

		assert.ErrorIs(t, err, autherror.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ts.Verify("not.a.token")

		assert.ErrorIs(t, err, autherror.ErrInvalidToken)
	})

	t.Run("missing secret", func(t *testing.T) {
		_, err := NewTokenService("", time.Hour).Verify(token)

		assert.ErrorIs(t, err, autherror.ErrMissingSigningSecret)
		assert.False(t, errors.Is(err, autherror.ErrInvalidToken))
	})
}

func TestTokenService_Verify_RejectsOtherAlgorithms(t *testing.T) {
	claims := JWTCustomClaims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService("test-secret", time.Hour).Verify(unsigned)

	assert.ErrorIs(t, err, autherror.ErrInvalidToken)
}

func TestTokenService_Verify_RequiresExpiry(t *testing.T) {
	claims := JWTCustomClaims{UserID: "user-123"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewTokenService("test-secret", time.Hour).Verify(token)

	assert.ErrorIs(t, err, autherror.ErrInvalidToken)
}
