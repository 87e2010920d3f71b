package auth

import (
	"testing"
	"time"

	"github.com/freshmart/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-long-enough",
		AccessTokenExpiration: time.Hour,
		Issuer:                "freshmart-test",
	})
}

func TestJWTService_GenerateToken(t *testing.T) {
	service := newTestJWTService()
	userID := uuid.New()

	token, expiresAt, err := service.GenerateToken(userID, "ada@example.com")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
}

func TestJWTService_ValidateToken(t *testing.T) {
	t.Run("accepts a freshly generated token", func(t *testing.T) {
		service := newTestJWTService()
		userID := uuid.New()

		token, _, err := service.GenerateToken(userID, "ada@example.com")
		require.NoError(t, err)

		claims, err := service.ValidateToken(token)

		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "ada@example.com", claims.Email)
		assert.Equal(t, "freshmart-test", claims.Issuer)

		parsed, err := claims.GetUserUUID()
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		service := newTestJWTService()

		claims, err := service.ValidateToken("not.a.token")

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		service := newTestJWTService()
		other := NewJWTService(config.JWTConfig{
			Secret:                "a-completely-different-secret-key",
			AccessTokenExpiration: time.Hour,
			Issuer:                "freshmart-test",
		})

		token, _, err := other.GenerateToken(uuid.New(), "")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		service := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-that-is-long-enough",
			AccessTokenExpiration: -time.Minute,
			Issuer:                "freshmart-test",
		})

		token, _, err := service.GenerateToken(uuid.New(), "")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)

		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects token without user ID", func(t *testing.T) {
		service := newTestJWTService()

		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte("test-secret-key-that-is-long-enough"))
		require.NoError(t, err)

		_, err = service.ValidateToken(signed)

		assert.ErrorIs(t, err, ErrMissingUserID)
	})

	t.Run("rejects token signed with an unexpected method", func(t *testing.T) {
		service := newTestJWTService()

		token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: uuid.New().String()})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.ValidateToken(signed)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTService_GetExpiration(t *testing.T) {
	assert.Equal(t, time.Hour, newTestJWTService().GetExpiration())
}
