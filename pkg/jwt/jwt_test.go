package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	manager := NewManager("test-secret")

	token, err := manager.GenerateAccessToken("user-1", "clerk@example.com", "store_staff", []string{"ST-001", "ST-002"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "clerk@example.com", claims.Email)
	assert.Equal(t, "store_staff", claims.Role)
	assert.Equal(t, []string{"ST-001", "ST-002"}, claims.StoreCodes)
	assert.Equal(t, "access", claims.Type)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a").GenerateAccessToken("user-1", "a@example.com", "store_staff", nil)
	require.NoError(t, err)

	_, err = NewManager("secret-b").ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_RejectsNonAccessType(t *testing.T) {
	secret := "test-secret"
	claims := Claims{
		UserID: "user-1",
		Type:   "refresh",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewManager(secret).ValidateAccessToken(token)
	assert.ErrorContains(t, err, "not an access token")
}

func TestValidateToken_Expired(t *testing.T) {
	secret := "test-secret"
	claims := Claims{
		UserID: "user-1",
		Type:   "access",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewManager(secret).ValidateToken(token)
	assert.Error(t, err)
}
