package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeys(t *testing.T) *Keys {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicDER,
	})

	keys, err := NewKeys(privatePEM, publicPEM)
	require.NoError(t, err)
	return keys
}

func TestGenerateAndValidateToken(t *testing.T) {
	keys := testKeys(t)

	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "pos-service",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Role: RoleAdmin,
	}

	token, err := keys.GenerateToken(claims)
	require.NoError(t, err)

	parsed, err := keys.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.Subject)
	assert.Equal(t, RoleAdmin, parsed.Role)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	keys := testKeys(t)

	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		},
		Role: RoleCashier,
	}

	token, err := keys.GenerateToken(claims)
	require.NoError(t, err)

	_, err = keys.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	keys := testKeys(t)

	_, err := keys.ValidateToken("not-a-token")
	require.Error(t, err)
}

func TestGenerateTokenWithoutPrivateKey(t *testing.T) {
	// Verify-only key set: public key but no private key.
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	verifyOnly, err := NewKeys(nil, publicPEM)
	require.NoError(t, err)

	_, err = verifyOnly.GenerateToken(Claims{Role: RoleAdmin})
	require.Error(t, err)
}
