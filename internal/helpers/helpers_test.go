package helpers

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signHS256(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func TestTokenValidator_HS256(t *testing.T) {
	tv, err := NewTokenValidator("", testSecret)
	require.NoError(t, err)

	tok := signHS256(t, jwt.MapClaims{
		"sub":   "user-1",
		"email": "ada@example.com",
		"role":  "authenticated",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"app_metadata": map[string]any{
			"provider": "email",
			"role":     "admin",
		},
		"user_metadata": map[string]any{
			"full_name": "Ada King Lovelace",
		},
	})

	claims, err := tv.ValidateToken(tok)
	require.NoError(t, err)

	p := claims.Principal()
	assert.Equal(t, "user-1", p.ID)
	assert.Equal(t, models.RoleAdmin, p.Role)
	assert.Equal(t, "Ada", p.FirstName)
	assert.Equal(t, "King Lovelace", p.LastName)
	assert.Equal(t, "ada@example.com", p.Email)
}

func TestTokenValidator_Rejects(t *testing.T) {
	tv, err := NewTokenValidator("", testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"expired", signHS256(t, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Minute).Unix()})},
		{"no expiry", signHS256(t, jwt.MapClaims{"sub": "u"})},
		{"no subject", signHS256(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})},
		{"garbage", "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tv.ValidateToken(tt.token)
			assert.Error(t, err)
		})
	}

	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("a-different-secret"))
	require.NoError(t, err)
	_, err = tv.ValidateToken(other)
	assert.Error(t, err)
}

func TestTokenValidator_RS256ViaJWKS(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwksJSON, err := json.Marshal(map[string]any{
		"keys": []map[string]any{{
			"kty": "RSA",
			"kid": "test-key",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	})
	require.NoError(t, err)
	jwks, err := keyfunc.NewJSON(jwksJSON)
	require.NoError(t, err)

	tv := NewTokenValidatorFromJWKS(jwks, "")

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub":       "user-2",
		"exp":       time.Now().Add(time.Hour).Unix(),
		"user_role": "member",
	})
	tok.Header["kid"] = "test-key"
	signed, err := tok.SignedString(key)
	require.NoError(t, err)

	claims, err := tv.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, claims.AppRole())

	// HS256 tokens are refused when no secret is configured
	_, err = tv.ValidateToken(signHS256(t, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Hour).Unix()}))
	assert.ErrorIs(t, err, ErrNoVerificationKey)
}

func TestNewTokenValidator_RequiresKey(t *testing.T) {
	_, err := NewTokenValidator("", "")
	assert.ErrorIs(t, err, ErrNoVerificationKey)
}

func TestCustomClaims_DefaultRoleAndNames(t *testing.T) {
	c := &CustomClaims{
		Role:         "authenticated",
		UserMetadata: map[string]interface{}{"first_name": " Grace ", "last_name": "Hopper", "phone": "555"},
	}
	c.Subject = "user-3"

	p := c.Principal()
	assert.Equal(t, models.RoleMember, p.Role)
	assert.Equal(t, "Grace", p.FirstName)
	assert.Equal(t, "Hopper", p.LastName)
	assert.Equal(t, "555", p.Phone)

	// a blank claim falls back to member like a missing one
	c.UserRole = "  "
	assert.Equal(t, models.RoleMember, c.AppRole())
}

func TestStringTrim(t *testing.T) {
	assert.Equal(t, "abc", StringTrim(` "abc" `))
	assert.Equal(t, "abc", StringTrim("'abc'"))
}
