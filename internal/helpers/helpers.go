package helpers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenValidator verifies access tokens issued by the identity provider.
// RS256/ES256 tokens are checked against the provider's JWKS and HS256
// tokens against the shared JWT secret. It is built once at startup.
type TokenValidator struct {
	jwks   *keyfunc.JWKS
	secret []byte
}

var ErrNoVerificationKey = errors.New("no token verification key configured")

func NewTokenValidator(jwksURL, secret string) (*TokenValidator, error) {
	tv := &TokenValidator{secret: []byte(secret)}
	if jwksURL == "" {
		if secret == "" {
			return nil, ErrNoVerificationKey
		}
		return tv, nil
	}

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		if secret == "" {
			return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
		}
		// HS256 verification still works without the JWKS
		return tv, nil
	}
	tv.jwks = jwks
	return tv, nil
}

// NewTokenValidatorFromJWKS builds a validator from an already loaded key set.
func NewTokenValidatorFromJWKS(jwks *keyfunc.JWKS, secret string) *TokenValidator {
	return &TokenValidator{jwks: jwks, secret: []byte(secret)}
}

// JWKSURL derives the identity provider's key set location.
func JWKSURL(supabaseURL string) string {
	if supabaseURL == "" {
		return ""
	}
	return strings.TrimRight(supabaseURL, "/") + "/auth/v1/.well-known/jwks.json"
}

func (tv *TokenValidator) keyfunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if len(tv.secret) == 0 {
			return nil, ErrNoVerificationKey
		}
		return tv.secret, nil
	default:
		if tv.jwks == nil {
			return nil, ErrNoVerificationKey
		}
		return tv.jwks.Keyfunc(token)
	}
}

func (tv *TokenValidator) ValidateToken(tokenStr string) (*CustomClaims, error) {
	if tokenStr == "" {
		return nil, errors.New("empty token")
	}
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, tv.keyfunc,
		jwt.WithValidMethods([]string{"HS256", "RS256", "ES256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func (tv *TokenValidator) Close() {
	if tv != nil && tv.jwks != nil {
		tv.jwks.EndBackground()
	}
}
