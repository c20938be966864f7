package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/supabase-community/gotrue-go/types"
)

// IdentityService resolves the caller from a session and delegates sign in
// and refresh to the identity provider.
type IdentityService struct {
	identityRepo models.IdentityRepo
	validator    *helpers.TokenValidator
}

func NewIdentityService(identityRepo models.IdentityRepo, validator *helpers.TokenValidator) *IdentityService {
	return &IdentityService{
		identityRepo: identityRepo,
		validator:    validator,
	}
}

// CurrentPrincipal returns the principal for an access token, or nil when
// the token is missing or cannot be verified.
func (is *IdentityService) CurrentPrincipal(accessToken string) *models.Principal {
	p, err := is.PrincipalFromToken(accessToken)
	if err != nil {
		return nil
	}
	return p
}

func (is *IdentityService) PrincipalFromToken(accessToken string) (*models.Principal, error) {
	if is == nil || is.validator == nil {
		return nil, models.ErrIdentityUnavailable
	}
	claims, err := is.validator.ValidateToken(accessToken)
	if err != nil {
		return nil, err
	}
	return claims.Principal(), nil
}

func (is *IdentityService) AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, models.NewValidationError("email", "must be a valid email address")
	}
	if err := models.Validate.Var(password, "required,min=6"); err != nil {
		return nil, models.NewValidationError("password", "must be at least 6 characters")
	}
	if is.identityRepo == nil {
		return nil, models.ErrIdentityUnavailable
	}
	response, err := is.identityRepo.AuthenticateUser(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthenticated, err)
	}
	return response, nil
}

func (is *IdentityService) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if refreshToken == "" {
		return nil, models.NewValidationError("refresh_token", "is required")
	}
	if is.identityRepo == nil {
		return nil, models.ErrIdentityUnavailable
	}
	response, err := is.identityRepo.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthenticated, err)
	}
	return response, nil
}
