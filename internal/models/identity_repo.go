package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/supabase-community/gotrue-go/types"
)

// ErrIdentityUnavailable is returned when no identity provider is configured.
var ErrIdentityUnavailable = errors.New("identity provider not configured")

// IdentityRepo delegates credential checks and session refresh to the
// external identity provider.
type IdentityRepo interface {
	AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
}

func (su *SupabaseRepo) AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	if su.supabaseClient == nil {
		return nil, ErrIdentityUnavailable
	}
	resp, err := su.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}
	return resp, nil
}

func (su *SupabaseRepo) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if su.supabaseClient == nil {
		return nil, ErrIdentityUnavailable
	}
	resp, err := su.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return resp, nil
}
