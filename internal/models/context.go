package models

import "context"

type accessTokenKey struct{}

// WithAccessToken attaches the caller's access token so store adapters that
// enforce row level security can act on the caller's behalf.
func WithAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, accessTokenKey{}, token)
}

func AccessTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey{}).(string)
	return token, ok && token != ""
}
