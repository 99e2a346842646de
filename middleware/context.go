package middleware

import (
	"context"

	"github.com/SamuelNetzer/Netzer-SingleSign/identity"
)

// Context key type to avoid collisions
type contextKey string

const (
	// TokenKey is the context key for the verified identity token
	TokenKey contextKey = "identity_token"
)

// WithToken adds a verified identity token to the context
func WithToken(ctx context.Context, token *identity.Token) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}

// GetTokenFromContext retrieves the verified identity token from context.
// Returns nil when the request did not pass RequireAuth.
func GetTokenFromContext(ctx context.Context) *identity.Token {
	if val := ctx.Value(TokenKey); val != nil {
		if token, ok := val.(*identity.Token); ok {
			return token
		}
	}
	return nil
}
