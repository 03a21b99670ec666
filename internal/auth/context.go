package auth

import "context"

type contextKey string

const sessionContextKey contextKey = "session"

// WithSession adds the validated session claims to the context
func WithSession(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, sessionContextKey, claims)
}

// FromContext extracts the session claims from the context
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(sessionContextKey).(*Claims)
	return claims, ok
}
