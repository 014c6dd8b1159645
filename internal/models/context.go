package models

import (
	"context"
)

type credentialContextKey struct{}

// WithCredential attaches a bearer token to a context. It takes precedence over
// the client's configured token source for calls made with that context.
func WithCredential(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, credentialContextKey{}, token)
}

// CredentialFromContext returns the bearer token attached to ctx, or "" if absent.
func CredentialFromContext(ctx context.Context) string {
	token, _ := ctx.Value(credentialContextKey{}).(string)
	return token
}
