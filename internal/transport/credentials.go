package transport

import (
	"context"
	"os"
	"strings"
)

// TokenSource supplies the bearer credential. It is consulted on every call,
// so login and logout between calls are always observed.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticToken always returns the same credential. Mostly useful in tests.
type StaticToken string

func (t StaticToken) Token(_ context.Context) (string, error) {
	return string(t), nil
}

// EnvToken reads the named environment variable at call time
type EnvToken string

func (e EnvToken) Token(_ context.Context) (string, error) {
	return strings.TrimSpace(os.Getenv(string(e))), nil
}
