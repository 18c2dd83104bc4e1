package service

import (
	"context"
	"unicode/utf8"
)

const maxClientContext = 512

type clientContextKey struct{}

// WithClientContext attaches a description of the caller, usually the user
// agent, that ends up in access logs
func WithClientContext(ctx context.Context, s string) context.Context {
	return context.WithValue(ctx, clientContextKey{}, s)
}

// ClientContext returns at most 512 bytes, cut on a rune boundary
func ClientContext(ctx context.Context) string {
	s, _ := ctx.Value(clientContextKey{}).(string)
	if len(s) <= maxClientContext {
		return s
	}

	n := maxClientContext
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n]
}
