package middleware

import (
	"context"

	"github.com/gosuda/bilemo/internal/auth"
)

type contextKey string

const ContextKeyCaller contextKey = "caller"

// WithCaller stores the authenticated caller in ctx.
func WithCaller(ctx context.Context, c auth.Caller) context.Context {
	return context.WithValue(ctx, ContextKeyCaller, c)
}

func CallerFromContext(ctx context.Context) (auth.Caller, bool) {
	v, ok := ctx.Value(ContextKeyCaller).(auth.Caller)
	return v, ok
}
