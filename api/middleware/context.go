package middleware

import (
	"context"

	"github.com/farmapunto/pos-backend/internal/pos"
)

type contextKey string

const (
	ctxUserID     contextKey = "user_id"
	ctxBranchID   contextKey = "branch_id"
	ctxRegisterID contextKey = "register_id"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func BranchIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxBranchID).(string); ok {
		return v
	}
	return ""
}

func RegisterIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRegisterID).(string); ok {
		return v
	}
	return ""
}

// TerminalFromContext assembles the terminal identity seeded by Auth.
func TerminalFromContext(ctx context.Context) pos.Terminal {
	return pos.Terminal{
		RegisterID: RegisterIDFromContext(ctx),
		BranchID:   BranchIDFromContext(ctx),
		UserID:     UserIDFromContext(ctx),
	}
}

// WithTerminal injects a terminal identity into the context. Used in tests.
func WithTerminal(ctx context.Context, term pos.Terminal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, term.UserID)
	ctx = context.WithValue(ctx, ctxBranchID, term.BranchID)
	return context.WithValue(ctx, ctxRegisterID, term.RegisterID)
}
