package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/farmapunto/pos-backend/api/responses"
	pkgauth "github.com/farmapunto/pos-backend/pkg/auth"
	"github.com/farmapunto/pos-backend/pkg/config"
	pkgerrors "github.com/farmapunto/pos-backend/pkg/errors"
	"github.com/farmapunto/pos-backend/pkg/logger"
)

// Auth validates a terminal bearer token and seeds the request context with
// the register identity.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseTerminalToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
			ctx = context.WithValue(ctx, ctxBranchID, claims.BranchID)
			ctx = context.WithValue(ctx, ctxRegisterID, claims.RegisterID)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":     claims.UserID,
					"branch_id":   claims.BranchID,
					"register_id": claims.RegisterID,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
