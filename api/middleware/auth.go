package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/avenirinteriors/estimation-backend/api/responses"
	pkgAuth "github.com/avenirinteriors/estimation-backend/pkg/auth"
	"github.com/avenirinteriors/estimation-backend/pkg/config"
	pkgerrors "github.com/avenirinteriors/estimation-backend/pkg/errors"
	"github.com/avenirinteriors/estimation-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// claims. The permission map rides in the token; downstream code takes it
// as an explicit argument rather than reading shared state.
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

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ctxRole, claims.Role)
			ctx = context.WithValue(ctx, ctxPermissions, claims.PermissionsByModule)
			if claims.TeamID != nil {
				ctx = context.WithValue(ctx, ctxTeamID, claims.TeamID.String())
			}

			if logg != nil {
				fields := map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": claims.Role,
				}
				if claims.TeamID != nil {
					fields["team_id"] = claims.TeamID.String()
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
