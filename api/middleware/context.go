package middleware

import "context"

type contextKey string

const (
	ctxUserID      contextKey = "user_id"
	ctxRole        contextKey = "actor_role"
	ctxTeamID      contextKey = "team_id"
	ctxPermissions contextKey = "permissions"
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

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func TeamIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxTeamID).(string); ok {
		return v
	}
	return ""
}

// PermissionsFromContext returns the per-module grants carried by the
// caller's token. Never nil.
func PermissionsFromContext(ctx context.Context) map[string][]string {
	if ctx == nil {
		return map[string][]string{}
	}
	if v, ok := ctx.Value(ctxPermissions).(map[string][]string); ok && v != nil {
		return v
	}
	return map[string][]string{}
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithPermissions injects the caller's grants for downstream handlers.
func WithPermissions(ctx context.Context, grants map[string][]string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPermissions, grants)
}
