package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyRole   ctxKey = "role"
)

// UserIDFromCtx returns the authenticated user id, or "" when the request is
// anonymous.
func UserIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// RoleFromCtx returns the authenticated user's role, or "" when anonymous.
func RoleFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRole).(string); ok {
		return v
	}
	return ""
}
