package middleware

import (
	"context"
	"net/http"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/jwtutil"
)

type contextKey string

const (
	ContextUserID   contextKey = "userID"
	ContextUsername contextKey = "username"
	ContextRole     contextKey = "role"
	ContextToken    contextKey = "token"
)

func GetUserID(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(ContextUserID).(string)
	return val, ok
}

func GetUsername(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(ContextUsername).(string)
	return val, ok
}

func GetRole(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(ContextRole).(string)
	return val, ok
}

func GetToken(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(ContextToken).(string)
	return val, ok
}

func setContextValues(r *http.Request, claims *jwtutil.Claims, token string) *http.Request {
	ctx := context.WithValue(r.Context(), ContextUserID, claims.UserID)
	ctx = context.WithValue(ctx, ContextUsername, claims.Username)
	ctx = context.WithValue(ctx, ContextRole, claims.Role)
	ctx = context.WithValue(ctx, ContextToken, token)
	return r.WithContext(ctx)
}
