package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/cache"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/jwtutil"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/response"
	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

const (
	accountCacheNS  = "account_exists"
	accountCacheTTL = 2 * time.Minute
)

// AccountChecker verifies the account a token references still exists.
type AccountChecker interface {
	AccountExists(ctx context.Context, accountID string) (bool, error)
}

type AuthMiddleware struct {
	verifier *jwtutil.Verifier
	accounts AccountChecker
	cache    *cache.Cache
	logger   *zap.Logger
}

func NewAuthMiddleware(verifier *jwtutil.Verifier, accounts AccountChecker, c *cache.Cache, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		accounts: accounts,
		cache:    c,
		logger:   logger,
	}
}

// handleAuth verifies the token, then that the account behind it still
// exists, then any role restriction. Missing/invalid/expired token → 401;
// valid token with insufficient role → 403.
func (am *AuthMiddleware) handleAuth(w http.ResponseWriter, r *http.Request, allowedRoles []string) (*jwtutil.Claims, string, bool) {
	token := extractToken(r)
	if token == "" {
		response.Error(w, http.StatusUnauthorized, "No token provided")
		return nil, "", false
	}

	claims, err := am.verifier.ParseAndValidate(token)
	if err != nil {
		if errors.Is(err, xerrors.ErrTokenExpired) {
			response.Error(w, http.StatusUnauthorized, "Token expired")
		} else {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
		}
		return nil, "", false
	}

	if !am.accountStillExists(r.Context(), claims.UserID) {
		response.Error(w, http.StatusUnauthorized, "Account no longer exists")
		return nil, "", false
	}

	if len(allowedRoles) > 0 && !contains(allowedRoles, claims.Role) {
		am.logger.Warn("insufficient role",
			zap.String("user_id", claims.UserID),
			zap.String("role", claims.Role),
			zap.String("path", r.URL.Path))
		response.Error(w, http.StatusForbidden, "Insufficient role")
		return nil, "", false
	}

	return claims, token, true
}

// accountStillExists checks the cache first, then the store. Cache failures
// fall through to the store; store failures fail closed.
func (am *AuthMiddleware) accountStillExists(ctx context.Context, accountID string) bool {
	if am.cache != nil {
		if v, err := am.cache.Get(ctx, accountCacheNS, accountID); err == nil && v == "1" {
			return true
		}
	}

	exists, err := am.accounts.AccountExists(ctx, accountID)
	if err != nil {
		am.logger.Error("account existence check failed",
			zap.String("account_id", accountID),
			zap.Error(err))
		return false
	}
	if exists && am.cache != nil {
		_ = am.cache.Set(ctx, accountCacheNS, accountID, "1", accountCacheTTL)
	}
	return exists
}

// RequireAuth admits any authenticated account.
func (am *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, token, ok := am.handleAuth(w, r, nil)
		if !ok {
			return
		}
		next.ServeHTTP(w, setContextValues(r, claims, token))
	})
}

// RequireWithRoles restricts the route to the named roles.
func (am *AuthMiddleware) RequireWithRoles(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, token, ok := am.handleAuth(w, r, allowedRoles)
			if !ok {
				return
			}
			next.ServeHTTP(w, setContextValues(r, claims, token))
		})
	}
}
