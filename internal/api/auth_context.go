package api

import (
	"context"
	"net/http"

	"github.com/recipehub/recipehub-server/internal/auth"
	domainerrors "github.com/recipehub/recipehub-server/internal/errors"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// authKey is the context key for the per-request authentication result.
const authKey ctxKey = "auth"

// authResult is what authMiddleware learned about the caller. Exactly one of
// identity and err is set.
type authResult struct {
	identity *auth.Identity
	err      error
}

// authMiddleware verifies Bearer tokens and stores the outcome in context.
// It never rejects a request itself; public routes ignore the result and
// protected handlers call requireIdentity.
func authMiddleware(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := authResult{}

			token, err := auth.ParseBearer(r.Header.Get("Authorization"))
			if err != nil {
				result.err = err
			} else {
				result.identity, result.err = verifier.Verify(r.Context(), token)
			}

			ctx := context.WithValue(r.Context(), authKey, result)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireIdentity returns the authenticated caller. Missing, malformed and
// invalid tokens are UNAUTHORIZED; expired tokens are TOKEN_EXPIRED.
func requireIdentity(ctx context.Context) (*auth.Identity, error) {
	result, ok := ctx.Value(authKey).(authResult)
	if !ok {
		return nil, domainerrors.Unauthorized("missing authorization header")
	}
	if result.err != nil {
		if domainerrors.Is(result.err, domainerrors.ErrTokenExpired) {
			return nil, result.err
		}
		var domainErr *domainerrors.Error
		if domainerrors.As(result.err, &domainErr) && domainErr.Code == domainerrors.CodeUnauthorized {
			return nil, domainErr
		}
		return nil, domainerrors.Unauthorized("authentication failed")
	}
	return result.identity, nil
}
