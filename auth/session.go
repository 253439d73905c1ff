package auth

import (
	"context"
	"net/http"

	"itshere/errors"
)

// CookieName is the session cookie carrying the signed token. Clients
// round-trip it unmodified.
const CookieName = "auth-token"

type contextKey string

const callerKey contextKey = "caller"

// Gate is the single place where "who is making this request" is
// established. A missing cookie and an invalid or expired token both
// collapse to ErrUnauthorized so the two failure modes are not
// distinguishable from the outside.
//
// There is no revocation list: a token stays valid for its full
// lifetime, and logout is client-side cookie deletion only. That is an
// accepted limitation of this design.
type Gate struct {
	codec *Codec
}

func NewGate(codec *Codec) *Gate {
	return &Gate{codec: codec}
}

// Authenticate resolves the session cookie to a username.
func (g *Gate) Authenticate(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", errors.ErrUnauthorized
	}

	claims, err := g.codec.Verify(cookie.Value)
	if err != nil {
		return "", errors.ErrUnauthorized
	}
	return claims.Username(), nil
}

// Middleware authenticates every request passing through it and injects
// the caller's username into the request context. Unauthenticated
// requests are rejected with 401 before reaching any handler.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, err := g.Authenticate(r)
		if err != nil {
			http.Error(w, "Unauthorized access", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), username)))
	})
}

func WithCaller(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, callerKey, username)
}

// CallerFromContext returns the authenticated username placed in the
// context by Middleware.
func CallerFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(callerKey).(string)
	return username, ok && username != ""
}
