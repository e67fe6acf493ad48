// Package middleware provides HTTP middleware for token authentication.
package middleware

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/authd/authd/pkg/config"
	"github.com/authd/authd/pkg/identity"
	"github.com/authd/authd/pkg/token"
)

const bearerPrefix = "Bearer "

// TokenAuthenticator is middleware that validates bearer access tokens.
type TokenAuthenticator struct {
	Signer *token.Signer
}

// NewTokenAuthenticator creates a new bearer token middleware.
func NewTokenAuthenticator(signer *token.Signer) *TokenAuthenticator {
	return &TokenAuthenticator{Signer: signer}
}

// Middleware returns an HTTP middleware that validates bearer tokens and
// stores the resulting identity in the request context.
func (t *TokenAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			http.Error(w, "Authorization missing", http.StatusUnauthorized)
			return
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			http.Error(w, "Malformed authorization header", http.StatusUnauthorized)
			return
		}

		parsed, err := t.Signer.Verify(strings.TrimPrefix(authHeader, bearerPrefix))
		if err != nil {
			if errors.Is(err, token.ErrExpiredToken) {
				http.Error(w, "Token expired", http.StatusUnauthorized)
				return
			}
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		id := identity.FromToken(parsed).
			WithRemoteIP(net.ParseIP(ClientIP(config.Get(), r)))

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

// RequireAdmin returns a middleware that rejects non-admin identities.
// Must run after Middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			http.Error(w, "Authorization missing", http.StatusUnauthorized)
			return
		}
		if !id.Admin {
			http.Error(w, "Administrator privileges required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP resolves the client IP for a request. X-Forwarded-For is only
// honored when the direct peer is a trusted proxy.
func ClientIP(cfg *config.Config, r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" && cfg.IsTrustedProxy(host) {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	return host
}
