package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/chronos-hr/chronos/internal/access"
)

// Resolver turns bearer tokens into principals on the request context.
// A missing or malformed token leaves the request anonymous; role-gated
// operations then deny downstream, public ones proceed.
type Resolver struct {
	Tokens *TokenService
	Logger *slog.Logger
}

// Middleware resolves the principal for every request.
func (rs Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := rs.Tokens.Parse(raw)
		if err != nil {
			if rs.Logger != nil {
				rs.Logger.Debug("bearer token rejected", slog.Any("error", err))
			}
			next.ServeHTTP(w, r)
			return
		}
		p := access.NormalizePrincipal(claims.Subject, claims.Username, claims.Role, nil)
		if p == nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(access.ContextWithPrincipal(r.Context(), p)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
