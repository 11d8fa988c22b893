package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/api-sage/intl-payments-portal/src/internal/logger"
)

// Principal is the authenticated identity handed to the core: an id and a
// role, nothing else. Handlers and services never touch tokens directly.
type Principal struct {
	ID   string
	Role string
}

type principalContextKey struct{}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(Principal)
	return principal, ok
}

type principalClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the signed session tokens that carry a
// principal between requests.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: secret, ttl: ttl}
}

func (m *TokenManager) Issue(principalID string, role string) (string, error) {
	now := time.Now()
	claims := principalClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return signed, nil
}

func (m *TokenManager) verify(token string) (Principal, error) {
	parsed, err := jwt.ParseWithClaims(token, &principalClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("parse session token: %w", err)
	}

	claims, ok := parsed.Claims.(*principalClaims)
	if !ok || claims.Subject == "" {
		return Principal{}, fmt.Errorf("session token carries no principal")
	}

	return Principal{ID: claims.Subject, Role: claims.Role}, nil
}

// RequireRole authenticates the bearer token and enforces the role before
// the request reaches a handler.
func (m *TokenManager) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				logger.Info("principal middleware missing bearer token", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			principal, err := m.verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.Info("principal middleware invalid token", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if principal.Role != role {
				logger.Info("principal middleware role denied", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"role":   principal.Role,
				})
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), principalContextKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
