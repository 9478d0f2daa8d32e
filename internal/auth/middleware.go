// Package auth извлекает подтвержденную личность вызывающего из запроса
// и передает ее дальше через context.Context.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/jwt"
)

// Ключи для хранения данных в контексте HTTP запроса
type contextKey string

const identityContextKey contextKey = "identity"

// WithIdentity сохраняет подтвержденный email в контексте
func WithIdentity(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, identityContextKey, email)
}

// IdentityFromContext извлекает подтвержденный email из контекста
func IdentityFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(identityContextKey).(string)
	return email, ok && email != ""
}

// TokenParser проверяет токен поставщика идентичности
type TokenParser interface {
	ParseToken(tokenString string) (*jwt.Claims, error)
}

// Middleware предоставляет middleware функции для аутентификации
type Middleware struct {
	tokens TokenParser
	log    *zap.Logger
}

// NewMiddleware создает новый middleware для аутентификации
func NewMiddleware(tokens TokenParser, log *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, log: log}
}

// Authenticate проверяет JWT токен из заголовка Authorization
// и добавляет email пользователя в контекст запроса
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "Authentication required: missing Authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(w, "Invalid token format: expected 'Bearer <token>'")
			return
		}

		claims, err := m.tokens.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			m.log.Debug("rejected identity token", zap.Error(err))
			unauthorized(w, "Invalid identity token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims.Email)))
	})
}

// Identify добавляет email в контекст, если токен валиден.
// Запрос без токена или с неверным токеном проходит дальше без личности.
func (m *Middleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !found || token == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := m.tokens.ParseToken(token)
		if err != nil {
			m.log.Debug("ignored identity token", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims.Email)))
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
