// Package jwt предоставляет функции для работы с JWT токенами поставщика идентичности.
// Токен содержит подтвержденный email пользователя; роль определяется по таблицам, а не по токену.
package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrMissingEmail токен не содержит email
var ErrMissingEmail = errors.New("токен не содержит email")

// Claims структура для хранения данных в JWT токене
type Claims struct {
	Email                string `json:"email"` // Подтвержденный email пользователя
	jwt.RegisteredClaims        // Встроенные стандартные поля JWT
}

// Manager отвечает за создание и проверку JWT токенов
type Manager struct {
	secretKey     []byte        // Секретный ключ для подписи токенов
	issuer        string        // Издатель токенов
	tokenLifetime time.Duration // Время жизни токена
	now           func() time.Time
}

// NewManager создает новый менеджер JWT
func NewManager(secretKey, issuer string, lifetime time.Duration) *Manager {
	return &Manager{
		secretKey:     []byte(secretKey),
		issuer:        issuer,
		tokenLifetime: lifetime,
		now:           time.Now,
	}
}

// GenerateToken создает новый JWT токен для email.
// Используется командой migrator issue-token и в тестах вместо внешнего поставщика.
func (m *Manager) GenerateToken(email string) (string, error) {
	now := m.now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}
	return tokenString, nil
}

// ParseToken проверяет и парсит JWT токен
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{jwt.WithTimeFunc(m.now)}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неподдерживаемый метод подписи: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга токена: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("токен недействителен")
	}

	claims.Email = strings.TrimSpace(claims.Email)
	if claims.Email == "" {
		return nil, ErrMissingEmail
	}
	return claims, nil
}
