// Package session хранит сессии авторизации и проверяет их перед
// каждой операцией: наличие, срок жизни, роль и домен email.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/apperr"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/auth"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/users"
)

// Directory определяет роль пользователя по email
type Directory interface {
	Resolve(ctx context.Context, email string) (users.Role, *users.Student, error)
}

// Manager управляет жизненным циклом сессий
type Manager struct {
	store     Store
	directory Directory
	domain    string
	maxAge    time.Duration
	log       *zap.Logger
	now       func() time.Time
}

// NewManager создает новый менеджер сессий
func NewManager(store Store, directory Directory, domain string, maxAge time.Duration, log *zap.Logger) *Manager {
	return &Manager{
		store:     store,
		directory: directory,
		domain:    strings.ToLower(domain),
		maxAge:    maxAge,
		log:       log,
		now:       time.Now,
	}
}

// MaxAge возвращает максимальный возраст сессии
func (m *Manager) MaxAge() time.Duration {
	return m.maxAge
}

// IsValidDomain проверяет, что email оканчивается на доменный суффикс школы
func (m *Manager) IsValidDomain(email string) bool {
	return email != "" && strings.HasSuffix(strings.ToLower(email), m.domain)
}

// Authenticate создает сессию для подтвержденного email из контекста.
// Учитель имеет приоритет над учеником. При ошибке сессия не создается.
func (m *Manager) Authenticate(ctx context.Context) (*Session, error) {
	email, _ := auth.IdentityFromContext(ctx)
	if !m.IsValidDomain(email) {
		m.log.Info("login rejected: invalid domain", zap.String("email", email))
		return nil, apperr.ErrInvalidDomain
	}

	role, student, err := m.directory.Resolve(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			m.log.Info("login rejected: unknown user", zap.String("email", email))
			return nil, apperr.ErrNotAuthorized
		}
		return nil, apperr.Store(err)
	}

	s := &Session{
		UserType:    role,
		UserEmail:   email,
		StudentInfo: student,
		CreatedAt:   m.now(),
	}
	if err := m.store.Save(ctx, email, s); err != nil {
		return nil, apperr.Store(err)
	}

	m.log.Info("session created", zap.String("email", email), zap.String("role", string(role)))
	return s, nil
}

// Current возвращает сессию вызывающего или nil, если ее нет.
// Сессия не проверяется.
func (m *Manager) Current(ctx context.Context) (*Session, error) {
	email, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, nil
	}

	s, err := m.store.Load(ctx, email)
	if err != nil {
		return nil, apperr.Store(err)
	}
	if s.empty() {
		return nil, nil
	}
	return s, nil
}

// Validate проверяет сессию вызывающего. Пустая роль означает любую роль.
// Порядок проверок: наличие, срок жизни, роль, домен.
// Просроченная сессия и сессия с чужим доменом уничтожаются.
func (m *Manager) Validate(ctx context.Context, required users.Role) (*Session, error) {
	s, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperr.ErrNoSession
	}

	if m.now().Sub(s.CreatedAt) > m.maxAge {
		m.destroy(ctx, "expired")
		return nil, apperr.ErrSessionExpired
	}

	if required != "" && s.UserType != required {
		return nil, apperr.ErrWrongRole
	}

	if !m.IsValidDomain(s.UserEmail) {
		m.destroy(ctx, "domain revoked")
		return nil, apperr.ErrDomainRevoked
	}

	return s, nil
}

// Logout уничтожает сессию вызывающего. Повторный вызов безопасен.
func (m *Manager) Logout(ctx context.Context) {
	m.destroy(ctx, "logout")
}

func (m *Manager) destroy(ctx context.Context, reason string) {
	email, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return
	}
	if err := m.store.Delete(ctx, email); err != nil {
		m.log.Warn("failed to delete session", zap.String("email", email), zap.String("reason", reason), zap.Error(err))
		return
	}
	m.log.Debug("session destroyed", zap.String("email", email), zap.String("reason", reason))
}

// PurgeExpired удаляет из хранилища сессии старше максимального возраста.
// Для хранилищ с собственным TTL ничего не делает.
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	purger, ok := m.store.(Purger)
	if !ok {
		return 0, nil
	}
	return purger.PurgeExpired(ctx, m.now().Add(-m.maxAge))
}
