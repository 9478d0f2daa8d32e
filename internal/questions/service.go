// Package questions предоставляет каталог грамматических вопросов:
// выборку по разделу и теме, список разделов и тем раздела.
package questions

import (
	"context"
	"sort"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/session"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/users"
)

// SessionValidator проверяет сессию вызывающего
type SessionValidator interface {
	Validate(ctx context.Context, required users.Role) (*session.Session, error)
}

// Service предоставляет операции каталога вопросов
type Service struct {
	repo     *Repository
	sessions SessionValidator
}

// NewService создает новый сервис каталога вопросов
func NewService(repo *Repository, sessions SessionValidator) *Service {
	return &Service{repo: repo, sessions: sessions}
}

// ListQuestions возвращает вопросы раздела и темы. Пустой аргумент не фильтрует.
// Доступно только ученикам.
func (s *Service) ListQuestions(ctx context.Context, unit, topic string) ([]GrammarQuestion, error) {
	if _, err := s.sessions.Validate(ctx, users.RoleStudent); err != nil {
		return nil, err
	}

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	unit = sheets.NormalizeUnit(unit)
	result := make([]GrammarQuestion, 0)
	for _, q := range all {
		if unit != "" && q.Unit != unit {
			continue
		}
		if topic != "" && q.Topic != topic {
			continue
		}
		result = append(result, q)
	}
	return result, nil
}

// ListUnits возвращает различные непустые разделы по возрастанию
func (s *Service) ListUnits(ctx context.Context) ([]string, error) {
	if _, err := s.sessions.Validate(ctx, ""); err != nil {
		return nil, err
	}

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	units := make([]string, 0)
	for _, q := range all {
		if q.Unit == "" {
			continue
		}
		if _, ok := seen[q.Unit]; ok {
			continue
		}
		seen[q.Unit] = struct{}{}
		units = append(units, q.Unit)
	}
	sort.Strings(units)
	return units, nil
}

// ListTopics возвращает различные непустые темы раздела в порядке появления.
// Для пустого раздела список пуст.
func (s *Service) ListTopics(ctx context.Context, unit string) ([]string, error) {
	if _, err := s.sessions.Validate(ctx, ""); err != nil {
		return nil, err
	}

	unit = sheets.NormalizeUnit(unit)
	if unit == "" {
		return []string{}, nil
	}

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	topics := make([]string, 0)
	for _, q := range all {
		if q.Unit != unit || q.Topic == "" {
			continue
		}
		if _, ok := seen[q.Topic]; ok {
			continue
		}
		seen[q.Topic] = struct{}{}
		topics = append(topics, q.Topic)
	}
	return topics, nil
}
