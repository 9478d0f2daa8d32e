// Package progress записывает результаты учеников в листы прогресса учителей
// и читает их обратно.
package progress

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/apperr"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/session"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/users"
)

// SessionValidator проверяет сессию вызывающего
type SessionValidator interface {
	Validate(ctx context.Context, required users.Role) (*session.Session, error)
}

// Recorder получает уведомление о каждой записанной попытке
type Recorder interface {
	ScoreRecorded()
}

// Service записывает результаты учеников
type Service struct {
	repo     *Repository
	sessions SessionValidator
	recorder Recorder
	log      *zap.Logger
	now      func() time.Time
}

// NewService создает новый сервис записи результатов. recorder может быть nil.
func NewService(repo *Repository, sessions SessionValidator, recorder Recorder, log *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

// RecordScore дописывает результат ученика в лист прогресса его учителя.
// Ошибка хранилища возвращается как есть, без повторов.
func (s *Service) RecordScore(ctx context.Context, unit string, score, total float64) (*ScoreAttempt, error) {
	sess, err := s.sessions.Validate(ctx, users.RoleStudent)
	if err != nil {
		return nil, err
	}

	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, apperr.InvalidArgument("Total must be a positive number")
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return nil, apperr.InvalidArgument("Score must be a number")
	}

	var teacher, name string
	if sess.StudentInfo != nil {
		teacher = sess.StudentInfo.Teacher
		name = sess.StudentInfo.FullName()
	}

	table, ok, err := s.repo.ResolveTable(ctx, teacher)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.Warn("no proficiency table for teacher", zap.String("teacher", teacher), zap.String("student", sess.UserEmail))
		return nil, apperr.DestinationNotFound(teacher)
	}

	attempt := &ScoreAttempt{
		Timestamp:    s.now().Truncate(time.Second),
		StudentEmail: sess.UserEmail,
		StudentName:  name,
		Unit:         sheets.NormalizeUnit(unit),
		Score:        score,
		Total:        total,
		Percentage:   Percentage(score, total),
	}
	if err := s.repo.Append(ctx, table, attempt); err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.ScoreRecorded()
	}
	s.log.Info("score recorded",
		zap.String("student", attempt.StudentEmail),
		zap.String("table", table),
		zap.String("unit", attempt.Unit),
		zap.Int("percentage", attempt.Percentage),
	)
	return attempt, nil
}
