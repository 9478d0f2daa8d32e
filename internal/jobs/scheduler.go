// Package jobs запускает фоновые задачи сервиса по расписанию cron
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionPurger удаляет просроченные сессии
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Scheduler планировщик фоновых задач
type Scheduler struct {
	cron   *cron.Cron
	purger SessionPurger
	log    *zap.Logger
}

// NewScheduler создает планировщик в часовом поясе loc
func NewScheduler(purger SessionPurger, loc *time.Location, log *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		purger: purger,
		log:    log,
	}
}

// Start регистрирует задачи и запускает планировщик
func (s *Scheduler) Start(purgeSpec string) error {
	if _, err := s.cron.AddFunc(purgeSpec, s.PurgeSessions); err != nil {
		return fmt.Errorf("invalid session purge schedule %q: %w", purgeSpec, err)
	}
	s.cron.Start()
	s.log.Info("scheduler started", zap.String("session_purge", purgeSpec))
	return nil
}

// PurgeSessions удаляет просроченные сессии
func (s *Scheduler) PurgeSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		s.log.Error("session purge failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("expired sessions purged", zap.Int64("count", n))
	}
}

// Stop останавливает планировщик и ждет завершения запущенных задач
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}
