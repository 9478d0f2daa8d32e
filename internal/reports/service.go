// Package reports строит отчеты о прогрессе учеников и статистику класса
// по листам прогресса.
package reports

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/apperr"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/progress"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/session"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/users"
)

// maxParallelReads ограничивает число одновременно читаемых листов
const maxParallelReads = 4

// SessionValidator проверяет сессию вызывающего
type SessionValidator interface {
	Validate(ctx context.Context, required users.Role) (*session.Session, error)
}

// Options настройки отчетов
type Options struct {
	// Location часовой пояс, в котором считается "сегодня"
	Location *time.Location
	// ScopeTeacherProgressToRoster ограничивает StudentProgress учителя его учениками
	ScopeTeacherProgressToRoster bool
}

// Service предоставляет отчеты
type Service struct {
	sessions SessionValidator
	users    *users.Service
	attempts *progress.Repository
	opts     Options
	log      *zap.Logger
	now      func() time.Time
}

// NewService создает новый сервис отчетов
func NewService(sessions SessionValidator, usersService *users.Service, attempts *progress.Repository, opts Options, log *zap.Logger) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Service{
		sessions: sessions,
		users:    usersService,
		attempts: attempts,
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

// StudentProgress возвращает попытки ученика, новые первыми.
// Ученик всегда видит только свои попытки из листа своего учителя,
// requestedEmail при этом игнорируется. Учитель обязан указать email
// и получает попытки из всех листов прогресса.
func (s *Service) StudentProgress(ctx context.Context, requestedEmail string) ([]progress.ScoreAttempt, error) {
	sess, err := s.sessions.Validate(ctx, "")
	if err != nil {
		return nil, err
	}

	if !sess.IsTeacher() {
		var teacher string
		if sess.StudentInfo != nil {
			teacher = sess.StudentInfo.Teacher
		}
		table, ok, err := s.attempts.ResolveTable(ctx, teacher)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.TableNotFound(teacher)
		}
		attempts, err := s.attempts.ReadAttempts(ctx, table)
		if err != nil {
			return nil, err
		}
		return sortByRecent(filter(attempts, func(a progress.ScoreAttempt) bool {
			return a.StudentEmail == sess.UserEmail
		})), nil
	}

	if requestedEmail == "" {
		return nil, apperr.InvalidArgument("Student email is required")
	}

	if s.opts.ScopeTeacherProgressToRoster {
		roster, err := s.rosterEmails(ctx, sess.UserEmail)
		if err != nil {
			return nil, err
		}
		if _, ok := roster[requestedEmail]; !ok {
			return []progress.ScoreAttempt{}, nil
		}
	}

	attempts, err := s.allAttempts(ctx)
	if err != nil {
		return nil, err
	}
	return sortByRecent(filter(attempts, func(a progress.ScoreAttempt) bool {
		return a.StudentEmail == requestedEmail
	})), nil
}

// TeacherStudents возвращает учеников вызывающего учителя
func (s *Service) TeacherStudents(ctx context.Context) ([]users.Student, error) {
	sess, err := s.sessions.Validate(ctx, users.RoleTeacher)
	if err != nil {
		return nil, err
	}
	return s.users.StudentsOfTeacher(ctx, sess.UserEmail)
}

// ClassStatistics считает статистику по ученикам вызывающего учителя
func (s *Service) ClassStatistics(ctx context.Context) (*ClassStats, error) {
	sess, err := s.sessions.Validate(ctx, users.RoleTeacher)
	if err != nil {
		return nil, err
	}

	students, err := s.users.StudentsOfTeacher(ctx, sess.UserEmail)
	if err != nil {
		return nil, err
	}
	roster := emailSet(students)

	attempts, err := s.allAttempts(ctx)
	if err != nil {
		return nil, err
	}
	attempts = filter(attempts, func(a progress.ScoreAttempt) bool {
		_, ok := roster[a.StudentEmail]
		return ok
	})

	// число учеников совпадает с TeacherStudents, повторные строки считаются
	return s.statistics(len(students), attempts), nil
}

// FilteredProgress возвращает попытки учеников вызывающего учителя,
// при необходимости отфильтрованные по email и разделу, новые первыми.
func (s *Service) FilteredProgress(ctx context.Context, studentEmail, unit string) ([]progress.ScoreAttempt, error) {
	sess, err := s.sessions.Validate(ctx, users.RoleTeacher)
	if err != nil {
		return nil, err
	}

	roster, err := s.rosterEmails(ctx, sess.UserEmail)
	if err != nil {
		return nil, err
	}

	attempts, err := s.allAttempts(ctx)
	if err != nil {
		return nil, err
	}

	unit = sheets.NormalizeUnit(unit)
	return sortByRecent(filter(attempts, func(a progress.ScoreAttempt) bool {
		if _, ok := roster[a.StudentEmail]; !ok {
			return false
		}
		if studentEmail != "" && a.StudentEmail != studentEmail {
			return false
		}
		return unit == "" || a.Unit == unit
	})), nil
}

func (s *Service) statistics(totalStudents int, attempts []progress.ScoreAttempt) *ClassStats {
	stats := &ClassStats{
		TotalStudents: totalStudents,
		TotalSessions: len(attempts),
		UnitBreakdown: make([]UnitStats, 0),
	}
	if len(attempts) == 0 {
		return stats
	}

	type unitSum struct {
		sum   int
		count int
	}
	today := dateOf(s.now().In(s.opts.Location))
	byUnit := make(map[string]*unitSum)
	var order []string
	sum := 0
	for _, a := range attempts {
		sum += a.Percentage
		if !a.Timestamp.IsZero() && dateOf(a.Timestamp.In(s.opts.Location)) == today {
			stats.ActiveToday++
		}

		u, ok := byUnit[a.Unit]
		if !ok {
			u = &unitSum{}
			byUnit[a.Unit] = u
			order = append(order, a.Unit)
		}
		u.sum += a.Percentage
		u.count++
	}
	stats.AverageScore = roundMean(sum, len(attempts))

	sort.SliceStable(order, func(i, j int) bool {
		return sheets.CompareUnits(order[i], order[j]) < 0
	})
	for _, unit := range order {
		u := byUnit[unit]
		stats.UnitBreakdown = append(stats.UnitBreakdown, UnitStats{
			Unit:         unit,
			AverageScore: roundMean(u.sum, u.count),
			Sessions:     u.count,
		})
	}
	return stats
}

func (s *Service) rosterEmails(ctx context.Context, teacherEmail string) (map[string]struct{}, error) {
	students, err := s.users.StudentsOfTeacher(ctx, teacherEmail)
	if err != nil {
		return nil, err
	}
	return emailSet(students), nil
}

func emailSet(students []users.Student) map[string]struct{} {
	emails := make(map[string]struct{}, len(students))
	for _, st := range students {
		emails[st.Email] = struct{}{}
	}
	return emails
}

// allAttempts читает все листы прогресса параллельно и склеивает результат
// в порядке листов.
func (s *Service) allAttempts(ctx context.Context) ([]progress.ScoreAttempt, error) {
	tables, err := s.attempts.ProficiencyTables(ctx)
	if err != nil {
		return nil, err
	}

	results := make([][]progress.ScoreAttempt, len(tables))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, table := range tables {
		g.Go(func() error {
			attempts, err := s.attempts.ReadAttempts(gctx, table)
			if err != nil {
				return err
			}
			results[i] = attempts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []progress.ScoreAttempt
	for _, attempts := range results {
		all = append(all, attempts...)
	}
	s.log.Debug("read proficiency tables", zap.Int("tables", len(tables)), zap.Int("attempts", len(all)))
	return all, nil
}

func filter(attempts []progress.ScoreAttempt, keep func(progress.ScoreAttempt) bool) []progress.ScoreAttempt {
	result := make([]progress.ScoreAttempt, 0)
	for _, a := range attempts {
		if keep(a) {
			result = append(result, a)
		}
	}
	return result
}

// sortByRecent сортирует попытки по убыванию времени; равные сохраняют порядок
func sortByRecent(attempts []progress.ScoreAttempt) []progress.ScoreAttempt {
	sort.SliceStable(attempts, func(i, j int) bool {
		return attempts[i].Timestamp.After(attempts[j].Timestamp)
	})
	return attempts
}

func roundMean(sum, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Floor(float64(sum)/float64(count) + 0.5))
}

func dateOf(t time.Time) [3]int {
	y, m, d := t.Date()
	return [3]int{y, int(m), d}
}
