package progress

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/apperr"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets"
)

// Колонки листа прогресса
const (
	colTimestamp = iota
	colEmail
	colName
	colUnit
	colScore
	colTotal
	colPercentage
)

// Колонки листа соответствий Proficiency Tables
const (
	mapColTeacher = iota
	mapColTable
)

// Repository читает и дополняет листы прогресса
type Repository struct {
	store sheets.Store
	loc   *time.Location
}

// NewRepository создает новый репозиторий прогресса.
// loc используется для отметок времени без зоны.
func NewRepository(store sheets.Store, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.Local
	}
	return &Repository{store: store, loc: loc}
}

// ProficiencyTables возвращает все листы прогресса в порядке следования
func (r *Repository) ProficiencyTables(ctx context.Context) ([]string, error) {
	tables, err := r.store.ListTables(ctx)
	if err != nil {
		return nil, apperr.Store(fmt.Errorf("failed to list tables: %w", err))
	}

	result := make([]string, 0)
	for _, name := range tables {
		if strings.Contains(name, sheets.ProficiencyPrefix) {
			result = append(result, name)
		}
	}
	return result, nil
}

// ResolveTable находит лист прогресса учителя. Сначала проверяется лист
// соответствий Proficiency Tables, затем первый лист, имя которого содержит
// и префикс, и имя учителя. ok == false, если лист не найден.
func (r *Repository) ResolveTable(ctx context.Context, teacherName string) (string, bool, error) {
	if strings.TrimSpace(teacherName) == "" {
		return "", false, nil
	}

	tables, err := r.store.ListTables(ctx)
	if err != nil {
		return "", false, apperr.Store(fmt.Errorf("failed to list tables: %w", err))
	}

	exists := make(map[string]bool, len(tables))
	for _, name := range tables {
		exists[name] = true
	}

	if exists[sheets.TableProficiencyMap] {
		mapped, err := r.mappedTable(ctx, teacherName)
		if err != nil {
			return "", false, err
		}
		if mapped != "" && exists[mapped] {
			return mapped, true, nil
		}
	}

	for _, name := range tables {
		if strings.Contains(name, sheets.ProficiencyPrefix) && strings.Contains(name, teacherName) {
			return name, true, nil
		}
	}
	return "", false, nil
}

func (r *Repository) mappedTable(ctx context.Context, teacherName string) (string, error) {
	rows, err := r.store.ReadRows(ctx, sheets.TableProficiencyMap)
	if err != nil {
		return "", apperr.Store(fmt.Errorf("failed to read proficiency table map: %w", err))
	}
	for _, row := range sheets.DataRows(rows) {
		if strings.EqualFold(sheets.Cell(row, mapColTeacher), strings.TrimSpace(teacherName)) {
			return sheets.Cell(row, mapColTable), nil
		}
	}
	return "", nil
}

// ReadAttempts возвращает все попытки листа в порядке строк
func (r *Repository) ReadAttempts(ctx context.Context, table string) ([]ScoreAttempt, error) {
	rows, err := r.store.ReadRows(ctx, table)
	if err != nil {
		return nil, apperr.Store(fmt.Errorf("failed to read %q: %w", table, err))
	}

	data := sheets.DataRows(rows)
	attempts := make([]ScoreAttempt, 0, len(data))
	for _, row := range data {
		if len(row) == 0 {
			continue
		}
		attempts = append(attempts, ScoreAttempt{
			Timestamp:    ParseTimestamp(sheets.Cell(row, colTimestamp), r.loc),
			StudentEmail: sheets.Cell(row, colEmail),
			StudentName:  sheets.Cell(row, colName),
			Unit:         sheets.NormalizeUnit(sheets.Cell(row, colUnit)),
			Score:        parseNumber(sheets.Cell(row, colScore)),
			Total:        parseNumber(sheets.Cell(row, colTotal)),
			Percentage:   int(parseNumber(sheets.Cell(row, colPercentage))),
		})
	}
	return attempts, nil
}

// Append дописывает попытку в конец листа
func (r *Repository) Append(ctx context.Context, table string, a *ScoreAttempt) error {
	row := []interface{}{
		FormatTimestamp(a.Timestamp),
		a.StudentEmail,
		a.StudentName,
		a.Unit,
		a.Score,
		a.Total,
		a.Percentage,
	}
	if err := r.store.AppendRow(ctx, table, row); err != nil {
		return apperr.Store(fmt.Errorf("failed to append to %q: %w", table, err))
	}
	return nil
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0
	}
	return v
}
