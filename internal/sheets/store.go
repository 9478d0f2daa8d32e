// Package sheets описывает табличное хранилище: именованные листы,
// строки которых читаются целиком и дополняются по одной.
// Строка с индексом 0 — заголовок, данные начинаются с FirstDataRow.
package sheets

import (
	"context"
	"errors"
	"strings"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/apperr"
)

// Названия листов
const (
	TableTeacherEmails    = "Teacher Emails"
	TableStudentRoster    = "Student Roster"
	TableGrammarQuestions = "Grammar Questions"
	// TableProficiencyMap явное соответствие учитель -> лист прогресса (необязательный лист)
	TableProficiencyMap = "Proficiency Tables"
	// ProficiencyPrefix префикс листов прогресса, по одному на учителя
	ProficiencyPrefix = "Student Proficiency"
)

// FirstDataRow первая строка данных (после заголовка)
const FirstDataRow = 1

// ErrTableNotFound лист с указанным именем отсутствует
var ErrTableNotFound = errors.New("table not found")

// Store табличное хранилище
type Store interface {
	// ListTables возвращает имена всех листов в порядке их следования
	ListTables(ctx context.Context) ([]string, error)
	// ReadRows возвращает все строки листа, включая заголовок
	ReadRows(ctx context.Context, table string) ([][]string, error)
	// AppendRow добавляет одну строку в конец листа
	AppendRow(ctx context.Context, table string, row []interface{}) error
}

// DataRows отбрасывает строку заголовка
func DataRows(rows [][]string) [][]string {
	if len(rows) <= FirstDataRow {
		return nil
	}
	return rows[FirstDataRow:]
}

// Cell возвращает значение ячейки без окружающих пробелов.
// Google Sheets обрезает пустые ячейки в конце строки, поэтому
// короткие строки дополняются пустыми значениями, а не пропускаются.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Unconfigured хранилище без идентификатора таблицы: любая операция
// завершается ошибкой конфигурации.
type Unconfigured struct{}

func (Unconfigured) ListTables(context.Context) ([]string, error) {
	return nil, apperr.ErrNotConfigured
}

func (Unconfigured) ReadRows(context.Context, string) ([][]string, error) {
	return nil, apperr.ErrNotConfigured
}

func (Unconfigured) AppendRow(context.Context, string, []interface{}) error {
	return apperr.ErrNotConfigured
}
