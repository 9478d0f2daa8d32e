// Package csvdir реализует табличное хранилище в виде каталога CSV файлов:
// каждый лист — файл "<имя листа>.csv". Используется для локальной разработки
// и как выгрузка таблицы командой migrator export-table.
package csvdir

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets"
)

const ext = ".csv"

// Store хранилище на основе каталога CSV файлов
type Store struct {
	dir string
	mu  sync.RWMutex
}

// New создает хранилище, при необходимости создавая каталог
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// ListTables возвращает имена листов в алфавитном порядке
func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения каталога %s: %w", s.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}

// ReadRows читает все строки листа
func (s *Store) ReadRows(ctx context.Context, table string) ([][]string, error) {
	path, err := s.path(table)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", sheets.ErrTableNotFound, table)
		}
		return nil, fmt.Errorf("ошибка открытия листа %s: %w", table, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Строки могут быть разной длины, как и в Google Sheets
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения CSV данных листа %s: %w", table, err)
	}
	return records, nil
}

// AppendRow дописывает строку в конец файла листа
func (s *Store) AppendRow(ctx context.Context, table string, row []interface{}) error {
	path, err := s.path(table)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", sheets.ErrTableNotFound, table)
		}
		return fmt.Errorf("ошибка открытия листа %s: %w", table, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(sheets.FormatRow(row)); err != nil {
		return fmt.Errorf("ошибка записи в лист %s: %w", table, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("ошибка записи в лист %s: %w", table, err)
	}
	return nil
}

// WriteTable перезаписывает лист целиком
func (s *Store) WriteTable(table string, rows [][]string) error {
	path, err := s.path(table)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ошибка создания листа %s: %w", table, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("ошибка записи листа %s: %w", table, err)
	}
	return nil
}

func (s *Store) path(table string) (string, error) {
	if table == "" || strings.ContainsAny(table, `/\`) || table == "." || table == ".." {
		return "", fmt.Errorf("недопустимое имя листа: %q", table)
	}
	return filepath.Join(s.dir, table+ext), nil
}

var _ sheets.Store = (*Store)(nil)
