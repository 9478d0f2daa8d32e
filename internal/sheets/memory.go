package sheets

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore хранилище в памяти, используется в тестах и для локальной отладки
type MemoryStore struct {
	mu     sync.RWMutex
	order  []string
	tables map[string][][]string
	err    error
}

// NewMemoryStore создает пустое хранилище
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][][]string)}
}

// SetTable создает или заменяет лист; первая строка — заголовок
func (m *MemoryStore) SetTable(name string, rows ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[name]; !ok {
		m.order = append(m.order, name)
	}
	copied := make([][]string, 0, len(rows))
	for _, row := range rows {
		copied = append(copied, append([]string(nil), row...))
	}
	m.tables[name] = copied
}

// FailWith заставляет все последующие операции возвращать err (nil — отключить)
func (m *MemoryStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryStore) ListTables(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]string(nil), m.order...), nil
}

func (m *MemoryStore) ReadRows(ctx context.Context, table string) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	rows, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, append([]string(nil), row...))
	}
	return out, nil
}

func (m *MemoryStore) AppendRow(ctx context.Context, table string, row []interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	rows, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	m.tables[table] = append(rows, FormatRow(row))
	return nil
}

// FormatRow приводит значения ячеек к строкам так же, как их отдает Google Sheets
func FormatRow(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = fmt.Sprintf("%v", v)
	}
	return out
}
