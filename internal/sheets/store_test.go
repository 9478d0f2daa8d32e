package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/apperr"
)

func TestCellPadsShortRows(t *testing.T) {
	row := []string{" a@x ", "Doe"}

	assert.Equal(t, "a@x", Cell(row, 0))
	assert.Equal(t, "Doe", Cell(row, 1))
	assert.Equal(t, "", Cell(row, 4))
	assert.Equal(t, "", Cell(row, -1))
}

func TestDataRowsSkipsHeader(t *testing.T) {
	assert.Nil(t, DataRows(nil))
	assert.Nil(t, DataRows([][]string{{"Email"}}))
	assert.Equal(t, [][]string{{"a"}}, DataRows([][]string{{"Email"}, {"a"}}))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.SetTable("B", []string{"h"})
	store.SetTable("A", []string{"h"})

	tables, err := store.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, tables)

	require.NoError(t, store.AppendRow(ctx, "A", []interface{}{"x", 7, 70}))
	rows, err := store.ReadRows(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"h"}, {"x", "7", "70"}}, rows)

	_, err = store.ReadRows(ctx, "missing")
	assert.True(t, errors.Is(err, ErrTableNotFound))
	assert.True(t, errors.Is(store.AppendRow(ctx, "missing", nil), ErrTableNotFound))

	boom := errors.New("quota exceeded")
	store.FailWith(boom)
	_, err = store.ListTables(ctx)
	assert.Equal(t, boom, err)
}

func TestUnconfigured(t *testing.T) {
	ctx := context.Background()
	var store Store = Unconfigured{}

	_, err := store.ListTables(ctx)
	assert.True(t, errors.Is(err, apperr.ErrNotConfigured))
	_, err = store.ReadRows(ctx, TableStudentRoster)
	assert.True(t, errors.Is(err, apperr.ErrNotConfigured))
	assert.True(t, errors.Is(store.AppendRow(ctx, TableStudentRoster, nil), apperr.ErrNotConfigured))
}
