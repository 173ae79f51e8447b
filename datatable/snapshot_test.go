// Copyright 2025 The dgb Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datatable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSource is a minimal in-memory DataSource for snapshot tests.
type memSource struct {
	names []string
	rows  [][]Value
}

func (s *memSource) RowCount() int    { return len(s.rows) }
func (s *memSource) ColumnCount() int { return len(s.names) }

func (s *memSource) ColumnName(col int) (string, error) {
	if col < 0 || col >= len(s.names) {
		return "", ErrInvalidColumn
	}
	return s.names[col], nil
}

func (s *memSource) ColumnType(col int) (DataType, error) {
	if col < 0 || col >= len(s.names) {
		return TypeString, ErrInvalidColumn
	}
	return TypeString, nil
}

func (s *memSource) Cell(row, col int) (Value, error) {
	if row < 0 || row >= len(s.rows) {
		return Value{}, ErrInvalidRow
	}
	if col < 0 || col >= len(s.names) {
		return Value{}, ErrInvalidColumn
	}
	return s.rows[row][col], nil
}

func (s *memSource) Row(row int) ([]Value, error) {
	if row < 0 || row >= len(s.rows) {
		return nil, ErrInvalidRow
	}
	return s.rows[row], nil
}

func (s *memSource) Metadata() Metadata { return Metadata{} }

func newMemSource() *memSource {
	return &memSource{
		names: []string{"name", "city"},
		rows: [][]Value{
			{NewValue("Ada", TypeString), NewValue("London", TypeString)},
			{NewValue("Alan", TypeString), NewValue("Wilmslow", TypeString)},
		},
	}
}

func TestNewSnapshotResolvesBindings(t *testing.T) {
	cols := []Column{
		{Key: "name", Binding: "name", Filterable: true},
		{Key: "city", Binding: "city", Filterable: true},
	}
	snap, err := NewSnapshot(context.Background(), newMemSource(), cols)
	require.NoError(t, err)

	assert.Equal(t, 2, snap.Len())
	assert.True(t, snap.HasColumn("name"))

	v, err := snap.Cell(1, "city")
	require.NoError(t, err)
	assert.Equal(t, "Wilmslow", v.Formatted)

	cells, err := snap.ColumnValues("name")
	require.NoError(t, err)
	require.Len(t, cells, 2)
	assert.Equal(t, "Ada", cells[0].Formatted)

	_, err = snap.Cell(5, "name")
	assert.ErrorIs(t, err, ErrInvalidRow)
	_, err = snap.Cell(0, "nope")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestNewSnapshotMissingBinding(t *testing.T) {
	cols := []Column{
		{Key: "name", Binding: "name", Filterable: true},
		{Key: "ghost", Binding: "no_such", Filterable: true},
	}
	snap, err := NewSnapshot(context.Background(), newMemSource(), cols)
	require.NoError(t, err, "an unresolved binding must not fail ingestion")

	assert.True(t, snap.HasColumn("name"))
	assert.False(t, snap.HasColumn("ghost"))

	_, err = snap.ColumnValues("ghost")
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	// RowValues null-fills the unresolved column.
	row, err := snap.RowValues(0)
	require.NoError(t, err)
	require.Len(t, row, 2)
	assert.True(t, row[1].IsNull)
}

func TestNewSnapshotDuplicateKey(t *testing.T) {
	cols := []Column{
		{Key: "name", Binding: "name"},
		{Key: "name", Binding: "city"},
	}
	_, err := NewSnapshot(context.Background(), newMemSource(), cols)
	assert.Error(t, err)
}

func TestNewSnapshotValidatesInput(t *testing.T) {
	_, err := NewSnapshot(context.Background(), nil, []Column{{Key: "a", Binding: "a"}})
	assert.ErrorIs(t, err, ErrNoDataSource)

	_, err = NewSnapshot(context.Background(), newMemSource(), nil)
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestDefaultFilterKind(t *testing.T) {
	assert.Equal(t, FilterNumericRange, DefaultFilterKind(TypeInt))
	assert.Equal(t, FilterNumericRange, DefaultFilterKind(TypeFloat))
	assert.Equal(t, FilterDateRange, DefaultFilterKind(TypeDate))
	assert.Equal(t, FilterDateRange, DefaultFilterKind(TypeTimestamp))
	assert.Equal(t, FilterChecklist, DefaultFilterKind(TypeString))
	assert.Equal(t, FilterChecklist, DefaultFilterKind(TypeBool))
}
