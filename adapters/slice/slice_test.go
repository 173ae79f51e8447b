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

package slice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dgb/datatable"
)

func TestNewValidates(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.ErrorIs(t, err, datatable.ErrEmptyData)

	_, err = New([]string{"a", "b"}, []datatable.DataType{datatable.TypeString}, nil)
	assert.ErrorIs(t, err, datatable.ErrInvalidColumn)

	_, err = New(
		[]string{"a"},
		[]datatable.DataType{datatable.TypeString},
		[][]datatable.Value{{datatable.NewValue("x", datatable.TypeString), datatable.NewValue("y", datatable.TypeString)}},
	)
	assert.ErrorIs(t, err, datatable.ErrInvalidRow)
}

func TestSourceAccessors(t *testing.T) {
	source, err := New(
		[]string{"name", "qty"},
		[]datatable.DataType{datatable.TypeString, datatable.TypeInt},
		[][]datatable.Value{
			{datatable.NewValue("bolt", datatable.TypeString), datatable.NewValue(int64(7), datatable.TypeInt)},
			{datatable.NewValue("nut", datatable.TypeString), datatable.NewValue(int64(12), datatable.TypeInt)},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, source.RowCount())
	assert.Equal(t, 2, source.ColumnCount())

	name, err := source.ColumnName(1)
	require.NoError(t, err)
	assert.Equal(t, "qty", name)

	_, err = source.ColumnName(5)
	assert.ErrorIs(t, err, datatable.ErrInvalidColumn)

	v, err := source.Cell(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "12", v.Formatted)

	_, err = source.Cell(9, 0)
	assert.ErrorIs(t, err, datatable.ErrInvalidRow)

	row, err := source.Row(0)
	require.NoError(t, err)
	assert.Len(t, row, 2)
}

func TestNewFromMaps(t *testing.T) {
	data := []map[string]interface{}{
		{"name": "bolt", "qty": 7.0, "ok": true},
		{"name": "nut", "qty": 12.0},
	}
	source, err := NewFromMaps(data)
	require.NoError(t, err)

	// Columns are the sorted union of keys.
	names := make([]string, source.ColumnCount())
	for i := range names {
		n, err := source.ColumnName(i)
		require.NoError(t, err)
		names[i] = n
	}
	assert.Equal(t, []string{"name", "ok", "qty"}, names)

	// A key absent from a record is a null cell.
	v, err := source.Cell(1, 1)
	require.NoError(t, err)
	assert.True(t, v.IsNull)

	dt, err := source.ColumnType(2)
	require.NoError(t, err)
	assert.Equal(t, datatable.TypeFloat, dt)
}

func TestNewFromMapsEmpty(t *testing.T) {
	_, err := NewFromMaps(nil)
	assert.ErrorIs(t, err, datatable.ErrEmptyData)
}
