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

package csv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dgb/datatable"
)

func TestNewFromReaderInfersTypes(t *testing.T) {
	input := strings.Join([]string{
		"id,price,active,joined,name",
		"1,9.50,true,2024-01-15,Ada",
		"2,12.00,false,2024-02-20,Alan",
		"3,0.75,true,2024-03-25,Grace",
	}, "\n")

	source, err := NewFromReader(strings.NewReader(input), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 3, source.RowCount())
	assert.Equal(t, 5, source.ColumnCount())

	wantTypes := []datatable.DataType{
		datatable.TypeInt, datatable.TypeFloat, datatable.TypeBool,
		datatable.TypeDate, datatable.TypeString,
	}
	for i, want := range wantTypes {
		got, err := source.ColumnType(i)
		require.NoError(t, err)
		assert.Equal(t, want, got, "column %d", i)
	}

	v, err := source.Cell(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "9.50", v.Formatted)

	d, err := source.Cell(2, 3)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-25", d.Formatted)
}

func TestNewFromReaderEmptyFieldsAreNull(t *testing.T) {
	input := "id,score\n1,10\n2,\n3,30"
	source, err := NewFromReader(strings.NewReader(input), DefaultConfig())
	require.NoError(t, err)

	v, err := source.Cell(1, 1)
	require.NoError(t, err)
	assert.True(t, v.IsNull)
	assert.Equal(t, "", v.Formatted)

	// Empty samples do not break inference for the rest of the column.
	dt, err := source.ColumnType(1)
	require.NoError(t, err)
	assert.Equal(t, datatable.TypeInt, dt)
}

func TestNewFromReaderWithoutHeaders(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HasHeaders = false

	source, err := NewFromReader(strings.NewReader("a,1\nb,2"), cfg)
	require.NoError(t, err)

	name, err := source.ColumnName(0)
	require.NoError(t, err)
	assert.Equal(t, "column1", name)
	assert.Equal(t, 2, source.RowCount())
}

func TestNewFromReaderCustomDelimiter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Delimiter = ';'

	source, err := NewFromReader(strings.NewReader("name;qty\nbolt;7\nnut;12"), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, source.ColumnCount())

	v, err := source.Cell(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "12", v.Formatted)
}

func TestNewFromReaderRaggedRows(t *testing.T) {
	// Short rows null-fill the missing trailing fields.
	source, err := NewFromReader(strings.NewReader("a,b,c\n1,2,3\n4,5"), DefaultConfig())
	require.NoError(t, err)

	v, err := source.Cell(1, 2)
	require.NoError(t, err)
	assert.True(t, v.IsNull)
}

func TestNewFromReaderEmptyInput(t *testing.T) {
	_, err := NewFromReader(strings.NewReader(""), DefaultConfig())
	assert.ErrorIs(t, err, datatable.ErrEmptyData)
}

func TestNewFromReaderMixedColumnFallsBackToString(t *testing.T) {
	source, err := NewFromReader(strings.NewReader("v\n1\nabc\n3"), DefaultConfig())
	require.NoError(t, err)

	dt, err := source.ColumnType(0)
	require.NoError(t, err)
	assert.Equal(t, datatable.TypeString, dt)
}
