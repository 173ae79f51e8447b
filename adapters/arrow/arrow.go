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

// Package arrow adapts Apache Arrow tables to the datatable.DataSource
// interface. Parquet files are read through it.
package arrow

import (
	"fmt"
	"sort"

	arrowlib "github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"dgb/datatable"
)

// column holds one Arrow column's chunks with cumulative row offsets for
// random access.
type column struct {
	name    string
	dtype   datatable.DataType
	chunks  []arrowlib.Array
	offsets []int // offsets[i] = first row of chunks[i]
	rows    int
}

// Source is a DataSource over an Arrow table. The table is retained for
// the Source's lifetime; call Release when done.
type Source struct {
	table   arrowlib.Table
	columns []column
	rows    int
}

var _ datatable.DataSource = (*Source)(nil)

// NewFromArrowTable wraps an Arrow table. The table is retained; the caller
// keeps its own reference.
func NewFromArrowTable(table arrowlib.Table) (*Source, error) {
	if table == nil {
		return nil, datatable.ErrNoDataSource
	}
	table.Retain()

	s := &Source{
		table: table,
		rows:  int(table.NumRows()),
	}
	schema := table.Schema()
	for i := 0; i < int(table.NumCols()); i++ {
		chunked := table.Column(i).Data()
		col := column{
			name:  schema.Field(i).Name,
			dtype: mapDataType(schema.Field(i).Type),
		}
		off := 0
		for _, chunk := range chunked.Chunks() {
			col.chunks = append(col.chunks, chunk)
			col.offsets = append(col.offsets, off)
			off += chunk.Len()
		}
		col.rows = off
		s.columns = append(s.columns, col)
	}
	return s, nil
}

// Release drops the adapter's reference on the underlying table.
func (s *Source) Release() {
	s.table.Release()
}

func mapDataType(dt arrowlib.DataType) datatable.DataType {
	switch dt.ID() {
	case arrowlib.STRING, arrowlib.LARGE_STRING:
		return datatable.TypeString
	case arrowlib.INT8, arrowlib.INT16, arrowlib.INT32, arrowlib.INT64,
		arrowlib.UINT8, arrowlib.UINT16, arrowlib.UINT32, arrowlib.UINT64:
		return datatable.TypeInt
	case arrowlib.FLOAT16, arrowlib.FLOAT32, arrowlib.FLOAT64:
		return datatable.TypeFloat
	case arrowlib.BOOL:
		return datatable.TypeBool
	case arrowlib.DATE32, arrowlib.DATE64:
		return datatable.TypeDate
	case arrowlib.TIMESTAMP:
		return datatable.TypeTimestamp
	default:
		return datatable.TypeString
	}
}

// RowCount implements datatable.DataSource.
func (s *Source) RowCount() int {
	return s.rows
}

// ColumnCount implements datatable.DataSource.
func (s *Source) ColumnCount() int {
	return len(s.columns)
}

// ColumnName implements datatable.DataSource.
func (s *Source) ColumnName(col int) (string, error) {
	if col < 0 || col >= len(s.columns) {
		return "", datatable.ErrInvalidColumn
	}
	return s.columns[col].name, nil
}

// ColumnType implements datatable.DataSource.
func (s *Source) ColumnType(col int) (datatable.DataType, error) {
	if col < 0 || col >= len(s.columns) {
		return datatable.TypeString, datatable.ErrInvalidColumn
	}
	return s.columns[col].dtype, nil
}

// Cell implements datatable.DataSource.
func (s *Source) Cell(row, col int) (datatable.Value, error) {
	if col < 0 || col >= len(s.columns) {
		return datatable.Value{}, datatable.ErrInvalidColumn
	}
	c := &s.columns[col]
	if row < 0 || row >= c.rows {
		return datatable.Value{}, datatable.ErrInvalidRow
	}
	// Find the chunk containing row: last offset <= row.
	i := sort.Search(len(c.offsets), func(i int) bool { return c.offsets[i] > row }) - 1
	return valueAt(c.chunks[i], row-c.offsets[i], c.dtype), nil
}

// Row implements datatable.DataSource.
func (s *Source) Row(row int) ([]datatable.Value, error) {
	if row < 0 || row >= s.rows {
		return nil, datatable.ErrInvalidRow
	}
	out := make([]datatable.Value, len(s.columns))
	for c := range s.columns {
		v, err := s.Cell(row, c)
		if err != nil {
			return nil, err
		}
		out[c] = v
	}
	return out, nil
}

// Metadata implements datatable.DataSource.
func (s *Source) Metadata() datatable.Metadata {
	md := datatable.Metadata{}
	for k, v := range s.table.Schema().Metadata().ToMap() {
		md[k] = v
	}
	return md
}

// valueAt converts one Arrow cell to a datatable.Value.
func valueAt(arr arrowlib.Array, pos int, dt datatable.DataType) datatable.Value {
	if arr.IsNull(pos) {
		return datatable.NewNullValue(dt)
	}

	switch a := arr.(type) {
	case *array.String:
		return datatable.NewValue(a.Value(pos), datatable.TypeString)
	case *array.LargeString:
		return datatable.NewValue(a.Value(pos), datatable.TypeString)
	case *array.Boolean:
		return datatable.NewValue(a.Value(pos), datatable.TypeBool)
	case *array.Int8:
		return datatable.NewValue(int64(a.Value(pos)), datatable.TypeInt)
	case *array.Int16:
		return datatable.NewValue(int64(a.Value(pos)), datatable.TypeInt)
	case *array.Int32:
		return datatable.NewValue(int64(a.Value(pos)), datatable.TypeInt)
	case *array.Int64:
		return datatable.NewValue(a.Value(pos), datatable.TypeInt)
	case *array.Uint8:
		return datatable.NewValue(int64(a.Value(pos)), datatable.TypeInt)
	case *array.Uint16:
		return datatable.NewValue(int64(a.Value(pos)), datatable.TypeInt)
	case *array.Uint32:
		return datatable.NewValue(int64(a.Value(pos)), datatable.TypeInt)
	case *array.Uint64:
		return datatable.NewValue(int64(a.Value(pos)), datatable.TypeInt)
	case *array.Float32:
		return datatable.NewValue(float64(a.Value(pos)), datatable.TypeFloat)
	case *array.Float64:
		return datatable.NewValue(a.Value(pos), datatable.TypeFloat)
	case *array.Date32:
		return datatable.NewValue(a.Value(pos).ToTime(), datatable.TypeDate)
	case *array.Date64:
		return datatable.NewValue(a.Value(pos).ToTime(), datatable.TypeDate)
	case *array.Timestamp:
		unit := arrowlib.Nanosecond
		if ts, ok := a.DataType().(*arrowlib.TimestampType); ok {
			unit = ts.Unit
		}
		return datatable.NewValue(a.Value(pos).ToTime(unit).UTC(), datatable.TypeTimestamp)
	default:
		return datatable.NewValue(fmt.Sprintf("%v", arr.ValueStr(pos)), datatable.TypeString)
	}
}
