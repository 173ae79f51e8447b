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

// Package slice adapts in-memory row slices to the datatable.DataSource
// interface. The dataset generator and the JSON loader build on it.
package slice

import (
	"fmt"
	"sort"
	"time"

	"dgb/datatable"
)

// Source is a slice-backed DataSource. Immutable after construction and
// therefore safe for concurrent reads.
type Source struct {
	names []string
	types []datatable.DataType
	rows  [][]datatable.Value
	meta  datatable.Metadata
}

var _ datatable.DataSource = (*Source)(nil)

// New builds a Source from parallel column names/types and pre-typed rows.
// Every row must have one value per column.
func New(names []string, types []datatable.DataType, rows [][]datatable.Value) (*Source, error) {
	if len(names) == 0 {
		return nil, datatable.ErrEmptyData
	}
	if len(names) != len(types) {
		return nil, fmt.Errorf("%d names for %d types: %w", len(names), len(types), datatable.ErrInvalidColumn)
	}
	for i, row := range rows {
		if len(row) != len(names) {
			return nil, fmt.Errorf("row %d has %d values for %d columns: %w", i, len(row), len(names), datatable.ErrInvalidRow)
		}
	}
	return &Source{
		names: names,
		types: types,
		rows:  rows,
		meta:  datatable.Metadata{},
	}, nil
}

// NewFromMaps builds a Source from decoded JSON records. Columns are the
// union of keys, sorted; types are inferred from the first non-nil value.
func NewFromMaps(data []map[string]interface{}) (*Source, error) {
	if len(data) == 0 {
		return nil, datatable.ErrEmptyData
	}

	keySet := make(map[string]bool)
	for _, rec := range data {
		for k := range rec {
			keySet[k] = true
		}
	}
	names := make([]string, 0, len(keySet))
	for k := range keySet {
		names = append(names, k)
	}
	sort.Strings(names)

	types := make([]datatable.DataType, len(names))
	for i, name := range names {
		types[i] = datatable.TypeString
		for _, rec := range data {
			if v, ok := rec[name]; ok && v != nil {
				types[i] = inferType(v)
				break
			}
		}
	}

	rows := make([][]datatable.Value, len(data))
	for r, rec := range data {
		row := make([]datatable.Value, len(names))
		for c, name := range names {
			row[c] = coerce(rec[name], types[c])
		}
		rows[r] = row
	}
	return New(names, types, rows)
}

func inferType(v interface{}) datatable.DataType {
	switch v.(type) {
	case bool:
		return datatable.TypeBool
	case float64, int, int64:
		return datatable.TypeFloat
	case time.Time:
		return datatable.TypeTimestamp
	default:
		return datatable.TypeString
	}
}

func coerce(v interface{}, dt datatable.DataType) datatable.Value {
	if v == nil {
		return datatable.NewNullValue(dt)
	}
	switch dt {
	case datatable.TypeFloat:
		switch n := v.(type) {
		case float64:
			return datatable.NewValue(n, dt)
		case int:
			return datatable.NewValue(float64(n), dt)
		case int64:
			return datatable.NewValue(float64(n), dt)
		}
	case datatable.TypeBool:
		if b, ok := v.(bool); ok {
			return datatable.NewValue(b, dt)
		}
	case datatable.TypeTimestamp:
		if t, ok := v.(time.Time); ok {
			return datatable.NewValue(t, dt)
		}
	}
	return datatable.NewValue(fmt.Sprintf("%v", v), datatable.TypeString)
}

// RowCount implements datatable.DataSource.
func (s *Source) RowCount() int {
	return len(s.rows)
}

// ColumnCount implements datatable.DataSource.
func (s *Source) ColumnCount() int {
	return len(s.names)
}

// ColumnName implements datatable.DataSource.
func (s *Source) ColumnName(col int) (string, error) {
	if col < 0 || col >= len(s.names) {
		return "", datatable.ErrInvalidColumn
	}
	return s.names[col], nil
}

// ColumnType implements datatable.DataSource.
func (s *Source) ColumnType(col int) (datatable.DataType, error) {
	if col < 0 || col >= len(s.types) {
		return datatable.TypeString, datatable.ErrInvalidColumn
	}
	return s.types[col], nil
}

// Cell implements datatable.DataSource.
func (s *Source) Cell(row, col int) (datatable.Value, error) {
	if row < 0 || row >= len(s.rows) {
		return datatable.Value{}, datatable.ErrInvalidRow
	}
	if col < 0 || col >= len(s.names) {
		return datatable.Value{}, datatable.ErrInvalidColumn
	}
	return s.rows[row][col], nil
}

// Row implements datatable.DataSource.
func (s *Source) Row(row int) ([]datatable.Value, error) {
	if row < 0 || row >= len(s.rows) {
		return nil, datatable.ErrInvalidRow
	}
	return s.rows[row], nil
}

// Metadata implements datatable.DataSource.
func (s *Source) Metadata() datatable.Metadata {
	return s.meta
}
