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
	"fmt"
)

// ingestChunk is the number of rows copied between cancellation checks
// during bulk ingestion.
const ingestChunk = 8192

// Snapshot is an immutable materialization of a DataSource against a column
// definition list. Row positions are stable integer offsets and serve as the
// universal row identifier for indexes and result sets. A Snapshot is never
// mutated after NewSnapshot returns; reloading a dataset produces a new one.
//
// Cells are stored column-major so per-column index scans stay cache-local.
type Snapshot struct {
	columns []Column
	byKey   map[string]int
	missing map[string]bool
	cells   [][]Value
	rows    int
}

// NewSnapshot bulk-ingests source into an immutable snapshot. Columns whose
// Binding does not resolve against the source schema are recorded as missing
// rather than failing the whole ingestion; the index builder reports them.
// Ingestion checks ctx between row chunks and returns ctx.Err() when
// cancelled.
func NewSnapshot(ctx context.Context, source DataSource, columns []Column) (*Snapshot, error) {
	if source == nil {
		return nil, ErrNoDataSource
	}
	if len(columns) == 0 {
		return nil, ErrEmptyData
	}

	// Resolve binding keys against the source schema once.
	nameToCol := make(map[string]int, source.ColumnCount())
	for i := 0; i < source.ColumnCount(); i++ {
		name, err := source.ColumnName(i)
		if err != nil {
			return nil, fmt.Errorf("resolving schema: %w", err)
		}
		nameToCol[name] = i
	}

	snap := &Snapshot{
		columns: columns,
		byKey:   make(map[string]int, len(columns)),
		missing: make(map[string]bool),
		cells:   make([][]Value, len(columns)),
		rows:    source.RowCount(),
	}

	resolved := make([]int, len(columns))
	for c, col := range columns {
		if _, dup := snap.byKey[col.Key]; dup {
			return nil, fmt.Errorf("column %q: duplicate key", col.Key)
		}
		snap.byKey[col.Key] = c
		src, ok := nameToCol[col.Binding]
		if !ok {
			snap.missing[col.Key] = true
			resolved[c] = -1
			continue
		}
		resolved[c] = src
		snap.cells[c] = make([]Value, 0, snap.rows)
	}

	for pos := 0; pos < snap.rows; pos++ {
		if pos%ingestChunk == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for c := range columns {
			if resolved[c] < 0 {
				continue
			}
			v, err := source.Cell(pos, resolved[c])
			if err != nil {
				return nil, fmt.Errorf("ingesting row %d column %q: %w", pos, columns[c].Key, err)
			}
			snap.cells[c] = append(snap.cells[c], v)
		}
	}

	return snap, nil
}

// Len returns the number of rows in the snapshot.
func (s *Snapshot) Len() int {
	return s.rows
}

// Columns returns the column definitions the snapshot was built with.
// The returned slice must not be modified.
func (s *Snapshot) Columns() []Column {
	return s.columns
}

// Column returns the definition for the given column key.
func (s *Snapshot) Column(key string) (Column, bool) {
	c, ok := s.byKey[key]
	if !ok {
		return Column{}, false
	}
	return s.columns[c], true
}

// HasColumn reports whether the column key exists and its binding resolved
// against the source schema.
func (s *Snapshot) HasColumn(key string) bool {
	_, ok := s.byKey[key]
	return ok && !s.missing[key]
}

// Cell returns the value at the given row position and column key.
func (s *Snapshot) Cell(pos int, key string) (Value, error) {
	c, ok := s.byKey[key]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrColumnNotFound, key)
	}
	if s.missing[key] {
		return Value{}, fmt.Errorf("%w: %q", ErrSchemaMismatch, key)
	}
	if pos < 0 || pos >= s.rows {
		return Value{}, fmt.Errorf("%w: %d", ErrInvalidRow, pos)
	}
	return s.cells[c][pos], nil
}

// ColumnValues returns the full cell slice for a column, in row-position
// order. The returned slice must not be modified. Used by the index builder
// for single-pass column scans.
func (s *Snapshot) ColumnValues(key string) ([]Value, error) {
	c, ok := s.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, key)
	}
	if s.missing[key] {
		return nil, fmt.Errorf("%w: %q", ErrSchemaMismatch, key)
	}
	return s.cells[c], nil
}

// RowValues returns one value per defined column for the given position,
// null-filling columns whose binding did not resolve.
func (s *Snapshot) RowValues(pos int) ([]Value, error) {
	if pos < 0 || pos >= s.rows {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRow, pos)
	}
	out := make([]Value, len(s.columns))
	for c, col := range s.columns {
		if s.missing[col.Key] {
			out[c] = NewNullValue(TypeString)
			continue
		}
		out[c] = s.cells[c][pos]
	}
	return out, nil
}
