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

import "fmt"

// FilterKind selects which filter UI and query path a column uses.
type FilterKind int

const (
	// FilterChecklist filters on a set of selected distinct values.
	FilterChecklist FilterKind = iota
	// FilterTextSearch filters on a substring-contains predicate.
	FilterTextSearch
	// FilterNumericRange filters on an inclusive numeric min/max range.
	FilterNumericRange
	// FilterDateRange filters on an inclusive date start/end range.
	FilterDateRange
)

// String returns the string representation of a FilterKind.
func (fk FilterKind) String() string {
	switch fk {
	case FilterChecklist:
		return "Checklist"
	case FilterTextSearch:
		return "TextSearch"
	case FilterNumericRange:
		return "NumericRange"
	case FilterDateRange:
		return "DateRange"
	default:
		return fmt.Sprintf("Unknown(%d)", fk)
	}
}

// Column describes one grid column: how it binds to the underlying data
// source and how it can be filtered. Columns are created at configuration
// time and read-only thereafter.
type Column struct {
	// Key uniquely identifies the column within a table.
	Key string

	// Title is the header text shown in the grid.
	Title string

	// Binding is the field name resolved against the data source schema.
	Binding string

	// Kind selects the filter behavior for this column.
	Kind FilterKind

	// Filterable indicates whether the column participates in filtering
	// and gets a distinct-value index built for it.
	Filterable bool

	// Format is an optional display format hint (currently informational).
	Format string
}

// DefaultFilterKind maps a data type to the filter kind a column of that
// type gets when none is specified explicitly.
func DefaultFilterKind(dt DataType) FilterKind {
	switch dt {
	case TypeInt, TypeFloat:
		return FilterNumericRange
	case TypeDate, TypeTimestamp:
		return FilterDateRange
	default:
		return FilterChecklist
	}
}

// ColumnsFromSource derives a filterable column per source column, using
// DefaultFilterKind for the filter behavior. Used when opening files whose
// schema is only known at load time.
func ColumnsFromSource(source DataSource) ([]Column, error) {
	if source == nil {
		return nil, ErrNoDataSource
	}
	cols := make([]Column, 0, source.ColumnCount())
	for i := 0; i < source.ColumnCount(); i++ {
		name, err := source.ColumnName(i)
		if err != nil {
			return nil, fmt.Errorf("deriving columns: %w", err)
		}
		dt, err := source.ColumnType(i)
		if err != nil {
			return nil, fmt.Errorf("deriving columns: %w", err)
		}
		cols = append(cols, Column{
			Key:        name,
			Title:      name,
			Binding:    name,
			Kind:       DefaultFilterKind(dt),
			Filterable: true,
		})
	}
	return cols, nil
}
