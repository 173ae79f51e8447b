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

// Package filter holds the per-column filter state and the query engine
// that evaluates it against column indexes.
package filter

import (
	"fmt"
	"sort"
	"time"

	"dgb/datatable"
)

// Kind tags the variant a ColumnFilter holds.
type Kind int

const (
	// KindChecklist restricts a column to a set of selected distinct values.
	KindChecklist Kind = iota
	// KindTextSearch restricts a column to values containing a substring.
	KindTextSearch
	// KindNumericRange restricts a column to an inclusive numeric range.
	KindNumericRange
	// KindDateRange restricts a column to an inclusive date range.
	KindDateRange
)

// ColumnFilter is one column's active filter. Exactly the fields matching
// Kind are meaningful. Treat as immutable once constructed.
type ColumnFilter struct {
	Kind     Kind
	Selected map[string]struct{}
	Search   string
	Min, Max *float64
	From, To *time.Time
}

// Checklist builds a checklist filter from the selected formatted values.
func Checklist(values []string) *ColumnFilter {
	sel := make(map[string]struct{}, len(values))
	for _, v := range values {
		sel[v] = struct{}{}
	}
	return &ColumnFilter{Kind: KindChecklist, Selected: sel}
}

// TextSearch builds a case-insensitive substring filter.
func TextSearch(query string) *ColumnFilter {
	return &ColumnFilter{Kind: KindTextSearch, Search: query}
}

// NumericRange builds an inclusive numeric range filter. A nil bound is
// open. Returns ErrInvalidRange when min > max.
func NumericRange(min, max *float64) (*ColumnFilter, error) {
	if min != nil && max != nil && *min > *max {
		return nil, fmt.Errorf("%w: min %v > max %v", datatable.ErrInvalidRange, *min, *max)
	}
	return &ColumnFilter{Kind: KindNumericRange, Min: min, Max: max}, nil
}

// DateRange builds an inclusive date range filter. A nil bound is open.
// Returns ErrInvalidRange when from is after to.
func DateRange(from, to *time.Time) (*ColumnFilter, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("%w: from %v after to %v", datatable.ErrInvalidRange, from, to)
	}
	return &ColumnFilter{Kind: KindDateRange, From: from, To: to}, nil
}

// State maps column keys to their active filter. Absence of an entry means
// "no restriction". State is pure data; the engine composes entries with
// AND semantics across columns.
type State struct {
	filters map[string]*ColumnFilter
}

// NewState returns an empty filter state.
func NewState() *State {
	return &State{filters: make(map[string]*ColumnFilter)}
}

// Set installs a filter for the column, replacing any prior one. A nil
// filter clears the column.
func (s *State) Set(column string, f *ColumnFilter) {
	if f == nil {
		delete(s.filters, column)
		return
	}
	s.filters[column] = f
}

// Get returns the column's filter, or nil when unrestricted.
func (s *State) Get(column string) *ColumnFilter {
	return s.filters[column]
}

// Clear removes the column's filter.
func (s *State) Clear(column string) {
	delete(s.filters, column)
}

// ClearAll removes every filter.
func (s *State) ClearAll() {
	s.filters = make(map[string]*ColumnFilter)
}

// Active returns the keys of columns with an active filter, sorted.
func (s *State) Active() []string {
	keys := make([]string, 0, len(s.filters))
	for k := range s.filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of active column filters.
func (s *State) Len() int {
	return len(s.filters)
}

// IsEmpty reports whether no filter is active.
func (s *State) IsEmpty() bool {
	return len(s.filters) == 0
}

// Clone returns a shallow copy sharing the (immutable) ColumnFilter values.
func (s *State) Clone() *State {
	out := NewState()
	for k, f := range s.filters {
		out.filters[k] = f
	}
	return out
}
