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

package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring"

	"dgb/datatable"
	"dgb/internal/index"
)

// ValueCount pairs one of a column's distinct values with the number of
// rows carrying it that match all other columns' active filters.
type ValueCount struct {
	Value string
	Count uint64
}

// Evaluate computes the visible row set for the given state: the
// intersection of every active column's candidate set. Bitmap iteration
// order is ascending row position regardless of filter application order.
func Evaluate(snap *datatable.Snapshot, indexes map[string]*index.ColumnIndex, st *State) (*roaring.Bitmap, error) {
	return intersectExcept(snap, indexes, st, "")
}

// ValueCounts computes, for the target column, how many rows carrying each
// of its distinct values match all *other* columns' active filters. The sum
// over all values equals the visible-set size with the target's own filter
// removed. Zero counts are reported, never dropped; display policy is the
// popup's business.
func ValueCounts(snap *datatable.Snapshot, indexes map[string]*index.ColumnIndex, st *State, target string) ([]ValueCount, error) {
	ci := indexes[target]
	if ci == nil {
		return nil, fmt.Errorf("column %q: %w", target, datatable.ErrColumnNotFound)
	}

	base, err := intersectExcept(snap, indexes, st, target)
	if err != nil {
		return nil, err
	}

	values := ci.DistinctValues()
	out := make([]ValueCount, 0, len(values))
	for _, v := range values {
		n := uint64(0)
		if p := ci.Postings(v); p != nil {
			n = roaring.And(base, p).GetCardinality()
		}
		out = append(out, ValueCount{Value: v, Count: n})
	}
	return out, nil
}

// intersectExcept intersects the candidate sets of every active filter
// except the excluded column's ("" excludes nothing). Smallest candidate
// first to keep the intersection cheap. This is the shared core of both
// Evaluate and ValueCounts.
func intersectExcept(snap *datatable.Snapshot, indexes map[string]*index.ColumnIndex, st *State, exclude string) (*roaring.Bitmap, error) {
	if snap == nil {
		return nil, datatable.ErrNoDataSource
	}

	var cands []*roaring.Bitmap
	for _, col := range st.Active() {
		if col == exclude {
			continue
		}
		bm, err := candidate(snap, indexes[col], col, st.Get(col))
		if err != nil {
			return nil, err
		}
		cands = append(cands, bm)
	}

	if len(cands) == 0 {
		return allRows(snap.Len()), nil
	}

	sort.Slice(cands, func(i, j int) bool {
		return cands[i].GetCardinality() < cands[j].GetCardinality()
	})
	out := cands[0].Clone()
	for _, bm := range cands[1:] {
		out.And(bm)
		if out.IsEmpty() {
			break
		}
	}
	return out, nil
}

// candidate derives one column's candidate position set.
func candidate(snap *datatable.Snapshot, ci *index.ColumnIndex, col string, f *ColumnFilter) (*roaring.Bitmap, error) {
	switch f.Kind {
	case KindChecklist:
		if ci == nil {
			return nil, fmt.Errorf("column %q: %w", col, datatable.ErrSchemaMismatch)
		}
		var parts []*roaring.Bitmap
		for v := range f.Selected {
			if p := ci.Postings(v); p != nil {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			return roaring.New(), nil
		}
		return roaring.FastOr(parts...), nil

	case KindTextSearch:
		needle := strings.ToLower(f.Search)
		if ci != nil {
			var parts []*roaring.Bitmap
			for _, v := range ci.DistinctValues() {
				if strings.Contains(strings.ToLower(v), needle) {
					parts = append(parts, ci.Postings(v))
				}
			}
			if len(parts) == 0 {
				return roaring.New(), nil
			}
			return roaring.FastOr(parts...), nil
		}
		// No prebuilt index for this column: fall back to a full scan.
		cells, err := snap.ColumnValues(col)
		if err != nil {
			return nil, err
		}
		out := roaring.New()
		for pos, v := range cells {
			if strings.Contains(strings.ToLower(v.Formatted), needle) {
				out.Add(uint32(pos))
			}
		}
		return out, nil

	case KindNumericRange:
		if ci == nil {
			return nil, fmt.Errorf("column %q: %w", col, datatable.ErrSchemaMismatch)
		}
		return ci.NumericRange(f.Min, f.Max), nil

	case KindDateRange:
		if ci == nil {
			return nil, fmt.Errorf("column %q: %w", col, datatable.ErrSchemaMismatch)
		}
		return ci.TimeRange(f.From, f.To), nil

	default:
		return nil, fmt.Errorf("column %q: unknown filter kind %d", col, f.Kind)
	}
}

func allRows(n int) *roaring.Bitmap {
	bm := roaring.New()
	bm.AddRange(0, uint64(n))
	return bm
}
