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

// Package index builds and serves per-column distinct-value indexes over an
// immutable datatable.Snapshot. An index maps each distinct formatted value
// to a bitmap of row positions; numeric and date columns additionally carry
// sorted (value, position) pairs for binary-searched range queries.
package index

import (
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring"
)

// NumEntry is one (value, position) pair of a numeric column, sorted by
// value ascending with ties in row-position order.
type NumEntry struct {
	Value float64
	Pos   uint32
}

// TimeEntry is one (value, position) pair of a date/timestamp column.
// Value is Unix nanoseconds.
type TimeEntry struct {
	Value int64
	Pos   uint32
}

// ColumnIndex holds the distinct-value index of a single column. It is
// immutable once built; all methods are safe for concurrent use.
type ColumnIndex struct {
	key      string
	values   []string
	postings map[string]*roaring.Bitmap
	nums     []NumEntry
	times    []TimeEntry
}

// Key returns the column key the index was built for.
func (ci *ColumnIndex) Key() string {
	return ci.key
}

// DistinctValues returns the sorted distinct formatted values of the column.
// The returned slice must not be modified.
func (ci *ColumnIndex) DistinctValues() []string {
	return ci.values
}

// DistinctCount returns the number of distinct values in the column.
func (ci *ColumnIndex) DistinctCount() int {
	return len(ci.values)
}

// Postings returns the row-position bitmap for one distinct value, or nil
// when the value does not occur. Callers must not mutate the bitmap.
func (ci *ColumnIndex) Postings(value string) *roaring.Bitmap {
	return ci.postings[value]
}

// NumericRange returns the positions whose numeric value lies in the
// inclusive [min, max] range. A nil bound is open. Null cells never match.
func (ci *ColumnIndex) NumericRange(min, max *float64) *roaring.Bitmap {
	lo := 0
	if min != nil {
		lo = sort.Search(len(ci.nums), func(i int) bool { return ci.nums[i].Value >= *min })
	}
	hi := len(ci.nums)
	if max != nil {
		hi = sort.Search(len(ci.nums), func(i int) bool { return ci.nums[i].Value > *max })
	}

	out := roaring.New()
	for i := lo; i < hi; i++ {
		out.Add(ci.nums[i].Pos)
	}
	return out
}

// TimeRange returns the positions whose date value lies in the inclusive
// [from, to] range. A nil bound is open. Null cells never match.
func (ci *ColumnIndex) TimeRange(from, to *time.Time) *roaring.Bitmap {
	lo := 0
	if from != nil {
		f := from.UnixNano()
		lo = sort.Search(len(ci.times), func(i int) bool { return ci.times[i].Value >= f })
	}
	hi := len(ci.times)
	if to != nil {
		t := to.UnixNano()
		hi = sort.Search(len(ci.times), func(i int) bool { return ci.times[i].Value > t })
	}

	out := roaring.New()
	for i := lo; i < hi; i++ {
		out.Add(ci.times[i].Pos)
	}
	return out
}
