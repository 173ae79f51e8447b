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

package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"dgb/datatable"
	"dgb/internal/logutil"
)

// scanChunk is the number of rows scanned between cancellation checks.
const scanChunk = 4096

// Build constructs one ColumnIndex per filterable column, fanning the column
// scans out on pool and joining before returning. Column count is bounded
// while row count is large, so parallelism is per column, keeping each scan
// cache-local and avoiding shard merges.
//
// Columns whose binding key did not resolve fail fast with a per-column
// entry in the returned error map; the remaining columns are still indexed.
// When ctx is cancelled the partial result is discarded and ctx.Err() is
// returned; a cancelled build is never published.
func Build(ctx context.Context, pool *ants.Pool, snap *datatable.Snapshot, columns []datatable.Column) (map[string]*ColumnIndex, map[string]error, error) {
	start := time.Now()
	indexes := make(map[string]*ColumnIndex)
	colErrs := make(map[string]error)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, col := range columns {
		if !col.Filterable {
			continue
		}
		if !snap.HasColumn(col.Key) {
			colErrs[col.Key] = fmt.Errorf("column %q (binding %q): %w", col.Key, col.Binding, datatable.ErrSchemaMismatch)
			continue
		}

		col := col
		task := func() {
			defer wg.Done()
			ci, err := buildColumn(ctx, snap, col)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				colErrs[col.Key] = err
				return
			}
			indexes[col.Key] = ci
		}

		wg.Add(1)
		if pool == nil || pool.Submit(task) != nil {
			// No pool (or pool closed): degrade to an inline scan.
			task()
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// Cancellation observed mid-scan surfaces as a column error; treat it
	// as a whole-build abort so partial indexes are never served.
	for _, err := range colErrs {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, err
		}
	}

	logutil.Debug("column indexes built",
		zap.Int("rows", snap.Len()),
		zap.Int("indexed", len(indexes)),
		zap.Int("failed", len(colErrs)),
		zap.Duration("elapsed", time.Since(start)))
	return indexes, colErrs, nil
}

// buildColumn scans one column once, grouping row positions by distinct
// formatted value. Positions enter each posting bitmap in ascending row
// order; the sorted range arrays keep that order within equal values.
func buildColumn(ctx context.Context, snap *datatable.Snapshot, col datatable.Column) (*ColumnIndex, error) {
	cells, err := snap.ColumnValues(col.Key)
	if err != nil {
		return nil, err
	}

	ci := &ColumnIndex{
		key:      col.Key,
		postings: make(map[string]*roaring.Bitmap),
	}

	for pos, v := range cells {
		if pos%scanChunk == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		bm, ok := ci.postings[v.Formatted]
		if !ok {
			bm = roaring.New()
			ci.postings[v.Formatted] = bm
		}
		bm.Add(uint32(pos))

		switch col.Kind {
		case datatable.FilterNumericRange:
			if f, ok := v.Float(); ok {
				ci.nums = append(ci.nums, NumEntry{Value: f, Pos: uint32(pos)})
			}
		case datatable.FilterDateRange:
			if t, ok := v.Time(); ok {
				ci.times = append(ci.times, TimeEntry{Value: t.UnixNano(), Pos: uint32(pos)})
			}
		}
	}

	ci.values = make([]string, 0, len(ci.postings))
	for v := range ci.postings {
		ci.values = append(ci.values, v)
	}
	sort.Strings(ci.values)

	// Entries were appended in row order, so a stable sort keeps positions
	// ascending within equal values.
	sort.SliceStable(ci.nums, func(i, j int) bool { return ci.nums[i].Value < ci.nums[j].Value })
	sort.SliceStable(ci.times, func(i, j int) bool { return ci.times[i].Value < ci.times[j].Value })

	return ci, nil
}
