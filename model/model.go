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

// Package model ties a row snapshot, its column indexes and the UI-owned
// filter state together into the table model the grid binds to.
//
// A (snapshot, indexes) pair is one generation. Bulk loads build the next
// generation off the interactive thread and publish it with a single
// pointer swap, so readers always see a consistent pairing and never a
// half-rebuilt index. A newer load cancels an in-flight one; the loser's
// partial build is discarded, never published.
package model

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"dgb/datatable"
	"dgb/internal/filter"
	"dgb/internal/index"
	"dgb/internal/logutil"
)

// ValueCount re-exports the engine's popup count pair.
type ValueCount = filter.ValueCount

// LoadStats summarizes a completed bulk load.
type LoadStats struct {
	// Generation is the published generation number.
	Generation uint64
	// Rows is the snapshot row count.
	Rows int
	// IndexErrors maps column keys that failed to index (schema
	// mismatches) to their error. Other columns indexed normally.
	IndexErrors map[string]error
	// Elapsed covers ingestion plus index build.
	Elapsed time.Duration
}

type generation struct {
	id      uint64
	snap    *datatable.Snapshot
	indexes map[string]*index.ColumnIndex
}

// TableModel owns the current dataset generation and the filter state, and
// answers the synchronous queries the grid renders from. Filter mutations
// recompute the visible row set synchronously; index-assisted intersection
// keeps that within an interactive frame at the row counts this app targets.
type TableModel struct {
	pool *ants.Pool

	gen    atomic.Pointer[generation]
	genSeq atomic.Uint64

	loadMu     sync.Mutex
	loadCancel context.CancelFunc

	mu      sync.RWMutex
	state   *filter.State
	visible []uint32
	sort    datatable.SortState

	onChange func()
}

// NewTableModel creates an empty model. pool is the worker pool index
// builds fan out on; it may be shared across models.
func NewTableModel(pool *ants.Pool) *TableModel {
	return &TableModel{
		pool:  pool,
		state: filter.NewState(),
	}
}

// OnChange registers the single change handler, fired after every visible
// set recomputation. The grid re-renders from it.
func (m *TableModel) OnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Load ingests source against columns and builds the column indexes off the
// calling goroutine, publishing the new generation atomically on success.
// done is called exactly once, from the worker goroutine; UI callers wrap
// it to hop back onto the interactive thread.
//
// Starting a new Load cancels an in-flight one: the superseded load's done
// receives ErrLoadAborted and its partial build is discarded.
func (m *TableModel) Load(source datatable.DataSource, columns []datatable.Column, done func(*LoadStats, error)) {
	m.loadMu.Lock()
	if m.loadCancel != nil {
		m.loadCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.loadCancel = cancel
	m.loadMu.Unlock()

	go func() {
		start := time.Now()

		snap, err := datatable.NewSnapshot(ctx, source, columns)
		if err != nil {
			done(nil, loadError(ctx, err))
			return
		}
		indexes, indexErrs, err := index.Build(ctx, m.pool, snap, columns)
		if err != nil {
			done(nil, loadError(ctx, err))
			return
		}

		g := &generation{
			id:      m.genSeq.Add(1),
			snap:    snap,
			indexes: indexes,
		}

		// Publish unless a newer load superseded us while building. The
		// generation pointer and the fresh view state commit in one m.mu
		// critical section: a reader never pairs the new snapshot with the
		// previous generation's positions, and a load that publishes later
		// can never overwrite a newer load's view.
		m.loadMu.Lock()
		if ctx.Err() != nil {
			m.loadMu.Unlock()
			done(nil, datatable.ErrLoadAborted)
			return
		}
		m.mu.Lock()
		m.gen.Store(g)
		m.state = filter.NewState()
		m.sort = datatable.SortState{}
		m.visible = fullRange(g.snap.Len())
		m.mu.Unlock()
		m.loadCancel = nil
		cancel()
		m.loadMu.Unlock()

		m.notify()

		stats := &LoadStats{
			Generation:  g.id,
			Rows:        snap.Len(),
			IndexErrors: indexErrs,
			Elapsed:     time.Since(start),
		}
		logutil.Info("dataset loaded",
			zap.Uint64("generation", g.id),
			zap.Int("rows", stats.Rows),
			zap.Int("indexErrors", len(indexErrs)),
			zap.Duration("elapsed", stats.Elapsed))
		done(stats, nil)
	}()
}

func loadError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return datatable.ErrLoadAborted
	}
	return err
}

func fullRange(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}

func (m *TableModel) notify() {
	m.mu.RLock()
	fn := m.onChange
	m.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Loaded reports whether a generation has been published.
func (m *TableModel) Loaded() bool {
	return m.gen.Load() != nil
}

// Generation returns the published generation number, 0 before any load.
func (m *TableModel) Generation() uint64 {
	g := m.gen.Load()
	if g == nil {
		return 0
	}
	return g.id
}

// Columns returns the current generation's column definitions.
func (m *TableModel) Columns() []datatable.Column {
	g := m.gen.Load()
	if g == nil {
		return nil
	}
	return g.snap.Columns()
}

// TotalRows returns the unfiltered row count of the current generation.
func (m *TableModel) TotalRows() int {
	g := m.gen.Load()
	if g == nil {
		return 0
	}
	return g.snap.Len()
}

// VisibleLen returns the size of the visible row set.
func (m *TableModel) VisibleLen() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.visible)
}

// VisiblePositions returns a copy of the visible row positions in display
// order (ascending row position unless sorted).
func (m *TableModel) VisiblePositions() []uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]uint32, len(m.visible))
	copy(out, m.visible)
	return out
}

// CellAt returns the cell at a visible row offset and column key. The
// generation pointer is read under m.mu so the position resolved from the
// visible set always belongs to the snapshot it is applied to.
func (m *TableModel) CellAt(visRow int, column string) (datatable.Value, error) {
	m.mu.RLock()
	g := m.gen.Load()
	if g == nil {
		m.mu.RUnlock()
		return datatable.Value{}, datatable.ErrNoDataSource
	}
	if visRow < 0 || visRow >= len(m.visible) {
		m.mu.RUnlock()
		return datatable.Value{}, datatable.ErrInvalidRow
	}
	pos := m.visible[visRow]
	m.mu.RUnlock()
	return g.snap.Cell(int(pos), column)
}

// RowAt returns all cells of a visible row offset.
func (m *TableModel) RowAt(visRow int) ([]datatable.Value, error) {
	m.mu.RLock()
	g := m.gen.Load()
	if g == nil {
		m.mu.RUnlock()
		return nil, datatable.ErrNoDataSource
	}
	if visRow < 0 || visRow >= len(m.visible) {
		m.mu.RUnlock()
		return nil, datatable.ErrInvalidRow
	}
	pos := m.visible[visRow]
	m.mu.RUnlock()
	return g.snap.RowValues(int(pos))
}

// ValueCounts returns, for the given column, its distinct values with the
// count of rows matching every *other* active filter. This is what the
// filter popup lists; zero counts stay listed so the popup can disable
// rather than hide them.
func (m *TableModel) ValueCounts(column string) ([]ValueCount, error) {
	m.mu.RLock()
	g := m.gen.Load()
	if g == nil {
		m.mu.RUnlock()
		return nil, datatable.ErrNoDataSource
	}
	st := m.state.Clone()
	m.mu.RUnlock()
	return filter.ValueCounts(g.snap, g.indexes, st, column)
}

// ChecklistSelection returns the column's current checklist selection and
// whether a checklist filter is active on it.
func (m *TableModel) ChecklistSelection(column string) ([]string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f := m.state.Get(column)
	if f == nil || f.Kind != filter.KindChecklist {
		return nil, false
	}
	out := make([]string, 0, len(f.Selected))
	for v := range f.Selected {
		out = append(out, v)
	}
	return out, true
}

// ColumnFilter returns the column's active filter, or nil. The returned
// value is shared and must be treated as read-only.
func (m *TableModel) ColumnFilter(column string) *filter.ColumnFilter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Get(column)
}

// ActiveFilterCount returns the number of columns with an active filter.
func (m *TableModel) ActiveFilterCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Len()
}

// SortState returns the current sort configuration.
func (m *TableModel) SortState() datatable.SortState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sort
}

// SetChecklist installs a checklist filter on the column. Selecting every
// distinct value canonicalizes to clearing the filter, so an all-selected
// column costs nothing at intersection time.
func (m *TableModel) SetChecklist(column string, selected []string) error {
	g, col, err := m.filterableColumn(column)
	if err != nil {
		return err
	}
	return m.mutate(g, func(st *filter.State) error {
		// Count distinct selected values that exist in the index;
		// duplicates and unknown values never widen the coverage.
		if ci := g.indexes[col.Key]; ci != nil {
			unique := make(map[string]struct{}, len(selected))
			for _, v := range selected {
				if ci.Postings(v) != nil {
					unique[v] = struct{}{}
				}
			}
			if len(unique) == ci.DistinctCount() {
				st.Clear(column)
				return nil
			}
		}
		st.Set(column, filter.Checklist(selected))
		return nil
	})
}

// SetTextSearch installs a contains filter on the column; an empty query
// clears it.
func (m *TableModel) SetTextSearch(column, query string) error {
	g, _, err := m.filterableColumn(column)
	if err != nil {
		return err
	}
	return m.mutate(g, func(st *filter.State) error {
		if query == "" {
			st.Clear(column)
			return nil
		}
		st.Set(column, filter.TextSearch(query))
		return nil
	})
}

// SetNumericRange installs an inclusive numeric range filter. Nil bounds
// are open; both nil clears. ErrInvalidRange leaves the prior state intact.
func (m *TableModel) SetNumericRange(column string, min, max *float64) error {
	g, _, err := m.filterableColumn(column)
	if err != nil {
		return err
	}
	return m.mutate(g, func(st *filter.State) error {
		if min == nil && max == nil {
			st.Clear(column)
			return nil
		}
		f, err := filter.NumericRange(min, max)
		if err != nil {
			return err
		}
		st.Set(column, f)
		return nil
	})
}

// SetDateRange installs an inclusive date range filter. Nil bounds are
// open; both nil clears. ErrInvalidRange leaves the prior state intact.
func (m *TableModel) SetDateRange(column string, from, to *time.Time) error {
	g, _, err := m.filterableColumn(column)
	if err != nil {
		return err
	}
	return m.mutate(g, func(st *filter.State) error {
		if from == nil && to == nil {
			st.Clear(column)
			return nil
		}
		f, err := filter.DateRange(from, to)
		if err != nil {
			return err
		}
		st.Set(column, f)
		return nil
	})
}

// ClearFilter removes the column's filter.
func (m *TableModel) ClearFilter(column string) error {
	g := m.gen.Load()
	if g == nil {
		return datatable.ErrNoDataSource
	}
	return m.mutate(g, func(st *filter.State) error {
		st.Clear(column)
		return nil
	})
}

// ClearAllFilters removes every filter, restoring the full row set in
// original position order.
func (m *TableModel) ClearAllFilters() error {
	g := m.gen.Load()
	if g == nil {
		return datatable.ErrNoDataSource
	}
	return m.mutate(g, func(st *filter.State) error {
		st.ClearAll()
		return nil
	})
}

// SetSort orders the visible set by the column's values; SortNone restores
// ascending row position. Sorting is stable, so equal values keep position
// order.
func (m *TableModel) SetSort(column string, dir datatable.SortDirection) error {
	g := m.gen.Load()
	if g == nil {
		return datatable.ErrNoDataSource
	}
	if dir != datatable.SortNone {
		if !g.snap.HasColumn(column) {
			return datatable.ErrInvalidSortColumn
		}
	}
	m.mu.Lock()
	if m.gen.Load() != g {
		m.mu.Unlock()
		return datatable.ErrLoadAborted
	}
	if dir == datatable.SortNone {
		m.sort = datatable.SortState{}
	} else {
		m.sort = datatable.SortState{Column: column, Direction: dir}
	}
	err := m.recomputeLocked(g)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	m.notify()
	return nil
}

// filterableColumn resolves a column and checks it participates in
// filtering.
func (m *TableModel) filterableColumn(column string) (*generation, datatable.Column, error) {
	g := m.gen.Load()
	if g == nil {
		return nil, datatable.Column{}, datatable.ErrNoDataSource
	}
	col, ok := g.snap.Column(column)
	if !ok {
		return nil, datatable.Column{}, datatable.ErrColumnNotFound
	}
	if !col.Filterable {
		return nil, datatable.Column{}, datatable.ErrNotFilterable
	}
	return g, col, nil
}

// mutate applies fn to a scratch copy of the filter state, recomputes the
// visible set, and commits both together. A failed mutation or
// recomputation leaves the prior state untouched.
func (m *TableModel) mutate(g *generation, fn func(*filter.State) error) error {
	m.mu.Lock()
	if m.gen.Load() != g {
		// A reload published since the caller resolved the generation;
		// the new generation starts unfiltered, so the stale mutation is
		// refused rather than applied to the wrong snapshot.
		m.mu.Unlock()
		return datatable.ErrLoadAborted
	}
	next := m.state.Clone()
	if err := fn(next); err != nil {
		m.mu.Unlock()
		return err
	}
	prev := m.state
	m.state = next
	if err := m.recomputeLocked(g); err != nil {
		m.state = prev
		m.mu.Unlock()
		return err
	}
	m.mu.Unlock()
	m.notify()
	return nil
}

// recomputeLocked rebuilds the visible set from the current state. Caller
// holds m.mu.
func (m *TableModel) recomputeLocked(g *generation) error {
	bm, err := filter.Evaluate(g.snap, g.indexes, m.state)
	if err != nil {
		return err
	}
	m.visible = bm.ToArray()
	if m.sort.IsSorted() {
		m.applySortLocked(g)
	}
	return nil
}

// applySortLocked stable-sorts the visible positions by cell value. Caller
// holds m.mu and has validated the sort column.
func (m *TableModel) applySortLocked(g *generation) {
	col := m.sort.Column
	desc := m.sort.Direction == datatable.SortDescending
	vis := m.visible
	sortStable(vis, func(a, b uint32) bool {
		va, erra := g.snap.Cell(int(a), col)
		vb, errb := g.snap.Cell(int(b), col)
		if erra != nil || errb != nil {
			return a < b
		}
		c := compareValues(va, vb)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// ErrNoRows is returned by export helpers when the visible set is empty.
var ErrNoRows = errors.New("no visible rows")
