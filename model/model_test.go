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

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dgb/adapters/slice"
	"dgb/datatable"
)

func orderColumns() []datatable.Column {
	return []datatable.Column{
		{Key: "table", Title: "Table", Binding: "table", Kind: datatable.FilterTextSearch, Filterable: true},
		{Key: "region", Title: "Region", Binding: "region", Kind: datatable.FilterChecklist, Filterable: true},
		{Key: "amount", Title: "Amount", Binding: "amount", Kind: datatable.FilterNumericRange, Filterable: true},
	}
}

func orderSource(t *testing.T, n int) *slice.Source {
	t.Helper()
	names := []string{"table", "region", "amount"}
	types := []datatable.DataType{datatable.TypeString, datatable.TypeString, datatable.TypeFloat}
	tables := []string{"Customers", "Orders", "CustomerOrders", "Invoices", "Payments"}
	regions := []string{"North", "South"}

	rows := make([][]datatable.Value, n)
	for i := range rows {
		rows[i] = []datatable.Value{
			datatable.NewValue(tables[i%len(tables)], datatable.TypeString),
			datatable.NewValue(regions[i%len(regions)], datatable.TypeString),
			datatable.NewValue(float64(i+1), datatable.TypeFloat),
		}
	}
	source, err := slice.New(names, types, rows)
	require.NoError(t, err)
	return source
}

// loadSync drives a Load to completion and fails the test on error.
func loadSync(t *testing.T, m *TableModel, source datatable.DataSource, columns []datatable.Column) *LoadStats {
	t.Helper()
	type result struct {
		stats *LoadStats
		err   error
	}
	ch := make(chan result, 1)
	m.Load(source, columns, func(stats *LoadStats, err error) {
		ch <- result{stats, err}
	})
	select {
	case r := <-ch:
		require.NoError(t, r.err)
		return r.stats
	case <-time.After(10 * time.Second):
		t.Fatal("load did not complete")
		return nil
	}
}

func TestLoadPublishesGeneration(t *testing.T) {
	m := NewTableModel(nil)
	assert.False(t, m.Loaded())
	_, err := m.CellAt(0, "table")
	assert.ErrorIs(t, err, datatable.ErrNoDataSource)

	stats := loadSync(t, m, orderSource(t, 5), orderColumns())
	assert.Equal(t, uint64(1), stats.Generation)
	assert.Equal(t, 5, stats.Rows)
	assert.Empty(t, stats.IndexErrors)

	assert.True(t, m.Loaded())
	assert.Equal(t, 5, m.TotalRows())
	assert.Equal(t, 5, m.VisibleLen())
	assert.Equal(t, []uint32{0, 1, 2, 3, 4}, m.VisiblePositions())

	v, err := m.CellAt(0, "table")
	require.NoError(t, err)
	assert.Equal(t, "Customers", v.Formatted)
}

func TestFilterNarrowsVisibleSet(t *testing.T) {
	m := NewTableModel(nil)
	loadSync(t, m, orderSource(t, 5), orderColumns())

	require.NoError(t, m.SetTextSearch("table", "cust"))
	assert.Equal(t, []uint32{0, 2}, m.VisiblePositions())
	assert.Equal(t, 1, m.ActiveFilterCount())

	require.NoError(t, m.SetChecklist("region", []string{"North"}))
	assert.Equal(t, []uint32{0, 2}, m.VisiblePositions())
	assert.Equal(t, 2, m.ActiveFilterCount())

	require.NoError(t, m.ClearAllFilters())
	assert.Equal(t, 5, m.VisibleLen())
	assert.Zero(t, m.ActiveFilterCount())
}

func TestNumericRangeFilter(t *testing.T) {
	m := NewTableModel(nil)
	loadSync(t, m, orderSource(t, 12), orderColumns())

	min, max := 5.0, 10.0
	require.NoError(t, m.SetNumericRange("amount", &min, &max))
	assert.Equal(t, []uint32{4, 5, 6, 7, 8, 9}, m.VisiblePositions())

	// Clearing via two nil bounds restores the full set.
	require.NoError(t, m.SetNumericRange("amount", nil, nil))
	assert.Equal(t, 12, m.VisibleLen())
}

func TestInvalidRangeKeepsPriorState(t *testing.T) {
	m := NewTableModel(nil)
	loadSync(t, m, orderSource(t, 12), orderColumns())

	min, max := 5.0, 10.0
	require.NoError(t, m.SetNumericRange("amount", &min, &max))
	before := m.VisiblePositions()

	bad := 1.0
	err := m.SetNumericRange("amount", &min, &bad)
	assert.ErrorIs(t, err, datatable.ErrInvalidRange)

	// The rejected update left both the filter and the visible set alone.
	assert.Equal(t, before, m.VisiblePositions())
	f := m.ColumnFilter("amount")
	require.NotNil(t, f)
	assert.Equal(t, max, *f.Max)
}

func TestChecklistAllSelectedCanonicalizesToClear(t *testing.T) {
	m := NewTableModel(nil)
	loadSync(t, m, orderSource(t, 5), orderColumns())

	require.NoError(t, m.SetChecklist("region", []string{"North", "South"}))
	assert.Zero(t, m.ActiveFilterCount())
	assert.Equal(t, 5, m.VisibleLen())

	require.NoError(t, m.SetChecklist("region", []string{"North"}))
	assert.Equal(t, 1, m.ActiveFilterCount())
	sel, active := m.ChecklistSelection("region")
	require.True(t, active)
	assert.Equal(t, []string{"North"}, sel)
}

func TestChecklistDuplicateSelectionStillFilters(t *testing.T) {
	m := NewTableModel(nil)
	loadSync(t, m, orderSource(t, 5), orderColumns())

	// Two entries naming the same value cover one distinct value, not
	// all of them; the filter must stay active.
	require.NoError(t, m.SetChecklist("region", []string{"North", "North"}))
	assert.Equal(t, 1, m.ActiveFilterCount())
	assert.Equal(t, []uint32{0, 2, 4}, m.VisiblePositions())

	// Duplicates plus every distinct value still mean no restriction.
	require.NoError(t, m.SetChecklist("region", []string{"North", "South", "North"}))
	assert.Zero(t, m.ActiveFilterCount())
	assert.Equal(t, 5, m.VisibleLen())
}

func TestValueCountsExcludeOwnFilter(t *testing.T) {
	m := NewTableModel(nil)
	loadSync(t, m, orderSource(t, 10), orderColumns())

	require.NoError(t, m.SetChecklist("region", []string{"North"}))
	counts, err := m.ValueCounts("region")
	require.NoError(t, err)

	byValue := map[string]uint64{}
	for _, vc := range counts {
		byValue[vc.Value] = vc.Count
	}
	assert.Equal(t, uint64(5), byValue["North"])
	assert.Equal(t, uint64(5), byValue["South"])
}

func TestFilterUnknownAndUnfilterableColumns(t *testing.T) {
	m := NewTableModel(nil)
	cols := orderColumns()
	cols[2].Filterable = false
	loadSync(t, m, orderSource(t, 5), cols)

	err := m.SetTextSearch("no_such", "x")
	assert.ErrorIs(t, err, datatable.ErrColumnNotFound)

	min := 1.0
	err = m.SetNumericRange("amount", &min, nil)
	assert.ErrorIs(t, err, datatable.ErrNotFilterable)
}

func TestSortVisibleRows(t *testing.T) {
	m := NewTableModel(nil)
	loadSync(t, m, orderSource(t, 5), orderColumns())

	require.NoError(t, m.SetSort("amount", datatable.SortDescending))
	v, err := m.CellAt(0, "amount")
	require.NoError(t, err)
	assert.Equal(t, "5.00", v.Formatted)

	require.NoError(t, m.SetSort("", datatable.SortNone))
	assert.Equal(t, []uint32{0, 1, 2, 3, 4}, m.VisiblePositions())

	err = m.SetSort("no_such", datatable.SortAscending)
	assert.ErrorIs(t, err, datatable.ErrInvalidSortColumn)
}

func TestSortSurvivesFilterChange(t *testing.T) {
	m := NewTableModel(nil)
	loadSync(t, m, orderSource(t, 10), orderColumns())

	require.NoError(t, m.SetSort("amount", datatable.SortDescending))
	require.NoError(t, m.SetChecklist("region", []string{"North"}))

	pos := m.VisiblePositions()
	require.NotEmpty(t, pos)
	prev, err := m.CellAt(0, "amount")
	require.NoError(t, err)
	for i := 1; i < len(pos); i++ {
		cur, err := m.CellAt(i, "amount")
		require.NoError(t, err)
		pf, _ := prev.Float()
		cf, _ := cur.Float()
		assert.GreaterOrEqual(t, pf, cf)
		prev = cur
	}
}

func TestReloadReplacesPositions(t *testing.T) {
	m := NewTableModel(nil)
	loadSync(t, m, orderSource(t, 10), orderColumns())
	require.NoError(t, m.SetTextSearch("table", "cust"))
	require.NoError(t, m.SetSort("amount", datatable.SortDescending))

	stats := loadSync(t, m, orderSource(t, 3), orderColumns())
	assert.Equal(t, uint64(2), stats.Generation)

	// Filters and sort reset; no position from the old store survives.
	assert.Zero(t, m.ActiveFilterCount())
	assert.False(t, m.SortState().IsSorted())
	assert.Equal(t, []uint32{0, 1, 2}, m.VisiblePositions())
	for _, pos := range m.VisiblePositions() {
		assert.Less(t, int(pos), 3)
	}
}

func TestPublishCommitsViewWithGeneration(t *testing.T) {
	m := NewTableModel(nil)
	m.OnChange(func() {
		// Every notification must observe a visible set belonging to
		// the generation it was computed from: a freshly published
		// load shows the full store, and no position can exceed it.
		assert.Equal(t, m.TotalRows(), m.VisibleLen())
		for _, pos := range m.VisiblePositions() {
			assert.Less(t, int(pos), m.TotalRows())
		}
	})

	loadSync(t, m, orderSource(t, 10), orderColumns())
	loadSync(t, m, orderSource(t, 3), orderColumns())

	assert.Equal(t, 3, m.TotalRows())
	assert.Equal(t, []uint32{0, 1, 2}, m.VisiblePositions())
}

// gatedSource blocks every cell read until the gate closes, letting tests
// hold a load mid-ingestion.
type gatedSource struct {
	*slice.Source
	gate chan struct{}
}

func (s *gatedSource) Cell(row, col int) (datatable.Value, error) {
	<-s.gate
	return s.Source.Cell(row, col)
}

func TestConcurrentLoadSupersedes(t *testing.T) {
	m := NewTableModel(nil)

	gate := make(chan struct{})
	slow := &gatedSource{Source: orderSource(t, 5), gate: gate}

	firstDone := make(chan error, 1)
	m.Load(slow, orderColumns(), func(stats *LoadStats, err error) {
		firstDone <- err
	})

	// The second load starts while the first is held at the gate.
	stats := loadSync(t, m, orderSource(t, 3), orderColumns())
	assert.Equal(t, 3, stats.Rows)
	close(gate)

	select {
	case err := <-firstDone:
		assert.ErrorIs(t, err, datatable.ErrLoadAborted)
	case <-time.After(10 * time.Second):
		t.Fatal("superseded load never reported")
	}

	// The newer generation stays published.
	assert.Equal(t, 3, m.TotalRows())
	assert.Equal(t, []uint32{0, 1, 2}, m.VisiblePositions())
}

func TestOnChangeNotifies(t *testing.T) {
	m := NewTableModel(nil)
	changes := make(chan struct{}, 16)
	m.OnChange(func() { changes <- struct{}{} })

	loadSync(t, m, orderSource(t, 5), orderColumns())
	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("no change notification after load")
	}

	require.NoError(t, m.SetTextSearch("table", "cust"))
	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("no change notification after filter")
	}
}
