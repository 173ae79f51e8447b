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

package windows

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dgb/adapters/slice"
	"dgb/datatable"
	"dgb/model"
)

func exportModel(t *testing.T) *model.TableModel {
	t.Helper()
	source, err := slice.New(
		[]string{"name", "qty"},
		[]datatable.DataType{datatable.TypeString, datatable.TypeInt},
		[][]datatable.Value{
			{datatable.NewValue("bolt", datatable.TypeString), datatable.NewValue(int64(7), datatable.TypeInt)},
			{datatable.NewValue("nut", datatable.TypeString), datatable.NewValue(int64(12), datatable.TypeInt)},
			{datatable.NewValue("washer", datatable.TypeString), datatable.NewValue(int64(3), datatable.TypeInt)},
		},
	)
	require.NoError(t, err)

	cols := []datatable.Column{
		{Key: "name", Title: "Name", Binding: "name", Kind: datatable.FilterTextSearch, Filterable: true},
		{Key: "qty", Title: "Qty", Binding: "qty", Kind: datatable.FilterNumericRange, Filterable: true},
	}
	m := model.NewTableModel(nil)
	done := make(chan error, 1)
	m.Load(source, cols, func(stats *model.LoadStats, err error) { done <- err })
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("load did not complete")
	}
	return m
}

func TestExportVisibleToCSVAppliesFilters(t *testing.T) {
	m := exportModel(t)
	min := 5.0
	require.NoError(t, m.SetNumericRange("qty", &min, nil))

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, ExportVisibleToCSV(m, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3, "header plus the two filtered rows")
	assert.Equal(t, []string{"Name", "Qty"}, records[0])
	assert.Equal(t, []string{"bolt", "7"}, records[1])
	assert.Equal(t, []string{"nut", "12"}, records[2])
}

func TestExportVisibleToCSVEmptySet(t *testing.T) {
	m := exportModel(t)
	min := 100.0
	require.NoError(t, m.SetNumericRange("qty", &min, nil))

	err := ExportVisibleToCSV(m, filepath.Join(t.TempDir(), "out.csv"))
	assert.ErrorIs(t, err, model.ErrNoRows)
}

func TestExportVisibleToJSON(t *testing.T) {
	m := exportModel(t)
	require.NoError(t, m.SetTextSearch("name", "bolt"))

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, ExportVisibleToJSON(m, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "bolt"`)
	assert.NotContains(t, string(data), "washer")
}

func TestCleanFilename(t *testing.T) {
	assert.Equal(t, "Orders_100k_rows.csv", cleanFilename("Orders (100k rows)", ".csv"))
	assert.Equal(t, "data.csv", cleanFilename("data.parquet", ".csv"))
	assert.Equal(t, "export.csv", cleanFilename("", ".csv"))
}
