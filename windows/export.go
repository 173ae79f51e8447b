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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dgb/datatable"
	"dgb/model"
)

// ExportVisibleToCSV writes the current visible rows, in display order and
// with active filters applied, to a CSV file. Headers use column titles;
// cells use their formatted text, nulls as empty fields.
func ExportVisibleToCSV(m *model.TableModel, filePath string) error {
	cols := m.Columns()
	if len(cols) == 0 {
		return datatable.ErrNoDataSource
	}
	if m.VisibleLen() == 0 {
		return model.ErrNoRows
	}

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("%w: %v", datatable.ErrExportFailed, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = col.Title
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("%w: writing header: %v", datatable.ErrExportFailed, err)
	}

	record := make([]string, len(cols))
	for visRow := 0; visRow < m.VisibleLen(); visRow++ {
		row, err := m.RowAt(visRow)
		if err != nil {
			return fmt.Errorf("%w: reading row %d: %v", datatable.ErrExportFailed, visRow, err)
		}
		for c, v := range row {
			if v.IsNull {
				record[c] = ""
			} else {
				record[c] = v.Formatted
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("%w: writing row %d: %v", datatable.ErrExportFailed, visRow, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: %v", datatable.ErrExportFailed, err)
	}
	return nil
}

// ExportVisibleToJSON writes the visible rows as an indented array of
// objects keyed by column key, preserving raw typed values where present.
func ExportVisibleToJSON(m *model.TableModel, filePath string) error {
	cols := m.Columns()
	if len(cols) == 0 {
		return datatable.ErrNoDataSource
	}
	if m.VisibleLen() == 0 {
		return model.ErrNoRows
	}

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("%w: %v", datatable.ErrExportFailed, err)
	}
	defer f.Close()

	records := make([]map[string]interface{}, 0, m.VisibleLen())
	for visRow := 0; visRow < m.VisibleLen(); visRow++ {
		row, err := m.RowAt(visRow)
		if err != nil {
			return fmt.Errorf("%w: reading row %d: %v", datatable.ErrExportFailed, visRow, err)
		}
		rec := make(map[string]interface{}, len(cols))
		for c, col := range cols {
			if row[c].IsNull {
				rec[col.Key] = nil
			} else {
				rec[col.Key] = row[c].Raw
			}
		}
		records = append(records, rec)
	}

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("%w: encoding: %v", datatable.ErrExportFailed, err)
	}
	return nil
}

// cleanFilename turns a tab name into a safe default export filename.
func cleanFilename(name, ext string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "(", "", ")", "")
	base = replacer.Replace(base)
	if base == "" {
		base = "export"
	}
	return base + ext
}
