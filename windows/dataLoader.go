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
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	arrowadapter "dgb/adapters/arrow"
	csvadapter "dgb/adapters/csv"
	sliceadapter "dgb/adapters/slice"
	"dgb/datatable"
)

// FileType represents the type of data file
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeCSV
	FileTypeParquet
	FileTypeJSON
)

// DetectFileType determines the type of file based on extension
func DetectFileType(filePath string) FileType {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".csv", ".tsv":
		return FileTypeCSV
	case ".parquet":
		return FileTypeParquet
	case ".json":
		return FileTypeJSON
	default:
		return FileTypeUnknown
	}
}

// detectCSVSeparator tries to detect the CSV separator from the first line
func detectCSVSeparator(filePath string) (rune, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return ',', fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		// Empty file or error, use default comma
		return ',', nil
	}

	firstLine := scanner.Text()
	if firstLine == "" {
		return ',', nil
	}

	// Count occurrences of common separators
	separators := map[rune]int{
		',':  strings.Count(firstLine, ","),
		';':  strings.Count(firstLine, ";"),
		'\t': strings.Count(firstLine, "\t"),
		'|':  strings.Count(firstLine, "|"),
	}

	maxCount := 0
	detectedSep := ','
	for sep, count := range separators {
		if count > maxCount {
			maxCount = count
			detectedSep = sep
		}
	}
	return detectedSep, nil
}

// getSeparatorName returns a human-readable name for the separator
func getSeparatorName(sep rune) string {
	switch sep {
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '\t':
		return "tab"
	case '|':
		return "pipe"
	default:
		return string(sep)
	}
}

// OpenDataFile loads a data file with the adapter matching its type and
// returns the source, its derived column definitions and a one-line
// summary for the status bar. Columns default to the filter kind matching
// each inferred type.
func OpenDataFile(filePath string) (datatable.DataSource, []datatable.Column, string, error) {
	switch DetectFileType(filePath) {
	case FileTypeCSV:
		return openCSVFile(filePath)
	case FileTypeParquet:
		return openParquetFile(filePath)
	case FileTypeJSON:
		return openJSONFile(filePath)
	default:
		return nil, nil, "", fmt.Errorf("unsupported file type: %s", filepath.Ext(filePath))
	}
}

func openCSVFile(filePath string) (datatable.DataSource, []datatable.Column, string, error) {
	separator, err := detectCSVSeparator(filePath)
	if err != nil {
		separator = ','
	}

	cfg := csvadapter.DefaultConfig()
	cfg.Delimiter = separator

	source, err := csvadapter.NewFromFile(filePath, cfg)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to load CSV file: %w", err)
	}

	columns, err := datatable.ColumnsFromSource(source)
	if err != nil {
		return nil, nil, "", err
	}
	summary := fmt.Sprintf("Loaded CSV file: %s (%d rows, %d columns, separator: %s)",
		filepath.Base(filePath), source.RowCount(), source.ColumnCount(), getSeparatorName(separator))
	return source, columns, summary, nil
}

func openParquetFile(filePath string) (datatable.DataSource, []datatable.Column, string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	fileInfo, err := f.Stat()
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to get file info: %w", err)
	}

	pf, err := file.NewParquetReader(f, file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pf.Close()

	mem := memory.NewGoAllocator()
	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to read parquet data: %w", err)
	}
	defer table.Release()

	source, err := arrowadapter.NewFromArrowTable(table)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to create arrow data source: %w", err)
	}

	columns, err := datatable.ColumnsFromSource(source)
	if err != nil {
		return nil, nil, "", err
	}
	summary := fmt.Sprintf("Loaded Parquet file: %s (%d rows, %d columns, %.2f MB)",
		filepath.Base(filePath), source.RowCount(), source.ColumnCount(),
		float64(fileInfo.Size())/(1024*1024))
	return source, columns, summary, nil
}

func openJSONFile(filePath string) (datatable.DataSource, []datatable.Column, string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to read JSON file: %w", err)
	}

	// Array of objects, or a single object treated as one row.
	var data []map[string]interface{}
	if err := json.Unmarshal(content, &data); err != nil {
		var singleObj map[string]interface{}
		if err := json.Unmarshal(content, &singleObj); err != nil {
			return nil, nil, "", fmt.Errorf("failed to parse JSON: %w", err)
		}
		data = []map[string]interface{}{singleObj}
	}
	if len(data) == 0 {
		return nil, nil, "", fmt.Errorf("JSON file is empty or has no records")
	}

	source, err := sliceadapter.NewFromMaps(data)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to create data source from JSON: %w", err)
	}

	columns, err := datatable.ColumnsFromSource(source)
	if err != nil {
		return nil, nil, "", err
	}
	summary := fmt.Sprintf("Loaded JSON file: %s (%d rows, %d columns)",
		filepath.Base(filePath), source.RowCount(), source.ColumnCount())
	return source, columns, summary, nil
}
