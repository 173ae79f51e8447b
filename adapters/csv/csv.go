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

// Package csv adapts delimited text files to the datatable.DataSource
// interface, with per-column type inference.
package csv

import (
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"dgb/datatable"

	"dgb/adapters/slice"
)

// Config controls CSV parsing.
type Config struct {
	// Delimiter is the field separator.
	Delimiter rune
	// HasHeaders treats the first record as column names.
	HasHeaders bool
	// TrimSpace trims surrounding whitespace from every field.
	TrimSpace bool
	// InferRows caps how many records type inference samples (0 = all).
	InferRows int
}

// DefaultConfig returns comma-separated, headered parsing.
func DefaultConfig() Config {
	return Config{
		Delimiter:  ',',
		HasHeaders: true,
		TrimSpace:  true,
		InferRows:  1000,
	}
}

// NewFromFile parses the file into a slice-backed DataSource.
func NewFromFile(path string, cfg Config) (*slice.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()
	return NewFromReader(f, cfg)
}

// NewFromReader parses CSV content into a slice-backed DataSource.
func NewFromReader(r io.Reader, cfg Config) (*slice.Source, error) {
	reader := stdcsv.NewReader(r)
	if cfg.Delimiter != 0 {
		reader.Comma = cfg.Delimiter
	}
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return nil, datatable.ErrEmptyData
	}

	var names []string
	if cfg.HasHeaders {
		names = records[0]
		records = records[1:]
	} else {
		names = make([]string, len(records[0]))
		for i := range names {
			names[i] = fmt.Sprintf("column%d", i+1)
		}
	}
	if cfg.TrimSpace {
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
		for _, rec := range records {
			for i := range rec {
				rec[i] = strings.TrimSpace(rec[i])
			}
		}
	}

	types := inferTypes(records, len(names), cfg.InferRows)

	rows := make([][]datatable.Value, len(records))
	for r, rec := range records {
		row := make([]datatable.Value, len(names))
		for c := range names {
			field := ""
			if c < len(rec) {
				field = rec[c]
			}
			row[c] = parseField(field, types[c])
		}
		rows[r] = row
	}
	return slice.New(names, types, rows)
}

// dateLayouts are the date formats inference recognizes, most specific
// first.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
	"01/02/2006",
}

// inferTypes samples up to limit records per column and picks the narrowest
// type every non-empty sample satisfies.
func inferTypes(records [][]string, cols, limit int) []datatable.DataType {
	types := make([]datatable.DataType, cols)
	for c := 0; c < cols; c++ {
		couldInt, couldFloat, couldBool, couldDate := true, true, true, true
		seen := 0
		for r, rec := range records {
			if limit > 0 && r >= limit {
				break
			}
			if c >= len(rec) || rec[c] == "" {
				continue
			}
			seen++
			field := rec[c]
			if couldInt {
				if _, err := strconv.ParseInt(field, 10, 64); err != nil {
					couldInt = false
				}
			}
			if couldFloat {
				if _, err := strconv.ParseFloat(field, 64); err != nil {
					couldFloat = false
				}
			}
			if couldBool {
				if _, err := strconv.ParseBool(field); err != nil {
					couldBool = false
				}
			}
			if couldDate {
				if _, ok := parseDate(field); !ok {
					couldDate = false
				}
			}
		}
		switch {
		case seen == 0:
			types[c] = datatable.TypeString
		case couldInt:
			types[c] = datatable.TypeInt
		case couldFloat:
			types[c] = datatable.TypeFloat
		case couldBool:
			types[c] = datatable.TypeBool
		case couldDate:
			types[c] = datatable.TypeDate
		default:
			types[c] = datatable.TypeString
		}
	}
	return types
}

func parseDate(field string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, field); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseField(field string, dt datatable.DataType) datatable.Value {
	if field == "" {
		return datatable.NewNullValue(dt)
	}
	switch dt {
	case datatable.TypeInt:
		if i, err := strconv.ParseInt(field, 10, 64); err == nil {
			return datatable.NewValue(i, dt)
		}
	case datatable.TypeFloat:
		if f, err := strconv.ParseFloat(field, 64); err == nil {
			return datatable.NewValue(f, dt)
		}
	case datatable.TypeBool:
		if b, err := strconv.ParseBool(field); err == nil {
			return datatable.NewValue(b, dt)
		}
	case datatable.TypeDate:
		if t, ok := parseDate(field); ok {
			return datatable.NewValue(t, dt)
		}
	}
	return datatable.NewValue(field, datatable.TypeString)
}
