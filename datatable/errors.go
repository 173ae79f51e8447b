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

package datatable

import "errors"

// Common errors returned by the datatable package.
var (
	// ErrInvalidColumn is returned when a column index is out of range.
	ErrInvalidColumn = errors.New("invalid column index")

	// ErrInvalidRow is returned when a row position is out of range.
	ErrInvalidRow = errors.New("invalid row position")

	// ErrColumnNotFound is returned when a column key is not found.
	ErrColumnNotFound = errors.New("column not found")

	// ErrNoDataSource is returned when a query arrives before any
	// dataset generation has been published.
	ErrNoDataSource = errors.New("data source is nil")

	// ErrEmptyData is returned when data is empty where it shouldn't be.
	ErrEmptyData = errors.New("data is empty")

	// ErrSchemaMismatch is returned when a column's binding key does not
	// resolve against the row schema.
	ErrSchemaMismatch = errors.New("binding key not present in row schema")

	// ErrInvalidRange is returned when a range filter has min greater
	// than max (or start after end).
	ErrInvalidRange = errors.New("invalid filter range")

	// ErrLoadAborted is returned to a bulk load superseded by a newer one
	// before its index build completed.
	ErrLoadAborted = errors.New("load aborted by newer load")

	// ErrNotFilterable is returned when a filter targets a column that is
	// not marked filterable.
	ErrNotFilterable = errors.New("column is not filterable")

	// ErrInvalidSortColumn is returned when trying to sort by an invalid column.
	ErrInvalidSortColumn = errors.New("invalid sort column")

	// ErrExportFailed is returned when export operation fails.
	ErrExportFailed = errors.New("export failed")
)
