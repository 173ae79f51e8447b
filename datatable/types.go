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

// Package datatable provides the tabular core of the data grid browser:
// typed values, column definitions, immutable row snapshots and the
// filterable table model the GUI binds to.
package datatable

import (
	"fmt"
	"strconv"
	"time"
)

// DataType represents the type of data in a column.
type DataType int

const (
	// TypeString represents string data.
	TypeString DataType = iota
	// TypeInt represents integer data (any size).
	TypeInt
	// TypeFloat represents floating-point data (any precision).
	TypeFloat
	// TypeBool represents boolean data.
	TypeBool
	// TypeDate represents date data (without time).
	TypeDate
	// TypeTimestamp represents timestamp data (date + time).
	TypeTimestamp
)

// String returns the string representation of a DataType.
func (dt DataType) String() string {
	switch dt {
	case TypeString:
		return "String"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBool:
		return "Bool"
	case TypeDate:
		return "Date"
	case TypeTimestamp:
		return "Timestamp"
	default:
		return fmt.Sprintf("Unknown(%d)", dt)
	}
}

// DateFormat is the display layout for TypeDate values.
const DateFormat = "2006-01-02"

// TimestampFormat is the display layout for TypeTimestamp values.
const TimestampFormat = "2006-01-02 15:04:05"

// Value is a typed container for cell values.
// It holds the raw value, type information, and a pre-formatted string for display.
type Value struct {
	// Raw holds the underlying value.
	// The type depends on the DataType field: string for TypeString,
	// int64 for TypeInt, float64 for TypeFloat, bool for TypeBool and
	// time.Time for TypeDate/TypeTimestamp.
	Raw interface{}

	// Type indicates the data type of this value.
	Type DataType

	// IsNull indicates whether this value is null/nil.
	IsNull bool

	// Formatted is a pre-formatted string representation for display.
	// This improves UI performance by avoiding repeated formatting.
	Formatted string
}

// NewValue creates a new Value from a raw value and type.
func NewValue(raw interface{}, dataType DataType) Value {
	if raw == nil {
		return Value{
			Raw:       nil,
			Type:      dataType,
			IsNull:    true,
			Formatted: "",
		}
	}

	return Value{
		Raw:       raw,
		Type:      dataType,
		IsNull:    false,
		Formatted: formatValue(raw, dataType),
	}
}

// NewNullValue creates a null value of the specified type.
func NewNullValue(dataType DataType) Value {
	return Value{
		Raw:       nil,
		Type:      dataType,
		IsNull:    true,
		Formatted: "",
	}
}

// Float converts a numeric value to float64. The second return is false for
// nulls and non-numeric types.
func (v Value) Float() (float64, bool) {
	if v.IsNull {
		return 0, false
	}
	switch raw := v.Raw.(type) {
	case int64:
		return float64(raw), true
	case float64:
		return raw, true
	default:
		return 0, false
	}
}

// Time returns the value as a time.Time. The second return is false for
// nulls and non-temporal types.
func (v Value) Time() (time.Time, bool) {
	if v.IsNull {
		return time.Time{}, false
	}
	t, ok := v.Raw.(time.Time)
	return t, ok
}

// formatValue converts a raw value to a formatted string.
func formatValue(raw interface{}, dataType DataType) string {
	if raw == nil {
		return ""
	}

	switch dataType {
	case TypeInt:
		if i, ok := raw.(int64); ok {
			return strconv.FormatInt(i, 10)
		}
	case TypeFloat:
		if f, ok := raw.(float64); ok {
			return strconv.FormatFloat(f, 'f', 2, 64)
		}
	case TypeBool:
		if b, ok := raw.(bool); ok {
			return strconv.FormatBool(b)
		}
	case TypeDate:
		if t, ok := raw.(time.Time); ok {
			return t.Format(DateFormat)
		}
	case TypeTimestamp:
		if t, ok := raw.(time.Time); ok {
			return t.Format(TimestampFormat)
		}
	}
	return fmt.Sprintf("%v", raw)
}

// Metadata holds optional metadata about a data source.
type Metadata map[string]interface{}

// SortDirection specifies the direction of sorting.
type SortDirection int

const (
	// SortNone indicates no sorting.
	SortNone SortDirection = iota
	// SortAscending indicates ascending sort order.
	SortAscending
	// SortDescending indicates descending sort order.
	SortDescending
)

// String returns the string representation of a SortDirection.
func (sd SortDirection) String() string {
	switch sd {
	case SortNone:
		return "None"
	case SortAscending:
		return "Ascending"
	case SortDescending:
		return "Descending"
	default:
		return fmt.Sprintf("Unknown(%d)", sd)
	}
}

// SortState represents the current sorting configuration.
type SortState struct {
	// Column is the key of the sorted column (empty if unsorted).
	Column string
	// Direction is the sort direction.
	Direction SortDirection
}

// IsSorted returns true if this state represents an active sort.
func (s SortState) IsSorted() bool {
	return s.Column != "" && s.Direction != SortNone
}
