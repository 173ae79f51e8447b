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
	"sort"
	"strings"

	"dgb/datatable"
)

// compareValues orders two cell values of the same column. Nulls sort
// first; mixed or unknown raw types fall back to the formatted string.
func compareValues(a, b datatable.Value) int {
	switch {
	case a.IsNull && b.IsNull:
		return 0
	case a.IsNull:
		return -1
	case b.IsNull:
		return 1
	}

	if fa, ok := a.Float(); ok {
		if fb, ok := b.Float(); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}
	if ta, ok := a.Time(); ok {
		if tb, ok := b.Time(); ok {
			return ta.Compare(tb)
		}
	}
	if ba, ok := a.Raw.(bool); ok {
		if bb, ok := b.Raw.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			default:
				return 1
			}
		}
	}
	return strings.Compare(a.Formatted, b.Formatted)
}

func sortStable(positions []uint32, less func(a, b uint32) bool) {
	sort.SliceStable(positions, func(i, j int) bool {
		return less(positions[i], positions[j])
	})
}
