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

package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dgb/datatable"
)

func TestNumericRangeValidation(t *testing.T) {
	min, max := 10.0, 5.0
	_, err := NumericRange(&min, &max)
	assert.ErrorIs(t, err, datatable.ErrInvalidRange)

	// Equal bounds are a valid single-value range.
	eq := 5.0
	f, err := NumericRange(&eq, &eq)
	require.NoError(t, err)
	assert.Equal(t, KindNumericRange, f.Kind)

	// Open bounds are always valid.
	_, err = NumericRange(nil, &max)
	assert.NoError(t, err)
	_, err = NumericRange(&min, nil)
	assert.NoError(t, err)
}

func TestDateRangeValidation(t *testing.T) {
	from := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, err := DateRange(&from, &to)
	assert.ErrorIs(t, err, datatable.ErrInvalidRange)

	f, err := DateRange(&to, &from)
	require.NoError(t, err)
	assert.Equal(t, KindDateRange, f.Kind)
}

func TestStateSetGetClear(t *testing.T) {
	st := NewState()
	assert.True(t, st.IsEmpty())

	st.Set("region", Checklist([]string{"North"}))
	st.Set("table", TextSearch("cust"))
	assert.Equal(t, 2, st.Len())
	assert.Equal(t, []string{"region", "table"}, st.Active())
	assert.NotNil(t, st.Get("region"))

	// Setting nil clears, same as Clear.
	st.Set("region", nil)
	assert.Nil(t, st.Get("region"))
	st.Clear("table")
	assert.True(t, st.IsEmpty())
}

func TestStateReplaceFilter(t *testing.T) {
	st := NewState()
	st.Set("table", TextSearch("cust"))
	st.Set("table", TextSearch("ord"))
	assert.Equal(t, 1, st.Len())
	assert.Equal(t, "ord", st.Get("table").Search)
}

func TestStateClone(t *testing.T) {
	st := NewState()
	st.Set("region", Checklist([]string{"North"}))

	clone := st.Clone()
	clone.Set("table", TextSearch("cust"))
	clone.Clear("region")

	// The original is unaffected by mutations of the clone.
	assert.Equal(t, 1, st.Len())
	assert.NotNil(t, st.Get("region"))
	assert.Nil(t, st.Get("table"))
}
