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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFileType(t *testing.T) {
	assert.Equal(t, FileTypeCSV, DetectFileType("/data/orders.csv"))
	assert.Equal(t, FileTypeCSV, DetectFileType("/data/orders.TSV"))
	assert.Equal(t, FileTypeParquet, DetectFileType("orders.parquet"))
	assert.Equal(t, FileTypeJSON, DetectFileType("orders.json"))
	assert.Equal(t, FileTypeUnknown, DetectFileType("orders.xlsx"))
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetectCSVSeparator(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    rune
	}{
		{"comma", "a,b,c\n1,2,3\n", ','},
		{"semicolon", "a;b;c\n1;2;3\n", ';'},
		{"tab", "a\tb\tc\n1\t2\t3\n", '\t'},
		{"pipe", "a|b|c\n1|2|3\n", '|'},
		{"single column", "value\n1\n", ','},
		{"empty", "", ','},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTemp(t, "in.csv", tc.content)
			sep, err := detectCSVSeparator(path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, sep)
		})
	}
}

func TestGetSeparatorName(t *testing.T) {
	assert.Equal(t, "comma", getSeparatorName(','))
	assert.Equal(t, "semicolon", getSeparatorName(';'))
	assert.Equal(t, "tab", getSeparatorName('\t'))
	assert.Equal(t, "pipe", getSeparatorName('|'))
	assert.Equal(t, ":", getSeparatorName(':'))
}

func TestOpenDataFileCSV(t *testing.T) {
	path := writeTemp(t, "orders.csv", "id;name\n1;bolt\n2;nut\n")

	source, columns, summary, err := OpenDataFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, source.RowCount())
	require.Len(t, columns, 2)
	assert.Equal(t, "id", columns[0].Key)
	assert.Contains(t, summary, "separator: semicolon")
}

func TestOpenDataFileJSON(t *testing.T) {
	path := writeTemp(t, "orders.json", `[{"name":"bolt","qty":7},{"name":"nut","qty":12}]`)

	source, columns, _, err := OpenDataFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, source.RowCount())
	assert.Len(t, columns, 2)
}

func TestOpenDataFileUnsupported(t *testing.T) {
	_, _, _, err := OpenDataFile("/tmp/sheet.xlsx")
	assert.Error(t, err)
}
