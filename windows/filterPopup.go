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
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"dgb/datatable"
	"dgb/model"
)

// ShowFilterPopup opens the filter editor matching the column's kind.
// Edits are staged inside the popup and only reach the model's filter
// state atomically on Apply; Cancel leaves the prior state untouched.
func ShowFilterPopup(w fyne.Window, m *model.TableModel, col datatable.Column) {
	switch col.Kind {
	case datatable.FilterChecklist:
		showChecklistPopup(w, m, col)
	case datatable.FilterTextSearch:
		showTextSearchPopup(w, m, col)
	case datatable.FilterNumericRange:
		showNumericRangePopup(w, m, col)
	case datatable.FilterDateRange:
		showDateRangePopup(w, m, col)
	}
}

// showChecklistPopup lists the column's distinct values with live counts
// of rows matching every other active filter. Values yielding zero rows
// stay listed but disabled. The in-popup search narrows the displayed
// list only; it never touches the filter state.
func showChecklistPopup(w fyne.Window, m *model.TableModel, col datatable.Column) {
	counts, err := m.ValueCounts(col.Key)
	if err != nil {
		dialog.ShowError(fmt.Errorf("filter %s: %w", col.Title, err), w)
		return
	}

	staged := make(map[string]bool, len(counts))
	if selected, active := m.ChecklistSelection(col.Key); active {
		for _, v := range selected {
			staged[v] = true
		}
	} else {
		for _, vc := range counts {
			staged[vc.Value] = true
		}
	}

	list := container.NewVBox()
	rebuild := func(search string) {
		list.RemoveAll()
		needle := strings.ToLower(search)
		for _, vc := range counts {
			vc := vc
			display := vc.Value
			if display == "" {
				display = "(empty)"
			}
			if needle != "" && !strings.Contains(strings.ToLower(display), needle) {
				continue
			}
			check := widget.NewCheck(fmt.Sprintf("%s (%d)", display, vc.Count), func(on bool) {
				staged[vc.Value] = on
			})
			check.SetChecked(staged[vc.Value])
			if vc.Count == 0 && !staged[vc.Value] {
				check.Disable()
			}
			list.Add(check)
		}
		list.Refresh()
	}

	search := widget.NewEntry()
	search.SetPlaceHolder("Search values...")
	search.OnChanged = rebuild

	selectAll := widget.NewButton("Select All", func() {
		for _, vc := range counts {
			staged[vc.Value] = true
		}
		rebuild(search.Text)
	})
	clearAll := widget.NewButton("Clear", func() {
		for _, vc := range counts {
			staged[vc.Value] = false
		}
		rebuild(search.Text)
	})

	rebuild("")
	scroll := container.NewVScroll(list)
	scroll.SetMinSize(fyne.NewSize(320, 360))
	content := container.NewBorder(
		container.NewVBox(search, container.NewHBox(selectAll, clearAll)),
		nil, nil, nil, scroll)

	d := dialog.NewCustomConfirm("Filter: "+col.Title, "Apply", "Cancel", content, func(apply bool) {
		if !apply {
			return
		}
		selected := make([]string, 0, len(staged))
		for v, on := range staged {
			if on {
				selected = append(selected, v)
			}
		}
		if err := m.SetChecklist(col.Key, selected); err != nil {
			dialog.ShowError(err, w)
		}
	}, w)
	d.Resize(fyne.NewSize(380, 500))
	d.Show()
}

func showTextSearchPopup(w fyne.Window, m *model.TableModel, col datatable.Column) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("Contains...")
	if f := m.ColumnFilter(col.Key); f != nil {
		entry.SetText(f.Search)
	}

	hint := widget.NewLabel("Matches values containing the text (case-insensitive). Empty clears the filter.")
	hint.Wrapping = fyne.TextWrapWord
	content := container.NewVBox(entry, hint)

	d := dialog.NewCustomConfirm("Filter: "+col.Title, "Apply", "Cancel", content, func(apply bool) {
		if !apply {
			return
		}
		if err := m.SetTextSearch(col.Key, strings.TrimSpace(entry.Text)); err != nil {
			dialog.ShowError(err, w)
		}
	}, w)
	d.Resize(fyne.NewSize(360, 180))
	d.Show()
}

func showNumericRangePopup(w fyne.Window, m *model.TableModel, col datatable.Column) {
	minEntry := widget.NewEntry()
	minEntry.SetPlaceHolder("Min (inclusive)")
	maxEntry := widget.NewEntry()
	maxEntry.SetPlaceHolder("Max (inclusive)")
	if f := m.ColumnFilter(col.Key); f != nil {
		if f.Min != nil {
			minEntry.SetText(strconv.FormatFloat(*f.Min, 'f', -1, 64))
		}
		if f.Max != nil {
			maxEntry.SetText(strconv.FormatFloat(*f.Max, 'f', -1, 64))
		}
	}

	form := widget.NewForm(
		widget.NewFormItem("Min", minEntry),
		widget.NewFormItem("Max", maxEntry),
	)

	d := dialog.NewCustomConfirm("Filter: "+col.Title, "Apply", "Cancel", form, func(apply bool) {
		if !apply {
			return
		}
		min, err := parseOptionalFloat(minEntry.Text)
		if err != nil {
			dialog.ShowError(fmt.Errorf("invalid min: %w", err), w)
			return
		}
		max, err := parseOptionalFloat(maxEntry.Text)
		if err != nil {
			dialog.ShowError(fmt.Errorf("invalid max: %w", err), w)
			return
		}
		if err := m.SetNumericRange(col.Key, min, max); err != nil {
			dialog.ShowError(err, w)
		}
	}, w)
	d.Resize(fyne.NewSize(320, 200))
	d.Show()
}

func showDateRangePopup(w fyne.Window, m *model.TableModel, col datatable.Column) {
	fromEntry := widget.NewEntry()
	fromEntry.SetPlaceHolder(datatable.DateFormat)
	toEntry := widget.NewEntry()
	toEntry.SetPlaceHolder(datatable.DateFormat)
	if f := m.ColumnFilter(col.Key); f != nil {
		if f.From != nil {
			fromEntry.SetText(f.From.Format(datatable.DateFormat))
		}
		if f.To != nil {
			toEntry.SetText(f.To.Format(datatable.DateFormat))
		}
	}

	form := widget.NewForm(
		widget.NewFormItem("From", fromEntry),
		widget.NewFormItem("To", toEntry),
	)

	d := dialog.NewCustomConfirm("Filter: "+col.Title, "Apply", "Cancel", form, func(apply bool) {
		if !apply {
			return
		}
		from, err := parseOptionalDate(fromEntry.Text)
		if err != nil {
			dialog.ShowError(fmt.Errorf("invalid from date: %w", err), w)
			return
		}
		to, err := parseOptionalDate(toEntry.Text)
		if err != nil {
			dialog.ShowError(fmt.Errorf("invalid to date: %w", err), w)
			return
		}
		if err := m.SetDateRange(col.Key, from, to); err != nil {
			dialog.ShowError(err, w)
		}
	}, w)
	d.Resize(fyne.NewSize(320, 200))
	d.Show()
}

func parseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(datatable.DateFormat, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
