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
	"errors"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/panjf2000/ants/v2"

	"dgb/datatable"
	"dgb/model"
)

// headerButton is a header cell that reports the tap position, so the
// column menu opens where the user clicked.
type headerButton struct {
	widget.Button
	col      int
	onTapped func(col int, e *fyne.PointEvent)
}

func newHeaderButton() *headerButton {
	h := &headerButton{col: -1}
	h.ExtendBaseWidget(h)
	return h
}

func (h *headerButton) Tapped(e *fyne.PointEvent) {
	if h.onTapped != nil && h.col >= 0 {
		h.onTapped(h.col, e)
	}
}

// GridView binds one TableModel to a table widget with filterable column
// headers. It is a read-only view: all mutation goes through the model.
type GridView struct {
	model   *model.TableModel
	table   *widget.Table
	name    string
	win     fyne.Window
	status  func(string)
	content fyne.CanvasObject
}

// NewGridView builds the table widget for a model and hooks re-rendering
// to the model's change notifications.
func NewGridView(w fyne.Window, m *model.TableModel, name string, status func(string)) *GridView {
	g := &GridView{
		model:  m,
		name:   name,
		win:    w,
		status: status,
	}

	g.table = widget.NewTable(
		func() (int, int) {
			return g.model.VisibleLen(), len(g.model.Columns())
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(id widget.TableCellID, co fyne.CanvasObject) {
			label := co.(*widget.Label)
			cols := g.model.Columns()
			if id.Col < 0 || id.Col >= len(cols) {
				label.SetText("")
				return
			}
			v, err := g.model.CellAt(id.Row, cols[id.Col].Key)
			if err != nil {
				label.SetText("")
				return
			}
			label.SetText(v.Formatted)
		},
	)
	g.table.ShowHeaderRow = true
	g.table.CreateHeader = func() fyne.CanvasObject {
		h := newHeaderButton()
		h.onTapped = g.showColumnMenu
		return h
	}
	g.table.UpdateHeader = func(id widget.TableCellID, co fyne.CanvasObject) {
		h, ok := co.(*headerButton)
		if !ok {
			return
		}
		cols := g.model.Columns()
		if id.Col < 0 || id.Col >= len(cols) {
			return
		}
		h.col = id.Col
		col := cols[id.Col]
		text := col.Title
		if g.model.ColumnFilter(col.Key) != nil {
			text += " ▼" // filtered marker
		}
		if st := g.model.SortState(); st.Column == col.Key && st.IsSorted() {
			if st.Direction == datatable.SortAscending {
				text += " ↑"
			} else {
				text += " ↓"
			}
		}
		h.SetText(text)
	}

	// Model changes can arrive from the load worker; hop to the UI thread.
	m.OnChange(func() {
		fyne.Do(func() {
			g.table.Refresh()
			g.updateStatus()
		})
	})

	g.content = g.table
	return g
}

// Content returns the view's root canvas object.
func (g *GridView) Content() fyne.CanvasObject {
	return g.content
}

// updateStatus pushes the visible/total row summary to the status bar.
func (g *GridView) updateStatus() {
	if g.status == nil {
		return
	}
	total := g.model.TotalRows()
	visible := g.model.VisibleLen()
	filters := g.model.ActiveFilterCount()

	var text string
	if visible != total || filters > 0 {
		text = fmt.Sprintf("%s (showing %d/%d rows, %d filters)", g.name, visible, total, filters)
	} else {
		text = fmt.Sprintf("%s (%d rows)", g.name, total)
	}
	if st := g.model.SortState(); st.IsSorted() {
		direction := "↑"
		if st.Direction == datatable.SortDescending {
			direction = "↓"
		}
		text += fmt.Sprintf(" | Sorted: %s %s", st.Column, direction)
	}
	g.status(text)
}

// showColumnMenu opens the per-column menu at the click position.
func (g *GridView) showColumnMenu(colIdx int, e *fyne.PointEvent) {
	cols := g.model.Columns()
	if colIdx < 0 || colIdx >= len(cols) {
		return
	}
	col := cols[colIdx]

	items := []*fyne.MenuItem{}
	if col.Filterable {
		items = append(items, fyne.NewMenuItem("Filter...", func() {
			ShowFilterPopup(g.win, g.model, col)
		}))
		if g.model.ColumnFilter(col.Key) != nil {
			items = append(items, fyne.NewMenuItem("Clear Filter", func() {
				if err := g.model.ClearFilter(col.Key); err != nil {
					dialog.ShowError(err, g.win)
				}
			}))
		}
		items = append(items, fyne.NewMenuItemSeparator())
	}
	items = append(items,
		fyne.NewMenuItem("Sort Ascending", func() {
			if err := g.model.SetSort(col.Key, datatable.SortAscending); err != nil {
				dialog.ShowError(err, g.win)
			}
		}),
		fyne.NewMenuItem("Sort Descending", func() {
			if err := g.model.SetSort(col.Key, datatable.SortDescending); err != nil {
				dialog.ShowError(err, g.win)
			}
		}),
	)
	if g.model.SortState().IsSorted() {
		items = append(items, fyne.NewMenuItem("Clear Sort", func() {
			_ = g.model.SetSort("", datatable.SortNone)
		}))
	}

	menu := fyne.NewMenu("", items...)
	widget.ShowPopUpMenuAtPosition(menu, g.win.Canvas(), e.AbsolutePosition)
}

// GridBrowser manages the grid tabs, one TableModel per dataset.
type GridBrowser struct {
	w          fyne.Window
	pool       *ants.Pool
	docTabs    *container.DocTabs
	views      map[*container.TabItem]*GridView
	tabsByName map[string]*container.TabItem
	status     func(string)
}

// NewGridBrowser wires the browser into the main window's doc tabs.
func NewGridBrowser(w fyne.Window, pool *ants.Pool, docTabs *container.DocTabs, status func(string)) *GridBrowser {
	b := &GridBrowser{
		w:          w,
		pool:       pool,
		docTabs:    docTabs,
		views:      make(map[*container.TabItem]*GridView),
		tabsByName: make(map[string]*container.TabItem),
		status:     status,
	}

	docTabs.CloseIntercept = func(ti *container.TabItem) {
		if view, exists := b.views[ti]; exists {
			delete(b.views, ti)
			delete(b.tabsByName, view.name)
		}
		docTabs.Remove(ti)
		if sel := docTabs.Selected(); sel != nil {
			if view, exists := b.views[sel]; exists {
				view.updateStatus()
				return
			}
		}
		if b.status != nil {
			b.status("Ready")
		}
	}
	docTabs.OnSelected = func(ti *container.TabItem) {
		if view, exists := b.views[ti]; exists {
			view.updateStatus()
		}
	}
	return b
}

// ActiveView returns the grid view of the selected tab, or nil.
func (b *GridBrowser) ActiveView() *GridView {
	sel := b.docTabs.Selected()
	if sel == nil {
		return nil
	}
	return b.views[sel]
}

// OpenDataset loads a dataset into a (new or reused) grid tab. The load
// runs off the UI thread; a progress dialog covers the wait, and the
// completion callback hops back via fyne.Do. Re-opening a dataset already
// loading supersedes the in-flight load.
func (b *GridBrowser) OpenDataset(name string, source datatable.DataSource, columns []datatable.Column) {
	tab, exists := b.tabsByName[name]
	var view *GridView
	if exists {
		view = b.views[tab]
	} else {
		view = NewGridView(b.w, model.NewTableModel(b.pool), name, b.status)
		tab = container.NewTabItem(name, view.Content())
		b.views[tab] = view
		b.tabsByName[name] = tab
		b.docTabs.Append(tab)
	}
	b.docTabs.Select(tab)

	progress := widget.NewProgressBarInfinite()
	waitDialog := dialog.NewCustomWithoutButtons(fmt.Sprintf("Loading %s...", name), progress, b.w)
	waitDialog.Resize(fyne.NewSize(300, 100))
	waitDialog.Show()
	progress.Start()
	loadStart := time.Now()

	view.model.Load(source, columns, func(stats *model.LoadStats, err error) {
		fyne.Do(func() {
			// A superseded load keeps the progress dialog up for its
			// successor.
			if errors.Is(err, datatable.ErrLoadAborted) {
				return
			}
			progress.Stop()
			waitDialog.Hide()
			if err != nil {
				dialog.ShowError(fmt.Errorf("loading %s: %w", name, err), b.w)
				return
			}
			for key, colErr := range stats.IndexErrors {
				dialog.ShowError(fmt.Errorf("column %s not indexed: %w", key, colErr), b.w)
			}
			if b.status != nil {
				b.status(fmt.Sprintf("%s loaded: %d rows in %v",
					name, stats.Rows, time.Since(loadStart).Round(time.Millisecond)))
			}
		})
	})
}
