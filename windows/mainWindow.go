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
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/panjf2000/ants/v2"

	"dgb/internal/config"
	"dgb/internal/datagen"
)

// defaultSampleSizes are the generated dataset sizes offered in the tree;
// the configured generator row count is added when it differs.
var defaultSampleSizes = []int{100000, 250000, 500000, 1000000}

func (t *MainWindow) sampleSizes() []int {
	sizes := append([]int(nil), defaultSampleSizes...)
	for _, n := range sizes {
		if n == t.cfg.Generator.Rows {
			return sizes
		}
	}
	return append(sizes, t.cfg.Generator.Rows)
}

type MainWindow struct {
	a       fyne.App
	w       fyne.Window
	cfg     config.Config
	cfgPath string
	pool    *ants.Pool

	navTree    *NavigationTree
	treeWidget *widget.Tree
	left       fyne.CanvasObject

	docTabs     *container.DocTabs
	gridBrowser *GridBrowser
	statusBar   *widget.Label
}

func CreateMainWindow(cfg config.Config, cfgPath string) *MainWindow {
	var v MainWindow
	v.cfg = cfg
	v.cfgPath = cfgPath
	v.NewMainWindow()
	return &v
}

// SetStatus updates the status bar message. Callers off the UI thread
// wrap it in fyne.Do.
func (t *MainWindow) SetStatus(message string) {
	if t.statusBar != nil {
		t.statusBar.SetText(message)
	}
}

func (t *MainWindow) NewMainWindow() {
	t.a = app.NewWithID("dgb")
	t.a.Settings().SetTheme(&CustomTheme{Variant: t.cfg.Theme.Variant})
	t.w = t.a.NewWindow("Data Grid Browser")
	t.w.Resize(fyne.NewSize(t.cfg.Window.Width, t.cfg.Window.Height))

	pool, err := ants.NewPool(t.cfg.Engine.Workers)
	if err != nil {
		// Fall back to inline index builds; the model tolerates a nil pool.
		pool = nil
	}
	t.pool = pool

	t.statusBar = widget.NewLabel("Ready")
	t.statusBar.TextStyle = fyne.TextStyle{Italic: true}

	t.docTabs = container.NewDocTabs()
	t.gridBrowser = NewGridBrowser(t.w, t.pool, t.docTabs, t.SetStatus)

	t.navTree = NewNavigationTree(t.sampleSizes())
	t.treeWidget = widget.NewTree(
		t.navTree.GetChildren,
		t.navTree.IsBranch,
		func(branch bool) fyne.CanvasObject {
			return container.NewHBox(widget.NewIcon(theme.FolderIcon()), widget.NewLabel("template"))
		},
		func(uid widget.TreeNodeID, branch bool, obj fyne.CanvasObject) {
			t.navTree.UpdateNodeDisplay(uid, obj, branch)
		},
	)
	t.treeWidget.OnSelected = func(uid widget.TreeNodeID) {
		node := t.navTree.GetNode(uid)
		if node == nil {
			return
		}
		switch node.NodeType {
		case NodeTypeBranch:
			if t.treeWidget.IsBranchOpen(uid) {
				t.treeWidget.CloseBranch(uid)
			} else {
				t.treeWidget.OpenBranch(uid)
			}
			t.treeWidget.Unselect(uid)
		case NodeTypeSample:
			t.openSample(node)
		case NodeTypeFile:
			t.openFile(node.Path)
		}
	}
	t.treeWidget.OpenBranch(branchSamplesID)

	t.left = container.NewGridWrap(fyne.NewSize(230, t.cfg.Window.Height), t.treeWidget)

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.MenuIcon(), func() {
			if t.left.Visible() {
				t.left.Hide()
			} else {
				t.left.Show()
			}
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.FolderOpenIcon(), t.openFileDialog),
		widget.NewToolbarAction(theme.DownloadIcon(), t.exportActiveView),
		widget.NewToolbarAction(theme.ContentClearIcon(), t.clearActiveFilters),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.SettingsIcon(), func() {
			t.ShowSettings()
		}),
	)

	bottom := container.NewHBox(t.statusBar)
	c := container.NewBorder(toolbar, bottom, t.left, nil, t.docTabs)
	t.w.SetContent(c)
	t.w.SetOnClosed(func() {
		if t.pool != nil {
			t.pool.Release()
		}
	})
	t.w.ShowAndRun()
}

// openSample generates a sample dataset off the UI thread and opens it in
// a grid tab. Generation respects the configured seed so sample datasets
// are reproducible across runs.
func (t *MainWindow) openSample(node *TreeNode) {
	name := node.Name
	rows := node.Rows
	t.SetStatus("Generating " + name + "...")
	go func() {
		source, err := datagen.Generate(context.Background(), datagen.Config{
			Rows: rows,
			Seed: t.cfg.Generator.Seed,
		})
		fyne.Do(func() {
			if err != nil {
				dialog.ShowError(fmt.Errorf("generating %s: %w", name, err), t.w)
				t.SetStatus("Ready")
				return
			}
			t.gridBrowser.OpenDataset(name, source, datagen.Columns())
		})
	}()
}

// openFile loads a data file off the UI thread and opens it in a grid tab.
func (t *MainWindow) openFile(path string) {
	name := filepath.Base(path)
	t.SetStatus("Loading " + name + "...")
	go func() {
		source, columns, summary, err := OpenDataFile(path)
		fyne.Do(func() {
			if err != nil {
				dialog.ShowError(err, t.w)
				t.SetStatus("Error loading file: " + err.Error())
				return
			}
			t.SetStatus(summary)
			t.gridBrowser.OpenDataset(name, source, columns)
		})
	}()
}

func (t *MainWindow) openFileDialog() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.w)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		t.navTree.AddFileNode(path)
		t.treeWidget.Refresh()
		t.treeWidget.OpenBranch(branchFilesID)
		t.openFile(path)
	}, t.w)
	fd.Resize(fyne.NewSize(700, 500))
	fd.Show()
}

// exportActiveView saves the active tab's visible rows, filters applied.
// The format follows the chosen extension: .json as JSON, otherwise CSV.
func (t *MainWindow) exportActiveView() {
	view := t.gridBrowser.ActiveView()
	if view == nil || !view.model.Loaded() {
		dialog.ShowInformation("Export", "Open a dataset first", t.w)
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.w)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		go func() {
			var exportErr error
			if strings.EqualFold(filepath.Ext(path), ".json") {
				exportErr = ExportVisibleToJSON(view.model, path)
			} else {
				exportErr = ExportVisibleToCSV(view.model, path)
			}
			fyne.Do(func() {
				if exportErr != nil {
					dialog.ShowError(exportErr, t.w)
					return
				}
				t.SetStatus(fmt.Sprintf("Exported %d rows to %s",
					view.model.VisibleLen(), filepath.Base(path)))
			})
		}()
	}, t.w)
	fd.SetFileName(cleanFilename(view.name, ".csv"))
	fd.Resize(fyne.NewSize(700, 500))
	fd.Show()
}

func (t *MainWindow) clearActiveFilters() {
	view := t.gridBrowser.ActiveView()
	if view == nil || !view.model.Loaded() {
		return
	}
	if err := view.model.ClearAllFilters(); err != nil {
		dialog.ShowError(err, t.w)
	}
}
