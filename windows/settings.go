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

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"dgb/internal/config"
)

// ShowSettings opens the settings dialog. Theme changes apply live; the
// worker pool size takes effect on next start.
func (t *MainWindow) ShowSettings() {
	variant := widget.NewSelect([]string{"system", "light", "dark"}, nil)
	variant.SetSelected(t.cfg.Theme.Variant)

	workers := widget.NewEntry()
	workers.SetText(strconv.Itoa(t.cfg.Engine.Workers))

	rows := widget.NewEntry()
	rows.SetText(strconv.Itoa(t.cfg.Generator.Rows))

	seed := widget.NewEntry()
	seed.SetText(strconv.FormatInt(t.cfg.Generator.Seed, 10))
	seed.SetPlaceHolder("0 = random")

	form := widget.NewForm(
		widget.NewFormItem("Theme", variant),
		widget.NewFormItem("Index workers", workers),
		widget.NewFormItem("Generator rows", rows),
		widget.NewFormItem("Generator seed", seed),
	)

	dialog.ShowCustomConfirm("Settings", "Save", "Cancel", form, func(save bool) {
		if !save {
			return
		}
		w, err := strconv.Atoi(workers.Text)
		if err != nil || w <= 0 {
			dialog.ShowError(fmt.Errorf("index workers must be a positive number"), t.w)
			return
		}
		r, err := strconv.Atoi(rows.Text)
		if err != nil || r <= 0 {
			dialog.ShowError(fmt.Errorf("generator rows must be a positive number"), t.w)
			return
		}
		s, err := strconv.ParseInt(seed.Text, 10, 64)
		if err != nil {
			dialog.ShowError(fmt.Errorf("generator seed must be a number"), t.w)
			return
		}

		t.cfg.Theme.Variant = variant.Selected
		t.cfg.Engine.Workers = w
		t.cfg.Generator.Rows = r
		t.cfg.Generator.Seed = s

		t.a.Settings().SetTheme(&CustomTheme{Variant: t.cfg.Theme.Variant})

		if t.cfgPath != "" {
			if err := config.Save(t.cfgPath, t.cfg); err != nil {
				dialog.ShowError(err, t.w)
				return
			}
		}
		t.SetStatus("Settings saved")
	}, t.w)
}
