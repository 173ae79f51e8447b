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
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CustomTheme defines the grid browser's look, with an optional forced
// light/dark variant from the settings.
type CustomTheme struct {
	// Variant is "system", "light" or "dark".
	Variant string
}

var _ fyne.Theme = (*CustomTheme)(nil)

func (m *CustomTheme) effectiveVariant(v fyne.ThemeVariant) fyne.ThemeVariant {
	switch m.Variant {
	case "light":
		return theme.VariantLight
	case "dark":
		return theme.VariantDark
	default:
		return v
	}
}

func (m *CustomTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	variant = m.effectiveVariant(variant)
	if variant == theme.VariantLight {
		switch name {
		case theme.ColorNameBackground:
			return color.NRGBA{R: 0xfa, G: 0xfa, B: 0xf8, A: 0xff}
		case theme.ColorNameButton:
			return color.NRGBA{R: 0x3f, G: 0x51, B: 0xb5, A: 0xff} // Indigo
		case theme.ColorNamePrimary:
			return color.NRGBA{R: 0x3f, G: 0x51, B: 0xb5, A: 0xff}
		case theme.ColorNameHover:
			return color.NRGBA{R: 0x79, G: 0x86, B: 0xcb, A: 0xff}
		case theme.ColorNameFocus:
			return color.NRGBA{R: 0x30, G: 0x3f, B: 0x9f, A: 0xff}
		case theme.ColorNameForeground:
			return color.NRGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff}
		case theme.ColorNameInputBackground:
			return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
		case theme.ColorNameSelection:
			return color.NRGBA{R: 0xc5, G: 0xca, B: 0xe9, A: 0xff}
		}
	} else {
		switch name {
		case theme.ColorNameBackground:
			return color.NRGBA{R: 0x1a, G: 0x1b, B: 0x20, A: 0xff}
		case theme.ColorNameButton:
			return color.NRGBA{R: 0x5c, G: 0x6b, B: 0xc0, A: 0xff}
		case theme.ColorNamePrimary:
			return color.NRGBA{R: 0x5c, G: 0x6b, B: 0xc0, A: 0xff}
		case theme.ColorNameHover:
			return color.NRGBA{R: 0x79, G: 0x86, B: 0xcb, A: 0xff}
		case theme.ColorNameFocus:
			return color.NRGBA{R: 0x9f, G: 0xa8, B: 0xda, A: 0xff}
		case theme.ColorNameForeground:
			return color.NRGBA{R: 0xe8, G: 0xe8, B: 0xe4, A: 0xff}
		case theme.ColorNameInputBackground:
			return color.NRGBA{R: 0x2a, G: 0x2b, B: 0x32, A: 0xff}
		case theme.ColorNameSelection:
			return color.NRGBA{R: 0x39, G: 0x42, B: 0x75, A: 0xff}
		}
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (m *CustomTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (m *CustomTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (m *CustomTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 20
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameSeparatorThickness:
		return 1
	}
	return theme.DefaultTheme().Size(name)
}
