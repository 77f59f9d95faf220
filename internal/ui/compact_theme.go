package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Palette used by CompactTheme
var (
	colorAccent      = color.NRGBA{R: 204, G: 32, B: 32, A: 255}
	colorSuccess     = color.NRGBA{R: 46, G: 160, B: 67, A: 255}
	colorError       = color.NRGBA{R: 183, G: 28, B: 28, A: 255}
	colorLightCanvas = color.NRGBA{R: 248, G: 248, B: 248, A: 255}
	colorDarkCanvas  = color.NRGBA{R: 20, G: 20, B: 20, A: 255}
)

// CompactTheme is the default theme with a red accent and tighter spacing,
// sized for a single small window.
type CompactTheme struct {
	base fyne.Theme
}

// NewCompactTheme creates a new compact theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{base: theme.DefaultTheme()}
}

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return colorAccent
	case theme.ColorNameSuccess:
		return colorSuccess
	case theme.ColorNameError:
		return colorError
	case theme.ColorNameBackground:
		if variant == theme.VariantDark {
			return colorDarkCanvas
		}
		return colorLightCanvas
	}
	return t.base.Color(name, variant)
}

// Font returns theme fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon returns theme icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameText:
		return 13
	case theme.SizeNameInputRadius:
		return 3
	}
	return t.base.Size(name)
}
