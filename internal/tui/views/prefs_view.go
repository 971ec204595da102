package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/parley/internal/prefs"
	"github.com/matheus3301/parley/internal/tui/ui"
	"github.com/rivo/tview"
)

// PrefsView lists the advisory palette and the font scales. Selecting an
// entry applies it.
type PrefsView struct {
	*tview.List
	theme   *ui.Theme
	current prefs.Preferences
	onColor func(color string)
	onFont  func(fs prefs.FontScale)
}

// NewPrefsView creates the preferences page.
func NewPrefsView(theme *ui.Theme) *PrefsView {
	list := tview.NewList().
		ShowSecondaryText(false)
	list.SetBorder(true)
	list.SetTitle(" Preferences ")

	pv := &PrefsView{
		List:    list,
		current: prefs.Defaults(),
	}
	list.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		pv.choose(index)
	})
	pv.ApplyTheme(theme)
	return pv
}

// Name implements Component.
func (pv *PrefsView) Name() string { return "Preferences" }

// Hints implements Component.
func (pv *PrefsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Apply"},
		{Key: "Esc", Description: "Back"},
	}
}

// ApplyTheme implements Component.
func (pv *PrefsView) ApplyTheme(theme *ui.Theme) {
	pv.theme = theme
	pv.SetBorderColor(theme.BorderColor)
	pv.SetBackgroundColor(theme.BgColor)
	pv.SetTitleColor(theme.TitleColor)
	pv.SetMainTextColor(theme.FgColor)
	pv.SetSelectedTextColor(theme.TableCursorFg)
	pv.SetSelectedBackgroundColor(theme.TableCursorBg)
	pv.render()
}

// SetOnColor sets the callback for a palette entry.
func (pv *PrefsView) SetOnColor(fn func(color string)) {
	pv.onColor = fn
}

// SetOnFont sets the callback for a font scale entry.
func (pv *PrefsView) SetOnFont(fn func(fs prefs.FontScale)) {
	pv.onFont = fn
}

// Update marks p as the current preferences.
func (pv *PrefsView) Update(p prefs.Preferences) {
	pv.current = p
	pv.render()
}

func (pv *PrefsView) render() {
	selected := pv.GetCurrentItem()
	pv.Clear()
	for _, sw := range prefs.Palette {
		pv.AddItem(fmt.Sprintf("%s [%s]██[-] %-7s %s", mark(strings.EqualFold(sw.Color, pv.current.AccentColor)), sw.Color, sw.Name, sw.Color), "", 0, nil)
	}
	for _, fs := range FontScales {
		pv.AddItem(fmt.Sprintf("%s font %s", mark(fs == pv.current.FontScale), fs), "", 0, nil)
	}
	if selected >= 0 && selected < pv.GetItemCount() {
		pv.SetCurrentItem(selected)
	}
}

func (pv *PrefsView) choose(index int) {
	if index < len(prefs.Palette) {
		if pv.onColor != nil {
			pv.onColor(prefs.Palette[index].Color)
		}
		return
	}
	index -= len(prefs.Palette)
	if index < len(FontScales) && pv.onFont != nil {
		pv.onFont(FontScales[index])
	}
}

// FontScales lists the scales in display order.
var FontScales = []prefs.FontScale{prefs.Small, prefs.Medium, prefs.Large}

func mark(on bool) string {
	if on {
		return "(*)"
	}
	return "( )"
}
