package views

import (
	"fmt"

	"github.com/matheus3301/parley/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetTitle(" Help ")

	hv := &HelpView{
		TextView: tv,
	}
	hv.ApplyTheme(theme)
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

// ApplyTheme implements Component.
func (hv *HelpView) ApplyTheme(theme *ui.Theme) {
	hv.theme = theme
	hv.SetBorderColor(theme.BorderColor)
	hv.SetBackgroundColor(theme.BgColor)
	hv.SetTextColor(theme.FgColor)
	hv.SetTitleColor(theme.TitleColor)
	hv.render()
}

func (hv *HelpView) render() {
	hv.Clear()
	kc := ui.ColorName(hv.theme.MenuKeyColor)

	help := fmt.Sprintf(`
  [::b]Global Keys[-:-:-]

  [%[1]s]Tab[-:-:-]      Switch between assistant and conversations
  [%[1]s]:[-:-:-]        Command mode       [%[1]s]Esc[-:-:-]    Cancel / Go back
  [%[1]s]p[-:-:-]        Preferences        [%[1]s]?[-:-:-]      Help
  [%[1]s]q[-:-:-]        Quit               [%[1]s]Ctrl-C[-:-:-] Quit immediately

  [::b]Assistant[-:-:-]

  [%[1]s]i[-:-:-]        Focus composer     [%[1]s]Enter[-:-:-]  Send message (in composer)
  [%[1]s]Esc[-:-:-]      Leave composer     [%[1]s]r[-:-:-]      Reload history

  [::b]Conversations[-:-:-]

  [%[1]s]Enter[-:-:-]    Open conversation  [%[1]s]/[-:-:-]      Filter
  [%[1]s]Esc[-:-:-]      Back to the list   [%[1]s]r[-:-:-]      Reload conversations

  [::b]Commands (: mode)[-:-:-]

  [%[1]s]:prefs[-:-:-]             Show preferences
  [%[1]s]:color <hex>[-:-:-]       Set the accent color
  [%[1]s]:font <scale>[-:-:-]      Set the font scale (small, medium, large)
  [%[1]s]:insert <text>[-:-:-]     Append text (e.g. an emoji) to the composer
  [%[1]s]:logout[-:-:-]            Sign out and quit
  [%[1]s]:help[-:-:-] / [%[1]s]:h[-:-:-]       Show this help
  [%[1]s]:quit[-:-:-] / [%[1]s]:q[-:-:-]       Quit application
`, kc)

	_, _ = fmt.Fprint(hv, help)
}
