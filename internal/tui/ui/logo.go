package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Logo displays a compact ASCII art logo in the accent color.
type Logo struct {
	*tview.TextView
}

// NewLogo creates a new logo component.
func NewLogo(theme *Theme) *Logo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBorderPadding(1, 0, 1, 0)

	l := &Logo{TextView: tv}
	l.SetTheme(theme)
	return l
}

// SetTheme redraws the logo with theme.
func (l *Logo) SetTheme(theme *Theme) {
	l.Clear()
	l.SetBackgroundColor(theme.BgColor)
	accent := ColorName(theme.AccentColor)
	_, _ = fmt.Fprintf(l,
		"[%s::b]┌─┐┌─┐┬─┐┬  ┌─┐┬ ┬[-:-:-]\n"+
			"[%s::b]├─┘├─┤├┬┘│  ├┤ └┬┘[-:-:-]\n"+
			"[%s::b]┴  ┴ ┴┴└─┴─┘└─┘ ┴ [-:-:-]\n"+
			"[%s]assistant chat[-:-:-]",
		accent, accent, accent, ColorName(theme.MutedColor),
	)
}
