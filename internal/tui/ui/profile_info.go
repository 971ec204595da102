package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// ProfileData holds the header information.
type ProfileData struct {
	Profile       string
	Username      string
	Phone         string
	Status        string
	Messages      int
	Conversations int
	Sending       bool
}

// ProfileInfo displays profile and session metadata in the header.
type ProfileInfo struct {
	*tview.TextView
	theme *Theme
}

// NewProfileInfo creates a new profile info panel.
func NewProfileInfo(theme *Theme) *ProfileInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &ProfileInfo{
		TextView: tv,
		theme:    theme,
	}
}

// SetTheme replaces the theme; the next Update uses it.
func (pi *ProfileInfo) SetTheme(theme *Theme) {
	pi.theme = theme
	pi.SetBackgroundColor(theme.BgColor)
}

// Update renders the header.
func (pi *ProfileInfo) Update(d ProfileData) {
	pi.Clear()

	fg := ColorName(pi.theme.FgColor)
	ct := ColorName(pi.theme.CounterColor)

	user := d.Username
	if user == "" {
		user = "-"
	}
	phone := d.Phone
	if phone == "" {
		phone = "-"
	}
	status := d.Status
	if d.Sending {
		status += " (sending)"
	}

	_, _ = fmt.Fprintf(pi,
		"[%s::b]Profile:[-:-:-] [%s]%s[-]\n"+
			"[%s::b]User:[-:-:-]    [%s]%s[-]\n"+
			"[%s::b]Phone:[-:-:-]   [%s]%s[-]\n"+
			"[%s::b]Status:[-:-:-]  [%s]%s[-]\n"+
			"[%s::b]Msgs:[-:-:-]    [%s]%d[-]\n"+
			"[%s::b]Convs:[-:-:-]   [%s]%d[-]",
		fg, ct, tview.Escape(d.Profile),
		fg, ct, tview.Escape(user),
		fg, ct, tview.Escape(phone),
		fg, ct, status,
		fg, ct, d.Messages,
		fg, ct, d.Conversations,
	)
}
