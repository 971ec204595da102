package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheus3301/parley/internal/chat"
	"github.com/matheus3301/parley/internal/tui/ui"
	"github.com/rivo/tview"
)

// FormatTime renders a message time: clock time for today, month/day
// otherwise, empty for the zero time.
func FormatTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(now.Location())
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02")
}

// RenderThread renders msgs as tview-tagged text. Self messages carry
// selfLabel in the accent color, others peerLabel. Pending messages are
// dimmed and failed ones shown in the failure color.
func RenderThread(msgs []chat.Message, theme *ui.Theme, selfLabel, peerLabel string, now time.Time) string {
	var b strings.Builder
	gap := strings.Repeat("\n", theme.Spacing)
	for i, m := range msgs {
		if i > 0 {
			b.WriteString(gap)
		}

		label, color := peerLabel, ui.ColorName(theme.PeerColor)
		if m.FromSelf() {
			label, color = selfLabel, ui.ColorName(theme.SelfColor)
		}
		fmt.Fprintf(&b, "[%s::b]%s[-:-:-] [%s]%s[-:-:-]",
			color, tview.Escape(singleLine(label)),
			ui.ColorName(theme.MutedColor), FormatTime(m.Timestamp, now))
		if m.ForwardedFrom != nil {
			fmt.Fprintf(&b, " [%s::i]forwarded from %s[-:-:-]",
				ui.ColorName(theme.MutedColor), tview.Escape(singleLine(m.ForwardedFrom.Username)))
		}
		b.WriteString("\n")

		text := tview.Escape(sanitizeForTerminal(m.Text))
		switch m.State {
		case chat.Pending:
			fmt.Fprintf(&b, "[::d]%s[-:-:-]\n", text)
		case chat.Failed:
			fmt.Fprintf(&b, "[%s]%s[-:-:-]\n", ui.ColorName(theme.FailedColor), text)
		default:
			fmt.Fprintf(&b, "%s\n", text)
		}
	}
	return b.String()
}

