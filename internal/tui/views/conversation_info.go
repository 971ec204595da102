package views

import (
	"fmt"
	"time"

	"github.com/matheus3301/parley/internal/chat"
	"github.com/matheus3301/parley/internal/tui/ui"
	"github.com/rivo/tview"
)

// ConversationInfo is the read-only detail of one peer conversation: the
// counterpart header above the message thread.
type ConversationInfo struct {
	*tview.Flex
	theme    *ui.Theme
	header   *tview.TextView
	messages *tview.TextView
	conv     chat.Conversation
}

// NewConversationInfo creates a new conversation detail view.
func NewConversationInfo(theme *ui.Theme) *ConversationInfo {
	header := tview.NewTextView().
		SetDynamicColors(true)
	header.SetBorderPadding(0, 0, 1, 1)

	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 2, 0, false).
		AddItem(messages, 0, 1, true)

	ci := &ConversationInfo{
		Flex:     flex,
		header:   header,
		messages: messages,
	}
	ci.ApplyTheme(theme)
	return ci
}

// Name implements Component.
func (ci *ConversationInfo) Name() string {
	if ci.conv.Counterpart.Username != "" {
		return ci.conv.Counterpart.Username
	}
	return "Conversation"
}

// Hints implements Component.
func (ci *ConversationInfo) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

// ApplyTheme implements Component.
func (ci *ConversationInfo) ApplyTheme(theme *ui.Theme) {
	ci.theme = theme
	ci.header.SetBackgroundColor(theme.BgColor)
	ci.messages.SetBorderColor(theme.BorderColor)
	ci.messages.SetBackgroundColor(theme.BgColor)
	ci.messages.SetTextColor(theme.FgColor)
	ci.messages.SetTitleColor(theme.TitleColor)
	ci.render()
}

// Update shows conv.
func (ci *ConversationInfo) Update(conv chat.Conversation) {
	ci.conv = conv
	ci.render()
	ci.messages.ScrollToEnd()
}

func (ci *ConversationInfo) render() {
	ci.header.Clear()
	ci.messages.Clear()
	if ci.conv.ID == "" {
		return
	}

	u := ci.conv.Counterpart
	accent := ui.ColorName(ci.theme.AccentColor)
	muted := ui.ColorName(ci.theme.MutedColor)
	_, _ = fmt.Fprintf(ci.header, "[black:%s:b] %s [-:-:-] [::b]%s[-:-:-]\n[%s]%s  %d messages[-:-:-]",
		accent, u.Initials(), tview.Escape(singleLine(u.Username)),
		muted, tview.Escape(u.Phone), len(ci.conv.Messages))

	ci.messages.SetTitle(fmt.Sprintf(" %s ", tview.Escape(singleLine(ci.Name()))))
	_, _ = fmt.Fprint(ci.messages, RenderThread(ci.conv.Messages, ci.theme, "You", u.Username, time.Now()))
}
