package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/parley/internal/chat"
	"github.com/matheus3301/parley/internal/conversation"
	"github.com/matheus3301/parley/internal/tui/ui"
	"github.com/rivo/tview"
)

// ConversationList is the conversations table.
type ConversationList struct {
	*tview.Table
	theme  *ui.Theme
	convs  []chat.Conversation
	filter string
}

// NewConversationList creates a new conversation list table.
func NewConversationList(theme *ui.Theme) *ConversationList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetTitle(" Conversations ")

	cl := &ConversationList{
		Table: table,
	}
	cl.ApplyTheme(theme)
	return cl
}

// Name implements Component.
func (cl *ConversationList) Name() string { return "Conversations" }

// Hints implements Component.
func (cl *ConversationList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
		{Key: "/", Description: "Filter"},
		{Key: "r", Description: "Refresh"},
	}
}

// ApplyTheme implements Component.
func (cl *ConversationList) ApplyTheme(theme *ui.Theme) {
	cl.theme = theme
	cl.SetBorderColor(theme.BorderColor)
	cl.SetBackgroundColor(theme.BgColor)
	cl.SetTitleColor(theme.TitleColor)
	cl.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	cl.render()
}

// Update refreshes the list with new data.
func (cl *ConversationList) Update(convs []chat.Conversation) {
	cl.convs = convs
	cl.render()
}

// SetFilter sets the active filter text and re-renders.
func (cl *ConversationList) SetFilter(filter string) {
	cl.filter = filter
	cl.render()
}

// Filter returns the active filter.
func (cl *ConversationList) Filter() string {
	return cl.filter
}

// Visible returns the conversations matching the filter, in list order.
func (cl *ConversationList) Visible() []chat.Conversation {
	if cl.filter == "" {
		return cl.convs
	}
	var out []chat.Conversation
	for _, c := range cl.convs {
		if matches(c, cl.filter) {
			out = append(out, c)
		}
	}
	return out
}

func (cl *ConversationList) render() {
	cl.Clear()

	headers := []struct {
		text string
		exp  int
	}{
		{" NAME", 1},
		{" PHONE", 1},
		{" LAST MESSAGE", 3},
		{" TIME", 0},
	}
	for col, h := range headers {
		cell := tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(cl.theme.TableHeaderFg).
			SetBackgroundColor(cl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp)
		cl.SetCell(0, col, cell)
	}

	visible := cl.Visible()
	if len(visible) == 0 {
		cl.SetCell(1, 0, tview.NewTableCell(" "+conversation.EmptyText).
			SetSelectable(false).
			SetTextColor(cl.theme.MutedColor))
	}

	now := time.Now()
	for i, c := range visible {
		row := i + 1
		cl.SetCell(row, 0, tview.NewTableCell(" "+tview.Escape(singleLine(c.Counterpart.Username))).SetExpansion(1).SetTextColor(cl.theme.FgColor))
		cl.SetCell(row, 1, tview.NewTableCell(" "+tview.Escape(c.Counterpart.Phone)).SetExpansion(1).SetTextColor(cl.theme.MutedColor))
		cl.SetCell(row, 2, tview.NewTableCell(" "+tview.Escape(preview(c.LastMessage.Text))).SetExpansion(3).SetTextColor(cl.theme.FgColor))
		cl.SetCell(row, 3, tview.NewTableCell(FormatTime(c.LastMessage.Timestamp, now)+" ").SetTextColor(cl.theme.FgColor).SetAlign(tview.AlignRight))
	}

	if cl.filter != "" {
		cl.SetTitle(fmt.Sprintf(" Conversations (%d/%d) filter: %s ", len(visible), len(cl.convs), tview.Escape(cl.filter)))
	} else {
		cl.SetTitle(fmt.Sprintf(" Conversations (%d) ", len(cl.convs)))
	}
}

// SelectedID returns the id of the highlighted conversation, or empty.
func (cl *ConversationList) SelectedID() string {
	row, _ := cl.GetSelection()
	visible := cl.Visible()
	idx := row - 1
	if idx < 0 || idx >= len(visible) {
		return ""
	}
	return visible[idx].ID
}

func matches(c chat.Conversation, filter string) bool {
	f := strings.ToLower(filter)
	for _, s := range []string{c.Counterpart.Username, c.Counterpart.Phone, c.LastMessage.Text} {
		if strings.Contains(strings.ToLower(s), f) {
			return true
		}
	}
	return false
}

func preview(text string) string {
	text = singleLine(text)
	r := []rune(text)
	if len(r) > 60 {
		return string(r[:59]) + "…"
	}
	return text
}
