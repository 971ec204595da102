package views

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/parley/internal/chat"
	"github.com/matheus3301/parley/internal/tui/ui"
	"github.com/rivo/tview"
)

// MessageThread is the assistant page: the message sequence above a
// composer.
type MessageThread struct {
	*tview.Flex
	theme    *ui.Theme
	messages *tview.TextView
	composer *tview.InputField
	last     []chat.Message
	onChange func(text string)
	onSend   func()
}

// NewMessageThread creates the assistant page.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)
	messages.SetTitle(" Assistant ")

	composer := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	composer.SetBorder(true)
	composer.SetTitle(" Compose (i to focus) ")

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(messages, 0, 1, true).
		AddItem(composer, 3, 0, false)

	mt := &MessageThread{
		Flex:     flex,
		messages: messages,
		composer: composer,
	}

	composer.SetChangedFunc(func(text string) {
		if mt.onChange != nil {
			mt.onChange(text)
		}
	})
	composer.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && mt.onSend != nil {
			mt.onSend()
		}
	})

	mt.ApplyTheme(theme)
	return mt
}

// Name implements Component.
func (mt *MessageThread) Name() string { return "Assistant" }

// Hints implements Component.
func (mt *MessageThread) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "i", Description: "Compose"},
		{Key: "Enter", Description: "Send"},
		{Key: "Esc", Description: "Leave composer"},
	}
}

// ApplyTheme implements Component.
func (mt *MessageThread) ApplyTheme(theme *ui.Theme) {
	mt.theme = theme
	mt.messages.SetBorderColor(theme.BorderColor)
	mt.messages.SetBackgroundColor(theme.BgColor)
	mt.messages.SetTextColor(theme.FgColor)
	mt.messages.SetTitleColor(theme.TitleColor)
	mt.composer.SetBorderColor(theme.BorderColor)
	mt.composer.SetBackgroundColor(theme.BgColor)
	mt.composer.SetFieldBackgroundColor(theme.BgColor)
	mt.composer.SetFieldTextColor(theme.FgColor)
	mt.composer.SetLabelColor(theme.MenuKeyColor)
	mt.composer.SetTitleColor(theme.TitleColor)
	mt.render()
}

// SetOnChange sets the callback for every composer edit.
func (mt *MessageThread) SetOnChange(fn func(text string)) {
	mt.onChange = fn
}

// SetOnSend sets the callback for Enter in the composer.
func (mt *MessageThread) SetOnSend(fn func()) {
	mt.onSend = fn
}

// SetInput replaces the composer text.
func (mt *MessageThread) SetInput(text string) {
	if mt.composer.GetText() != text {
		mt.composer.SetText(text)
	}
}

// Update renders msgs and scrolls to the end.
func (mt *MessageThread) Update(msgs []chat.Message) {
	mt.last = msgs
	mt.render()
	mt.messages.ScrollToEnd()
}

// SetSending marks the title while an exchange is in flight.
func (mt *MessageThread) SetSending(sending bool) {
	if sending {
		mt.composer.SetTitle(" Compose (waiting for reply) ")
		return
	}
	mt.composer.SetTitle(" Compose (i to focus) ")
}

func (mt *MessageThread) render() {
	mt.messages.Clear()
	if len(mt.last) == 0 {
		_, _ = fmt.Fprintf(mt.messages, "[%s]Ask the assistant anything.[-:-:-]", ui.ColorName(mt.theme.MutedColor))
		return
	}
	_, _ = fmt.Fprint(mt.messages, RenderThread(mt.last, mt.theme, "You", "Assistant", time.Now()))
}

// Messages returns the messages text view (for focus management).
func (mt *MessageThread) Messages() *tview.TextView {
	return mt.messages
}

// Composer returns the composer input field (for focus management).
func (mt *MessageThread) Composer() *tview.InputField {
	return mt.composer
}
