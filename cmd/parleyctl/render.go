package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheus3301/parley/internal/chat"
	"github.com/matheus3301/parley/internal/conversation"
	"github.com/matheus3301/parley/internal/prefs"
	"github.com/matheus3301/parley/internal/tui/views"
)

type statusView struct {
	Profile       string `json:"profile"`
	State         string `json:"state"`
	Reason        string `json:"reason,omitempty"`
	Server        string `json:"server"`
	Backend       string `json:"backend"`
	Username      string `json:"username,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Messages      int    `json:"messages"`
	Conversations int    `json:"conversations"`
}

type messageView struct {
	ID            string    `json:"id"`
	Sender        string    `json:"sender"`
	Text          string    `json:"text"`
	Time          time.Time `json:"time"`
	State         string    `json:"state"`
	ForwardedFrom string    `json:"forwardedFrom,omitempty"`
}

type conversationView struct {
	ID          string        `json:"id"`
	Username    string        `json:"username"`
	Phone       string        `json:"phone,omitempty"`
	LastMessage string        `json:"lastMessage"`
	LastTime    time.Time     `json:"lastTime"`
	Messages    []messageView `json:"messages,omitempty"`
}

type prefsView struct {
	AccentColor string `json:"accentColor"`
	FontScale   string `json:"fontScale"`
}

func toMessageView(m chat.Message) messageView {
	v := messageView{
		ID:     m.ID,
		Sender: string(m.Sender),
		Text:   m.Text,
		Time:   m.Timestamp,
		State:  string(m.State),
	}
	if m.ForwardedFrom != nil {
		v.ForwardedFrom = m.ForwardedFrom.Username
	}
	return v
}

func toMessageViews(msgs []chat.Message) []messageView {
	out := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageView(m))
	}
	return out
}

func toConversationView(c chat.Conversation, withMessages bool) conversationView {
	v := conversationView{
		ID:          c.ID,
		Username:    c.Counterpart.Username,
		Phone:       c.Counterpart.Phone,
		LastMessage: c.LastMessage.Text,
		LastTime:    c.LastMessage.Timestamp,
	}
	if withMessages {
		v.Messages = toMessageViews(c.Messages)
	}
	return v
}

func toConversationViews(convs []chat.Conversation) []conversationView {
	out := make([]conversationView, 0, len(convs))
	for _, c := range convs {
		out = append(out, toConversationView(c, false))
	}
	return out
}

func toPrefsView(p prefs.Preferences) prefsView {
	return prefsView{AccentColor: p.AccentColor, FontScale: string(p.FontScale)}
}

// renderer prints human-readable output in the user's accent color.
type renderer struct {
	self    lipgloss.Style
	peer    lipgloss.Style
	muted   lipgloss.Style
	failed  lipgloss.Style
	label   lipgloss.Style
	spacing int
	now     func() time.Time
}

func newRenderer(p prefs.Preferences) *renderer {
	accent := lipgloss.Color(p.AccentColor)
	spacing := 1
	switch p.FontScale {
	case prefs.Small:
		spacing = 0
	case prefs.Large:
		spacing = 2
	}
	return &renderer{
		self:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		peer:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		failed:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		label:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		spacing: spacing,
		now:     time.Now,
	}
}

func (r *renderer) thread(w io.Writer, msgs []chat.Message, selfLabel, peerLabel string) {
	now := r.now()
	for i, m := range msgs {
		if i > 0 {
			fmt.Fprint(w, strings.Repeat("\n", r.spacing))
		}
		name := r.peer.Render(peerLabel)
		if m.FromSelf() {
			name = r.self.Render(selfLabel)
		}
		header := name + " " + r.muted.Render(views.FormatTime(m.Timestamp, now))
		if m.ForwardedFrom != nil {
			header += " " + r.muted.Render("forwarded from "+m.ForwardedFrom.Username)
		}
		fmt.Fprintln(w, header)

		switch m.State {
		case chat.Failed:
			fmt.Fprintln(w, r.failed.Render(m.Text))
		case chat.Pending:
			fmt.Fprintln(w, r.muted.Render(m.Text))
		default:
			fmt.Fprintln(w, m.Text)
		}
	}
}

func (r *renderer) conversations(w io.Writer, convs []chat.Conversation) {
	if len(convs) == 0 {
		fmt.Fprintln(w, conversation.EmptyText)
		return
	}
	now := r.now()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tLAST MESSAGE\tTIME")
	for _, c := range convs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Counterpart.Username, c.Counterpart.Phone,
			preview(c.LastMessage.Text), views.FormatTime(c.LastMessage.Timestamp, now))
	}
	_ = tw.Flush()
}

func (r *renderer) prefs(w io.Writer, p prefs.Preferences) {
	fmt.Fprintf(w, "%s %s\n", r.label.Render("Accent:"), p.AccentColor)
	fmt.Fprintf(w, "%s %s\n", r.label.Render("Font:  "), p.FontScale)
}

func printStatus(w io.Writer, s statusView) {
	fmt.Fprintf(w, "Profile:       %s\n", s.Profile)
	fmt.Fprintf(w, "State:         %s\n", s.State)
	if s.Reason != "" {
		fmt.Fprintf(w, "Reason:        %s\n", s.Reason)
	}
	fmt.Fprintf(w, "Server:        %s\n", s.Server)
	fmt.Fprintf(w, "Backend:       %s\n", s.Backend)
	if s.Username != "" {
		fmt.Fprintf(w, "User:          %s\n", s.Username)
		fmt.Fprintf(w, "Phone:         %s\n", s.Phone)
		fmt.Fprintf(w, "Messages:      %d\n", s.Messages)
		fmt.Fprintf(w, "Conversations: %d\n", s.Conversations)
	}
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) > 50 {
		return string(r[:49]) + "…"
	}
	return text
}
