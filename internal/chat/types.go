// Package chat holds the data model shared by the session controller components.
package chat

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// TypingText is the display text of the in-flight placeholder.
const TypingText = "Typing…"

// ApologyText replaces the placeholder when an exchange fails.
const ApologyText = "Sorry, something went wrong."

// Sender identifies who wrote a message. Values match the remote wire format.
type Sender string

const (
	SenderSelf        Sender = "user"
	SenderCounterpart Sender = "bot"
)

// DeliveryState is the reconciliation state of a message.
type DeliveryState string

const (
	Confirmed DeliveryState = "confirmed"
	Pending   DeliveryState = "pending"
	Failed    DeliveryState = "failed"
)

// UserProfile is immutable for the lifetime of a session.
type UserProfile struct {
	ID       string
	Username string
	Phone    string
	Avatar   string // relative image path on the service, empty when absent
}

// Initials returns the avatar fallback: the first letter of the username
// part before the first '.', upper-cased, or "U".
func (u UserProfile) Initials() string {
	head, _, _ := strings.Cut(u.Username, ".")
	r, size := utf8.DecodeRuneInString(head)
	if size == 0 || r == utf8.RuneError {
		return "U"
	}
	return string(unicode.ToUpper(r))
}

// AvatarURL resolves the avatar path against the service base URL.
func (u UserProfile) AvatarURL(base string) string {
	if u.Avatar == "" {
		return ""
	}
	p := strings.TrimLeft(strings.ReplaceAll(u.Avatar, `\`, "/"), "/")
	return strings.TrimRight(base, "/") + "/" + p
}

// Message is one entry of a message sequence.
type Message struct {
	ID            string
	Sender        Sender
	Text          string
	Timestamp     time.Time
	State         DeliveryState
	ForwardedFrom *UserProfile
}

// FromSelf reports whether the local user wrote the message.
func (m Message) FromSelf() bool {
	return m.Sender == SenderSelf
}

// Conversation is a read-only peer conversation fetched in bulk.
type Conversation struct {
	ID          string
	Counterpart UserProfile
	Messages    []Message
	LastMessage Message
}
