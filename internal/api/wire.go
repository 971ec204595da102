package api

import (
	"strings"
	"time"

	"github.com/matheus3301/parley/internal/chat"
)

// The service encodes timestamps as ISO-8601 strings and sometimes omits
// them; wireTime decodes both without failing the whole body.
type wireTime time.Time

func (t *wireTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*t = wireTime(time.Time{})
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		*t = wireTime(time.Time{})
		return nil
	}
	*t = wireTime(parsed)
	return nil
}

func (t wireTime) MarshalJSON() ([]byte, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + tt.UTC().Format(time.RFC3339Nano) + `"`), nil
}

// User is the wire form of a user profile.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Phone    string `json:"phone,omitempty"`
	Image    string `json:"image,omitempty"`
}

func (u User) profile() chat.UserProfile {
	return chat.UserProfile{ID: u.ID, Username: u.Username, Phone: u.Phone, Avatar: u.Image}
}

// UserFromProfile converts a profile to its wire form.
func UserFromProfile(p chat.UserProfile) User {
	return User{ID: p.ID, Username: p.Username, Phone: p.Phone, Image: p.Avatar}
}

// HistoryMessage is one entry of GET /api/chat/history.
type HistoryMessage struct {
	ID            string   `json:"_id,omitempty"`
	Sender        string   `json:"sender"`
	Text          string   `json:"text"`
	Time          wireTime `json:"time"`
	ForwardedFrom *User    `json:"forwardedFrom,omitempty"`
}

// NewHistoryMessage builds a history entry.
func NewHistoryMessage(id string, sender chat.Sender, text string, at time.Time) HistoryMessage {
	return HistoryMessage{ID: id, Sender: string(sender), Text: text, Time: wireTime(at)}
}

func (m HistoryMessage) message() chat.Message {
	out := chat.Message{
		ID:        m.ID,
		Sender:    chat.SenderCounterpart,
		Text:      m.Text,
		Timestamp: time.Time(m.Time),
		State:     chat.Confirmed,
	}
	if m.Sender == string(chat.SenderSelf) {
		out.Sender = chat.SenderSelf
	}
	if m.ForwardedFrom != nil {
		p := m.ForwardedFrom.profile()
		out.ForwardedFrom = &p
	}
	return out
}

type historyResponse struct {
	Messages []HistoryMessage `json:"messages"`
}

// PeerMessage is one message inside a peer conversation.
type PeerMessage struct {
	Text      string   `json:"text"`
	Timestamp wireTime `json:"timestamp"`
	SentByMe  bool     `json:"sentByMe"`
}

// NewPeerMessage builds a peer conversation message.
func NewPeerMessage(text string, at time.Time, sentByMe bool) PeerMessage {
	return PeerMessage{Text: text, Timestamp: wireTime(at), SentByMe: sentByMe}
}

func (m PeerMessage) message() chat.Message {
	sender := chat.SenderCounterpart
	if m.SentByMe {
		sender = chat.SenderSelf
	}
	return chat.Message{
		Sender:    sender,
		Text:      m.Text,
		Timestamp: time.Time(m.Timestamp),
		State:     chat.Confirmed,
	}
}

// Conversation is one entry of GET /api/chat/conversations.
type Conversation struct {
	ID          string        `json:"_id"`
	OtherUser   User          `json:"otherUser"`
	Messages    []PeerMessage `json:"messages"`
	LastMessage *PeerMessage  `json:"lastMessage,omitempty"`
}

func (c Conversation) conversation() chat.Conversation {
	out := chat.Conversation{
		ID:          c.ID,
		Counterpart: c.OtherUser.profile(),
		Messages:    make([]chat.Message, 0, len(c.Messages)),
	}
	for _, m := range c.Messages {
		out.Messages = append(out.Messages, m.message())
	}
	switch {
	case c.LastMessage != nil:
		out.LastMessage = c.LastMessage.message()
	case len(out.Messages) > 0:
		out.LastMessage = out.Messages[len(out.Messages)-1]
	}
	return out
}

type conversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
}

// SaveRequest is the body of POST /api/chat/save.
type SaveRequest struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// AskRequest is the body of POST /api/ai/ask.
type AskRequest struct {
	Prompt string `json:"prompt"`
}

type askResponse struct {
	Answer *string `json:"answer"`
}

// SignInRequest is the body of POST /api/auth/signin.
type SignInRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type signInResponse struct {
	Token string `json:"token"`
}

type errorBody struct {
	Message string `json:"message"`
}
