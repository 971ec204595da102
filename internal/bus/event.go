package bus

import "time"

// Event kinds published by the session controller. Subscribers filter by
// namespace prefix, e.g. "message." or "session.".
const (
	SessionStatusChanged = "session.status_changed"
	MessageTailChanged   = "message.tail_changed"
	MessageHistoryLoaded = "message.history_loaded"
	ConversationsLoaded  = "conversations.loaded"
	ViewChanged          = "view.changed"
	PrefsChanged         = "prefs.changed"
)

// Event represents a state change published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
