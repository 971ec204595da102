// Package view tracks which of the two exclusive views is shown and which
// conversation is selected.
package view

import (
	"errors"
	"fmt"
	"sync"

	"github.com/matheus3301/parley/internal/bus"
	"github.com/matheus3301/parley/internal/chat"
)

// View identifies a top-level view.
type View string

const (
	Assistant     View = "assistant"
	Conversations View = "conversations"
)

var (
	ErrUnknownView = errors.New("unknown view")
	ErrDisabled    = errors.New("conversation browsing disabled")
	ErrWrongView   = errors.New("not in conversations view")
	ErrNotFound    = errors.New("conversation not found")
)

// ParseView accepts a view name.
func ParseView(s string) (View, error) {
	switch View(s) {
	case Assistant, Conversations:
		return View(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// Projector resolves conversation ids against already fetched data.
type Projector interface {
	Get(id string) (chat.Conversation, error)
}

// Change is the payload of bus.ViewChanged.
type Change struct {
	View     View
	Selected string
}

// Coordinator never touches pipeline or repository state and makes no
// network calls.
type Coordinator struct {
	repo    Projector
	enabled bool
	bus     *bus.Bus

	mu       sync.RWMutex
	current  View
	selected string
}

// New creates a coordinator in the assistant view. conversationsEnabled
// gates the conversations view.
func New(repo Projector, conversationsEnabled bool, b *bus.Bus) *Coordinator {
	return &Coordinator{
		repo:    repo,
		enabled: conversationsEnabled,
		bus:     b,
		current: Assistant,
	}
}

// Current returns the active view.
func (c *Coordinator) Current() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// ConversationsEnabled reports whether the conversations view is available.
func (c *Coordinator) ConversationsEnabled() bool {
	return c.enabled
}

// Switch shows v. Switching to the current view is a no-op. The selected
// conversation is kept while the assistant view is shown.
func (c *Coordinator) Switch(v View) error {
	if v != Assistant && v != Conversations {
		return fmt.Errorf("%w: %q", ErrUnknownView, v)
	}
	if v == Conversations && !c.enabled {
		return ErrDisabled
	}

	c.mu.Lock()
	if c.current == v {
		c.mu.Unlock()
		return nil
	}
	c.current = v
	change := c.changeLocked()
	c.mu.Unlock()

	c.bus.Emit(bus.ViewChanged, change)
	return nil
}

// Toggle flips between the two views.
func (c *Coordinator) Toggle() error {
	if c.Current() == Assistant {
		return c.Switch(Conversations)
	}
	return c.Switch(Assistant)
}

// Select opens conversation id. It must already be fetched.
func (c *Coordinator) Select(id string) error {
	c.mu.Lock()
	if c.current != Conversations {
		c.mu.Unlock()
		return ErrWrongView
	}
	if _, err := c.repo.Get(id); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.selected = id
	change := c.changeLocked()
	c.mu.Unlock()

	c.bus.Emit(bus.ViewChanged, change)
	return nil
}

// Deselect returns to the conversation list.
func (c *Coordinator) Deselect() {
	c.mu.Lock()
	if c.selected == "" {
		c.mu.Unlock()
		return
	}
	c.selected = ""
	change := c.changeLocked()
	c.mu.Unlock()

	c.bus.Emit(bus.ViewChanged, change)
}

// Selected returns the selected conversation. It is only reported while
// the conversations view is shown and the conversation is still loaded.
func (c *Coordinator) Selected() (chat.Conversation, bool) {
	c.mu.RLock()
	current, id := c.current, c.selected
	c.mu.RUnlock()

	if current != Conversations || id == "" {
		return chat.Conversation{}, false
	}
	conv, err := c.repo.Get(id)
	if err != nil {
		return chat.Conversation{}, false
	}
	return conv, true
}

// Reset returns to the assistant view with nothing selected.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	c.current = Assistant
	c.selected = ""
	change := c.changeLocked()
	c.mu.Unlock()
	c.bus.Emit(bus.ViewChanged, change)
}

func (c *Coordinator) changeLocked() Change {
	return Change{View: c.current, Selected: c.selected}
}
