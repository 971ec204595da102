package view

import (
	"errors"
	"testing"
	"time"

	"github.com/matheus3301/parley/internal/bus"
	"github.com/matheus3301/parley/internal/chat"
)

type mockRepo map[string]chat.Conversation

func (m mockRepo) Get(id string) (chat.Conversation, error) {
	c, ok := m[id]
	if !ok {
		return chat.Conversation{}, errors.New("missing")
	}
	return c, nil
}

var repo = mockRepo{
	"c1": {ID: "c1", Counterpart: chat.UserProfile{Username: "bob"}},
}

func TestDefaultsToAssistant(t *testing.T) {
	c := New(repo, true, nil)
	if c.Current() != Assistant {
		t.Errorf("Current() = %s, want assistant", c.Current())
	}
	if _, ok := c.Selected(); ok {
		t.Error("Selected() reported a conversation by default")
	}
}

func TestSwitchIsIdempotent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("view.", 10)
	defer unsub()
	c := New(repo, true, b)

	for i := 0; i < 3; i++ {
		if err := c.Switch(Conversations); err != nil {
			t.Fatalf("Switch() error = %v", err)
		}
	}
	if c.Current() != Conversations {
		t.Fatalf("Current() = %s", c.Current())
	}

	events := 0
	timeout := time.After(50 * time.Millisecond)
loop:
	for {
		select {
		case <-ch:
			events++
		case <-timeout:
			break loop
		}
	}
	if events != 1 {
		t.Errorf("got %d view events, want 1", events)
	}
}

func TestSwitchDisabled(t *testing.T) {
	c := New(repo, false, nil)
	if err := c.Switch(Conversations); !errors.Is(err, ErrDisabled) {
		t.Errorf("Switch() error = %v, want ErrDisabled", err)
	}
	if err := c.Toggle(); !errors.Is(err, ErrDisabled) {
		t.Errorf("Toggle() error = %v, want ErrDisabled", err)
	}
	if c.Current() != Assistant {
		t.Errorf("Current() = %s, want assistant", c.Current())
	}
}

func TestSwitchUnknown(t *testing.T) {
	c := New(repo, true, nil)
	if err := c.Switch("settings"); !errors.Is(err, ErrUnknownView) {
		t.Errorf("Switch() error = %v, want ErrUnknownView", err)
	}
	if _, err := ParseView("settings"); !errors.Is(err, ErrUnknownView) {
		t.Errorf("ParseView() error = %v, want ErrUnknownView", err)
	}
}

func TestSelectRequiresConversationsView(t *testing.T) {
	c := New(repo, true, nil)
	if err := c.Select("c1"); !errors.Is(err, ErrWrongView) {
		t.Errorf("Select() error = %v, want ErrWrongView", err)
	}
}

func TestSelectUnknownConversation(t *testing.T) {
	c := New(repo, true, nil)
	_ = c.Switch(Conversations)
	if err := c.Select("c9"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Select() error = %v, want ErrNotFound", err)
	}
}

func TestSelectionSurvivesViewSwitch(t *testing.T) {
	c := New(repo, true, nil)
	_ = c.Switch(Conversations)
	if err := c.Select("c1"); err != nil {
		t.Fatal(err)
	}

	_ = c.Switch(Assistant)
	if _, ok := c.Selected(); ok {
		t.Error("Selected() reported under the assistant view")
	}

	_ = c.Switch(Conversations)
	got, ok := c.Selected()
	if !ok || got.ID != "c1" {
		t.Errorf("Selected() = %+v, %v; want c1", got, ok)
	}

	c.Deselect()
	if _, ok := c.Selected(); ok {
		t.Error("Selected() after Deselect")
	}
}

func TestReset(t *testing.T) {
	c := New(repo, true, nil)
	_ = c.Switch(Conversations)
	_ = c.Select("c1")

	c.Reset()
	if c.Current() != Assistant {
		t.Errorf("Current() = %s", c.Current())
	}
	_ = c.Switch(Conversations)
	if _, ok := c.Selected(); ok {
		t.Error("selection survived Reset")
	}
}
