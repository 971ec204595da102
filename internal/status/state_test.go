package status

import (
	"testing"
	"time"

	"github.com/matheus3301/parley/internal/bus"
)

func TestInitialState(t *testing.T) {
	m := NewMachine(nil)
	if m.Current() != Inactive {
		t.Errorf("initial state = %s, want %s", m.Current(), Inactive)
	}
}

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []State
	}{
		{"activation succeeds", []State{Checking, Active}},
		{"activation fails", []State{Checking, SignedOut}},
		{"no token", []State{SignedOut}},
		{"logout", []State{Checking, Active, SignedOut}},
		{"sign in again", []State{Checking, Active, SignedOut, Checking, Active}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(nil)
			for _, s := range tt.path {
				if err := m.Transition(s); err != nil {
					t.Fatalf("Transition(%s) error = %v", s, err)
				}
			}
			if got := m.Current(); got != tt.path[len(tt.path)-1] {
				t.Errorf("final state = %s, want %s", got, tt.path[len(tt.path)-1])
			}
		})
	}
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		name  string
		setup []State
		to    State
	}{
		{"inactive to active", nil, Active},
		{"active to checking", []State{Checking, Active}, Checking},
		{"signed out to active", []State{SignedOut}, Active},
		{"checking to inactive", []State{Checking}, Inactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(nil)
			for _, s := range tt.setup {
				if err := m.Transition(s); err != nil {
					t.Fatalf("setup Transition(%s) error = %v", s, err)
				}
			}
			before := m.Current()
			if err := m.Transition(tt.to); err == nil {
				t.Errorf("Transition(%s) from %s should fail", tt.to, before)
			}
			if m.Current() != before {
				t.Errorf("state changed to %s after invalid transition", m.Current())
			}
		})
	}
}

func TestSettleIsIdempotent(t *testing.T) {
	m := NewMachine(nil)
	if err := m.Settle(SignedOut); err != nil {
		t.Fatal(err)
	}
	if err := m.Settle(SignedOut); err != nil {
		t.Errorf("second Settle error = %v", err)
	}
}

func TestTransitionPublishesEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("session.", 10)
	defer unsub()

	m := NewMachine(b)
	if err := m.Transition(Checking); err != nil {
		t.Fatal(err)
	}

	select {
	case evt := <-ch:
		change, ok := evt.Payload.(StatusChange)
		if !ok {
			t.Fatalf("payload type = %T, want StatusChange", evt.Payload)
		}
		if change.From != Inactive || change.To != Checking {
			t.Errorf("change = %+v, want Inactive->Checking", change)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for status event")
	}
}
