package status

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matheus3301/parley/internal/bus"
)

// State is a session gate state.
type State string

const (
	Inactive  State = "INACTIVE"
	Checking  State = "CHECKING"
	Active    State = "ACTIVE"
	SignedOut State = "SIGNED_OUT"
)

// validTransitions defines allowed state transitions.
var validTransitions = map[State][]State{
	Inactive:  {Checking, SignedOut},
	Checking:  {Active, SignedOut},
	Active:    {SignedOut},
	SignedOut: {Checking},
}

// Machine tracks and enforces session gate transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a new state machine starting in Inactive state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Inactive,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns error if transition is invalid.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	m.bus.Emit(bus.SessionStatusChanged, StatusChange{From: from, To: to})
	return nil
}

// Settle moves to the given terminal state unless already there.
func (m *Machine) Settle(to State) error {
	if m.Current() == to {
		return nil
	}
	return m.Transition(to)
}

// StatusChange is the payload for status change events.
type StatusChange struct {
	From State
	To   State
}
