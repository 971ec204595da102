package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("session.", 10)
	defer unsub()

	b.Publish(Event{Kind: SessionStatusChanged, Payload: "test"})

	select {
	case evt := <-ch:
		if evt.Kind != SessionStatusChanged {
			t.Errorf("got kind %q, want %s", evt.Kind, SessionStatusChanged)
		}
		if evt.Timestamp.IsZero() {
			t.Error("timestamp not set on publish")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("message.", 10)
	defer unsub()

	b.Emit(ViewChanged, nil)
	b.Emit(MessageTailChanged, nil)

	select {
	case evt := <-ch:
		if evt.Kind != MessageTailChanged {
			t.Errorf("got kind %q, want %s", evt.Kind, MessageTailChanged)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeTwice(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("", 10)
	unsub()
	unsub()

	b.Emit(PrefsChanged, nil)

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("view.", 1)
	defer unsub()

	b.Emit(ViewChanged, "one")
	b.Emit(ViewChanged, "two")

	evt := <-ch
	if evt.Payload != "one" {
		t.Errorf("got %v, want one", evt.Payload)
	}
}

func TestNilBusPublish(t *testing.T) {
	var b *Bus
	b.Emit(ViewChanged, nil)
}
