package ui

import (
	"errors"
	"testing"
	"time"
)

func TestFlashLevels(t *testing.T) {
	f := NewFlashModel()

	f.Warn("careful")
	msg := f.GetMessage()
	if msg == nil || msg.Text != "careful" || msg.Level != FlashWarn {
		t.Fatalf("GetMessage() = %+v", msg)
	}

	f.Err(errors.New("boom"))
	if got := f.Get(); got != "boom" {
		t.Errorf("Get() = %q, want boom", got)
	}

	select {
	case fm := <-f.Watch():
		if fm.Text != "careful" {
			t.Errorf("first watched message = %q", fm.Text)
		}
	case <-time.After(time.Second):
		t.Fatal("no watched message")
	}
}

func TestFlashExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFlashModel()
	f.now = func() time.Time { return now }

	f.Info("saved")
	if f.Get() != "saved" {
		t.Fatalf("Get() = %q right after Info", f.Get())
	}

	now = now.Add(flashTTL[FlashInfo])
	if f.GetMessage() != nil || f.Get() != "" {
		t.Error("expired message still visible")
	}
}

func TestFlashClear(t *testing.T) {
	f := NewFlashModel()
	f.Err(errors.New("boom"))
	f.Clear()
	if f.GetMessage() != nil {
		t.Error("message visible after Clear")
	}
}
